package controllers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/logger"
	"github.com/petpalace/petpalace/pkg/response"
)

// CartController serves both cart modes. Anonymous requests read and write
// the sealed cookie; authenticated requests hit the server-side cart. The
// split happens per request on the presence of a valid bearer token.
type CartController struct {
	carts *services.CartService
}

func NewCartController() *CartController {
	return &CartController{carts: services.NewCartService()}
}

type cartLineInput struct {
	ProductID string `json:"product_id" validate:"required,objectid"`
	VariantID string `json:"variant_id"`
	Pack      string `json:"pack"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

func (in cartLineInput) line() models.CartLine {
	id, _ := primitive.ObjectIDFromHex(in.ProductID)
	return models.CartLine{
		ProductID: id,
		VariantID: in.VariantID,
		Pack:      in.Pack,
		Quantity:  in.Quantity,
	}
}

// Show returns the hydrated cart for whoever is asking.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	lines, ok := c.lines(w, r)
	if !ok {
		return
	}

	view, err := c.carts.View(r.Context(), lines)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	response.Success(w, view)
}

func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var in cartLineInput
	if !bindJSON(w, r, &in) {
		return
	}

	if userID, ok := currentUserID(r); ok {
		if err := c.carts.Add(r.Context(), userID, in.line()); err != nil {
			writeCartError(w, err)
			return
		}
		c.showServer(w, r, userID)
		return
	}

	lines, err := c.carts.AddGuestLine(c.carts.LoadGuestCart(r), in.line())
	if err != nil {
		writeCartError(w, err)
		return
	}
	c.saveAndShow(w, r, lines)
}

func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	var in cartLineInput
	if !bindJSON(w, r, &in) {
		return
	}

	if userID, ok := currentUserID(r); ok {
		if err := c.carts.Update(r.Context(), userID, in.line()); err != nil {
			writeCartError(w, err)
			return
		}
		c.showServer(w, r, userID)
		return
	}

	lines, err := c.carts.UpdateGuestLine(c.carts.LoadGuestCart(r), in.line())
	if err != nil {
		writeCartError(w, err)
		return
	}
	c.saveAndShow(w, r, lines)
}

type removeLineInput struct {
	ProductID string `json:"product_id" validate:"required,objectid"`
	VariantID string `json:"variant_id"`
	Pack      string `json:"pack"`
}

func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	var in removeLineInput
	if !bindJSON(w, r, &in) {
		return
	}
	id, _ := primitive.ObjectIDFromHex(in.ProductID)
	line := models.CartLine{ProductID: id, VariantID: in.VariantID, Pack: in.Pack}

	if userID, ok := currentUserID(r); ok {
		if err := c.carts.Remove(r.Context(), userID, line); err != nil {
			writeCartError(w, err)
			return
		}
		c.showServer(w, r, userID)
		return
	}

	c.saveAndShow(w, r, c.carts.RemoveGuestLine(c.carts.LoadGuestCart(r), line))
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	if userID, ok := currentUserID(r); ok {
		if err := c.carts.Clear(r.Context(), userID); err != nil {
			response.Error(w, http.StatusInternalServerError, "Could not clear cart")
			return
		}
		response.Message(w, "Cart cleared")
		return
	}

	c.carts.ClearGuestCart(w)
	response.Message(w, "Cart cleared")
}

// Sync is the post-login merge: the cookie cart folds into the server cart
// and the cookie is dropped. Requires authentication.
func (c *CartController) Sync(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	cart, err := c.carts.Sync(r.Context(), userID, c.carts.LoadGuestCart(r))
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Cart sync failed")
		return
	}
	c.carts.ClearGuestCart(w)

	view, err := c.carts.View(r.Context(), cart.Lines)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	response.Success(w, view)
}

// lines resolves the caller's current cart lines in either mode.
func (c *CartController) lines(w http.ResponseWriter, r *http.Request) ([]models.CartLine, bool) {
	if userID, ok := currentUserID(r); ok {
		cart, err := c.carts.Get(r.Context(), userID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "Could not load cart")
			return nil, false
		}
		return cart.Lines, true
	}
	return c.carts.LoadGuestCart(r), true
}

func (c *CartController) showServer(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) {
	cart, err := c.carts.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	view, err := c.carts.View(r.Context(), cart.Lines)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	response.Success(w, view)
}

func (c *CartController) saveAndShow(w http.ResponseWriter, r *http.Request, lines []models.CartLine) {
	if err := c.carts.SaveGuestCart(w, lines); err != nil {
		logger.Error("cart: cookie save failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not save cart")
		return
	}
	view, err := c.carts.View(r.Context(), lines)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	response.Success(w, view)
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrQuantityInvalid):
		response.Error(w, http.StatusBadRequest, "Quantity must be positive")
	case errors.Is(err, services.ErrSelectionUnknown):
		response.Error(w, http.StatusBadRequest, "Unknown product, variant, or pack")
	default:
		response.Error(w, http.StatusInternalServerError, "Cart update failed")
	}
}
