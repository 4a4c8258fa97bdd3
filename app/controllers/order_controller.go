package controllers

import (
	"errors"
	"net/http"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/response"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{orders: services.NewOrderService()}
}

type addressInput struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required,min=8,max=15"`
	Line1   string `json:"line1" validate:"required"`
	Line2   string `json:"line2"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required,min=4,max=10"`
}

type placeOrderInput struct {
	Lines      []cartLineInput `json:"lines" validate:"required"`
	Address    addressInput    `json:"address"`
	CouponCode string          `json:"coupon_code"`
}

// Place runs checkout for the authenticated user.
func (c *OrderController) Place(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in placeOrderInput
	if !bindJSON(w, r, &in) {
		return
	}
	if errs := validateAddress(in.Address); len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	lines := make([]models.CartLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if errs := validateLine(l); len(errs) > 0 {
			response.ValidationError(w, errs)
			return
		}
		lines = append(lines, l.line())
	}

	order, err := c.orders.Place(r.Context(), userID, services.PlaceOrderInput{
		Lines: lines,
		Address: models.Address{
			Name:    in.Address.Name,
			Phone:   in.Address.Phone,
			Line1:   in.Address.Line1,
			Line2:   in.Address.Line2,
			City:    in.Address.City,
			State:   in.Address.State,
			Pincode: in.Address.Pincode,
		},
		CouponCode: in.CouponCode,
	})
	if err != nil {
		writeOrderError(w, err)
		return
	}
	response.Created(w, order)
}

// Mine lists the caller's own orders, newest first.
func (c *OrderController) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	page, perPage := pageParams(r)
	orders, p, err := c.orders.ForUser(r.Context(), userID, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}
	response.Paginated(w, orders, p)
}

// Show returns one order, only to its owner.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	order, err := c.orders.FindByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "Order not found")
		return
	}
	if order.UserID != userID {
		// Existence of someone else's order is not disclosed.
		response.NotFound(w, "Order not found")
		return
	}
	response.Success(w, order)
}

func validateAddress(a addressInput) map[string]string {
	return prefixKeys("address.", structErrors(a))
}

func validateLine(l cartLineInput) map[string]string {
	return structErrors(l)
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyOrder):
		response.Error(w, http.StatusBadRequest, "Order has no items")
	case errors.Is(err, services.ErrOutOfStock):
		response.Error(w, http.StatusBadRequest, "One or more items are out of stock")
	case errors.Is(err, services.ErrSelectionUnknown):
		response.Error(w, http.StatusBadRequest, "Unknown product, variant, or pack")
	case errors.Is(err, services.ErrQuantityInvalid):
		response.Error(w, http.StatusBadRequest, "Quantity must be positive")
	case errors.Is(err, services.ErrOfferNotFound),
		errors.Is(err, services.ErrOfferNotStarted),
		errors.Is(err, services.ErrOfferExpired),
		errors.Is(err, services.ErrOfferExhausted),
		errors.Is(err, services.ErrCartBelowMinimum):
		writeOfferError(w, err)
	default:
		response.Error(w, http.StatusInternalServerError, "Could not place order")
	}
}
