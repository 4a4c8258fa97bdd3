package controllers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/logger"
	"github.com/petpalace/petpalace/pkg/resource"
	"github.com/petpalace/petpalace/pkg/response"
	"github.com/petpalace/petpalace/pkg/session"
)

// WishlistController keys wishlists by user id when authenticated and by
// the session guest key otherwise. Both live server-side; only the key
// differs.
type WishlistController struct {
	wishlists *services.WishlistService
}

func NewWishlistController() *WishlistController {
	return &WishlistController{wishlists: services.NewWishlistService()}
}

// owner resolves the storage key for this request, persisting a fresh guest
// key into the session when one is minted.
func (c *WishlistController) owner(w http.ResponseWriter, r *http.Request) repositories.WishlistOwner {
	if userID, ok := currentUserID(r); ok {
		return services.Owner(&userID, "")
	}

	sess := session.FromCtx(r)
	key := sess.GuestKey()
	if err := sess.Save(w); err != nil {
		logger.Warn("wishlist: session save failed", "error", err)
	}
	return services.Owner(nil, key)
}

func (c *WishlistController) Show(w http.ResponseWriter, r *http.Request) {
	products, err := c.wishlists.Products(r.Context(), c.owner(w, r))
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load wishlist")
		return
	}
	resource.Many(w, productCard, products)
}

type wishlistInput struct {
	ProductID string `json:"product_id" validate:"required,objectid"`
}

func (c *WishlistController) Add(w http.ResponseWriter, r *http.Request) {
	var in wishlistInput
	if !bindJSON(w, r, &in) {
		return
	}
	productID, _ := primitive.ObjectIDFromHex(in.ProductID)

	if err := c.wishlists.Add(r.Context(), c.owner(w, r), productID); err != nil {
		if errors.Is(err, services.ErrSelectionUnknown) {
			response.NotFound(w, "Product not found")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not update wishlist")
		return
	}
	response.Message(w, "Added to wishlist")
}

func (c *WishlistController) Remove(w http.ResponseWriter, r *http.Request) {
	var in wishlistInput
	if !bindJSON(w, r, &in) {
		return
	}
	productID, _ := primitive.ObjectIDFromHex(in.ProductID)

	if err := c.wishlists.Remove(r.Context(), c.owner(w, r), productID); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not update wishlist")
		return
	}
	response.Message(w, "Removed from wishlist")
}
