package controllers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/response"
)

type OfferController struct {
	offers *services.OfferService
}

func NewOfferController() *OfferController {
	return &OfferController{offers: services.NewOfferService()}
}

type validateOfferInput struct {
	CouponCode string   `json:"couponCode" validate:"required"`
	CartValue  float64  `json:"cartValue" validate:"gte=0"`
	ProductIDs []string `json:"productIds"`
}

// Validate checks a coupon against the shopper's cart. Each rejection
// reason gets its own message so the storefront can surface it verbatim.
func (c *OfferController) Validate(w http.ResponseWriter, r *http.Request) {
	var in validateOfferInput
	if !bindJSON(w, r, &in) {
		return
	}

	var productIDs []primitive.ObjectID
	for _, raw := range in.ProductIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid product id in productIds")
			return
		}
		productIDs = append(productIDs, id)
	}

	v, err := c.offers.Validate(r.Context(), in.CouponCode, in.CartValue, productIDs)
	if err != nil {
		writeOfferError(w, err)
		return
	}
	response.Success(w, v)
}

func writeOfferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrOfferNotFound):
		response.NotFound(w, "Coupon not found")
	case errors.Is(err, services.ErrOfferNotStarted):
		response.Error(w, http.StatusBadRequest, "This coupon is not active yet")
	case errors.Is(err, services.ErrOfferExpired):
		response.Error(w, http.StatusBadRequest, "This coupon has expired")
	case errors.Is(err, services.ErrOfferExhausted):
		response.Error(w, http.StatusBadRequest, "This coupon has reached its usage limit")
	case errors.Is(err, services.ErrCartBelowMinimum):
		response.Error(w, http.StatusBadRequest, "Cart value is below the coupon minimum")
	default:
		response.Error(w, http.StatusInternalServerError, "Could not validate coupon")
	}
}
