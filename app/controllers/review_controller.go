package controllers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/response"
	"github.com/petpalace/petpalace/pkg/router"
)

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController() *ReviewController {
	return &ReviewController{reviews: services.NewReviewService()}
}

type reviewInput struct {
	ProductID string `json:"product_id" validate:"required,objectid"`
	Author    string `json:"author" validate:"required,min=2,max=100"`
	Rating    int    `json:"rating" validate:"required,between=1,5"`
	Comment   string `json:"comment" validate:"nullable,max=2000"`
}

// Create files a review; it stays hidden until a moderator approves it.
func (c *ReviewController) Create(w http.ResponseWriter, r *http.Request) {
	var in reviewInput
	if !bindJSON(w, r, &in) {
		return
	}
	productID, _ := primitive.ObjectIDFromHex(in.ProductID)

	rev := models.Review{
		ProductID: productID,
		Author:    in.Author,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if userID, ok := currentUserID(r); ok {
		rev.UserID = userID
	}

	if err := c.reviews.Submit(r.Context(), &rev); err != nil {
		switch {
		case errors.Is(err, services.ErrRatingRange):
			response.Error(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		case errors.Is(err, services.ErrSelectionUnknown):
			response.NotFound(w, "Product not found")
		default:
			writeRepoError(w, err, "Product not found")
		}
		return
	}
	response.Created(w, rev)
}

// ForProduct lists approved reviews for a product.
func (c *ReviewController) ForProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := primitive.ObjectIDFromHex(router.Param(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	page, perPage := pageParams(r)
	reviews, p, err := c.reviews.ForProduct(r.Context(), productID, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load reviews")
		return
	}
	response.Paginated(w, reviews, p)
}
