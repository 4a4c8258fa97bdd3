package controllers

import (
	"net/http"

	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/bind"
	"github.com/petpalace/petpalace/pkg/response"
)

type AdminReviewController struct {
	reviews *services.ReviewService
}

func NewAdminReviewController() *AdminReviewController {
	return &AdminReviewController{reviews: services.NewReviewService()}
}

// List shows the moderation queue; ?pending=false lists everything.
func (c *AdminReviewController) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	pending := bind.Query(r, "pending", "true") == "true"

	reviews, p, err := c.reviews.List(r.Context(), pending, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load reviews")
		return
	}
	response.Paginated(w, reviews, p)
}

func (c *AdminReviewController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	review, err := c.reviews.Approve(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "Review not found")
		return
	}
	response.Success(w, review)
}

func (c *AdminReviewController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := c.reviews.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "Review not found")
		return
	}
	response.Message(w, "Review deleted")
}
