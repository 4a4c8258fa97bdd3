package controllers

import (
	"net/http"

	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/pkg/response"
	"github.com/petpalace/petpalace/pkg/router"
)

// ContentController serves the public read side of blogs, sliders, videos,
// and brands. These are plain repository reads with no business rules, so
// no service sits in between.
type ContentController struct {
	blogs   *repositories.BlogRepository
	sliders *repositories.SliderRepository
	videos  *repositories.VideoRepository
	brands  *repositories.BrandRepository
}

func NewContentController() *ContentController {
	return &ContentController{
		blogs:   repositories.NewBlogRepository(),
		sliders: repositories.NewSliderRepository(),
		videos:  repositories.NewVideoRepository(),
		brands:  repositories.NewBrandRepository(),
	}
}

func (c *ContentController) Blogs(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	blogs, p, err := c.blogs.List(r.Context(), true, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load blogs")
		return
	}
	response.Paginated(w, blogs, p)
}

func (c *ContentController) Blog(w http.ResponseWriter, r *http.Request) {
	blog, err := c.blogs.FindBySlug(r.Context(), router.Param(r, "slug"))
	if err != nil || !blog.Published {
		response.NotFound(w, "Blog not found")
		return
	}
	response.Success(w, blog)
}

func (c *ContentController) Sliders(w http.ResponseWriter, r *http.Request) {
	sliders, err := c.sliders.Active(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load sliders")
		return
	}
	response.Success(w, sliders)
}

func (c *ContentController) Videos(w http.ResponseWriter, r *http.Request) {
	videos, err := c.videos.Active(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load videos")
		return
	}
	response.Success(w, videos)
}

func (c *ContentController) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := c.brands.All(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load brands")
		return
	}
	response.Success(w, brands)
}
