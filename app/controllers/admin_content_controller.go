package controllers

import (
	"net/http"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/pkg/response"
)

// AdminContentController manages the marketing surfaces: brands, blogs,
// sliders, and videos.
type AdminContentController struct {
	brands  *repositories.BrandRepository
	blogs   *repositories.BlogRepository
	sliders *repositories.SliderRepository
	videos  *repositories.VideoRepository
}

func NewAdminContentController() *AdminContentController {
	return &AdminContentController{
		brands:  repositories.NewBrandRepository(),
		blogs:   repositories.NewBlogRepository(),
		sliders: repositories.NewSliderRepository(),
		videos:  repositories.NewVideoRepository(),
	}
}

// ── Brands ───────────────────────────────────────────────────────────

type brandInput struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Slug   string `json:"slug" validate:"required,alpha_dash,min=2,max=100"`
	Logo   string `json:"logo" validate:"nullable,url"`
	Active *bool  `json:"active"`
}

func (c *AdminContentController) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var in brandInput
	if !bindJSON(w, r, &in) {
		return
	}

	brand := models.Brand{Name: in.Name, Slug: in.Slug, Logo: in.Logo, Active: true}
	if in.Active != nil {
		brand.Active = *in.Active
	}
	if err := c.brands.Create(r.Context(), &brand); err != nil {
		writeRepoError(w, err, "")
		return
	}
	response.Created(w, brand)
}

func (c *AdminContentController) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in brandInput
	if !bindJSON(w, r, &in) {
		return
	}

	brand := models.Brand{ID: id, Name: in.Name, Slug: in.Slug, Logo: in.Logo, Active: true}
	if in.Active != nil {
		brand.Active = *in.Active
	}
	if err := c.brands.Update(r.Context(), &brand); err != nil {
		writeRepoError(w, err, "Brand not found")
		return
	}
	response.Success(w, brand)
}

func (c *AdminContentController) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := c.brands.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "Brand not found")
		return
	}
	response.Message(w, "Brand deleted")
}

// ── Blogs ────────────────────────────────────────────────────────────

type blogInput struct {
	Title     string `json:"title" validate:"required,min=2,max=200"`
	Slug      string `json:"slug" validate:"required,alpha_dash,min=2,max=200"`
	Excerpt   string `json:"excerpt" validate:"nullable,max=500"`
	Body      string `json:"body" validate:"required"`
	Image     string `json:"image" validate:"nullable,url"`
	Published bool   `json:"published"`
}

func (in blogInput) model() models.Blog {
	return models.Blog{
		Title:     in.Title,
		Slug:      in.Slug,
		Excerpt:   in.Excerpt,
		Body:      in.Body,
		Image:     in.Image,
		Published: in.Published,
	}
}

func (c *AdminContentController) ListBlogs(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	blogs, p, err := c.blogs.List(r.Context(), false, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load blogs")
		return
	}
	response.Paginated(w, blogs, p)
}

func (c *AdminContentController) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var in blogInput
	if !bindJSON(w, r, &in) {
		return
	}

	blog := in.model()
	if err := c.blogs.Create(r.Context(), &blog); err != nil {
		writeRepoError(w, err, "")
		return
	}
	response.Created(w, blog)
}

func (c *AdminContentController) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in blogInput
	if !bindJSON(w, r, &in) {
		return
	}

	blog := in.model()
	blog.ID = id
	if err := c.blogs.Update(r.Context(), &blog); err != nil {
		writeRepoError(w, err, "Blog not found")
		return
	}
	response.Success(w, blog)
}

func (c *AdminContentController) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := c.blogs.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "Blog not found")
		return
	}
	response.Message(w, "Blog deleted")
}

// ── Sliders ──────────────────────────────────────────────────────────

type sliderInput struct {
	Title    string `json:"title" validate:"required,max=200"`
	Image    string `json:"image" validate:"required,url"`
	Link     string `json:"link" validate:"nullable,url"`
	Position int    `json:"position" validate:"gte=0"`
	Active   *bool  `json:"active"`
}

func (c *AdminContentController) ListSliders(w http.ResponseWriter, r *http.Request) {
	sliders, err := c.sliders.All(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load sliders")
		return
	}
	response.Success(w, sliders)
}

func (c *AdminContentController) CreateSlider(w http.ResponseWriter, r *http.Request) {
	var in sliderInput
	if !bindJSON(w, r, &in) {
		return
	}

	slider := models.Slider{Title: in.Title, Image: in.Image, Link: in.Link, Position: in.Position, Active: true}
	if in.Active != nil {
		slider.Active = *in.Active
	}
	if err := c.sliders.Create(r.Context(), &slider); err != nil {
		writeRepoError(w, err, "")
		return
	}
	response.Created(w, slider)
}

func (c *AdminContentController) UpdateSlider(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in sliderInput
	if !bindJSON(w, r, &in) {
		return
	}

	slider := models.Slider{ID: id, Title: in.Title, Image: in.Image, Link: in.Link, Position: in.Position, Active: true}
	if in.Active != nil {
		slider.Active = *in.Active
	}
	if err := c.sliders.Update(r.Context(), &slider); err != nil {
		writeRepoError(w, err, "Slider not found")
		return
	}
	response.Success(w, slider)
}

func (c *AdminContentController) DeleteSlider(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := c.sliders.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "Slider not found")
		return
	}
	response.Message(w, "Slider deleted")
}

// ── Videos ───────────────────────────────────────────────────────────

type videoInput struct {
	Title     string `json:"title" validate:"required,max=200"`
	URL       string `json:"url" validate:"required,url"`
	Thumbnail string `json:"thumbnail" validate:"nullable,url"`
	Active    *bool  `json:"active"`
}

func (c *AdminContentController) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := c.videos.All(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load videos")
		return
	}
	response.Success(w, videos)
}

func (c *AdminContentController) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var in videoInput
	if !bindJSON(w, r, &in) {
		return
	}

	video := models.Video{Title: in.Title, URL: in.URL, Thumbnail: in.Thumbnail, Active: true}
	if in.Active != nil {
		video.Active = *in.Active
	}
	if err := c.videos.Create(r.Context(), &video); err != nil {
		writeRepoError(w, err, "")
		return
	}
	response.Created(w, video)
}

func (c *AdminContentController) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in videoInput
	if !bindJSON(w, r, &in) {
		return
	}

	video := models.Video{ID: id, Title: in.Title, URL: in.URL, Thumbnail: in.Thumbnail, Active: true}
	if in.Active != nil {
		video.Active = *in.Active
	}
	if err := c.videos.Update(r.Context(), &video); err != nil {
		writeRepoError(w, err, "Video not found")
		return
	}
	response.Success(w, video)
}

func (c *AdminContentController) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := c.videos.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "Video not found")
		return
	}
	response.Message(w, "Video deleted")
}
