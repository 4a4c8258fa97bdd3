package controllers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/response"
)

type AdminCategoryController struct {
	categories *repositories.CategoryRepository
	catalog    *services.CatalogService
}

func NewAdminCategoryController() *AdminCategoryController {
	return &AdminCategoryController{
		categories: repositories.NewCategoryRepository(),
		catalog:    services.NewCatalogService(),
	}
}

type categoryInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Slug     string `json:"slug" validate:"required,alpha_dash,min=2,max=100"`
	ParentID string `json:"parent_id" validate:"nullable,objectid"`
	Image    string `json:"image" validate:"nullable,url"`
	Active   *bool  `json:"active"`
}

func (in categoryInput) model() models.Category {
	c := models.Category{
		Name:   in.Name,
		Slug:   in.Slug,
		Image:  in.Image,
		Active: true,
	}
	if in.ParentID != "" {
		id, _ := primitive.ObjectIDFromHex(in.ParentID)
		c.ParentID = &id
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	return c
}

func (c *AdminCategoryController) List(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categories.All(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load categories")
		return
	}
	response.Success(w, categories)
}

func (c *AdminCategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if !bindJSON(w, r, &in) {
		return
	}

	cat := in.model()
	if err := c.categories.Create(r.Context(), &cat); err != nil {
		writeRepoError(w, err, "")
		return
	}
	c.catalog.FlushCategoryCache()
	response.Created(w, cat)
}

func (c *AdminCategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in categoryInput
	if !bindJSON(w, r, &in) {
		return
	}

	cat := in.model()
	cat.ID = id

	// Reparenting under a descendant would detach the subtree into a cycle.
	if err := c.categories.CheckParent(r.Context(), id, cat.ParentID); err != nil {
		if errors.Is(err, repositories.ErrCategoryCycle) {
			response.ValidationError(w, map[string]string{
				"parent_id": "A category cannot be moved under itself or one of its descendants.",
			})
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not update category")
		return
	}

	if err := c.categories.Update(r.Context(), &cat); err != nil {
		writeRepoError(w, err, "Category not found")
		return
	}
	c.catalog.FlushCategoryCache()
	response.Success(w, cat)
}

func (c *AdminCategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := c.categories.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "Category not found")
		return
	}
	c.catalog.FlushCategoryCache()
	response.Message(w, "Category deleted")
}
