package controllers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/bind"
	"github.com/petpalace/petpalace/pkg/response"
)

type AdminProductController struct {
	products *repositories.ProductRepository
	catalog  *services.CatalogService
}

func NewAdminProductController() *AdminProductController {
	return &AdminProductController{
		products: repositories.NewProductRepository(),
		catalog:  services.NewCatalogService(),
	}
}

type variantInput struct {
	ID    string  `json:"id" validate:"required,alpha_dash"`
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"required,gt=0"`
	MRP   float64 `json:"mrp" validate:"nullable,gt=0"`
	Stock int     `json:"stock" validate:"gte=0"`
}

type packInput struct {
	Weight string  `json:"weight" validate:"required"`
	Price  float64 `json:"price" validate:"required,gt=0"`
	MRP    float64 `json:"mrp" validate:"nullable,gt=0"`
	Stock  int     `json:"stock" validate:"gte=0"`
}

type productInput struct {
	Name        string         `json:"name" validate:"required,min=2,max=200"`
	Slug        string         `json:"slug" validate:"required,alpha_dash,min=2,max=200"`
	Description string         `json:"description" validate:"nullable,max=10000"`
	BasePrice   float64        `json:"base_price" validate:"gte=0"`
	MRP         float64        `json:"mrp" validate:"gte=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	CategoryID  string         `json:"category_id" validate:"required,objectid"`
	BrandID     string         `json:"brand_id" validate:"nullable,objectid"`
	Images      []string       `json:"images"`
	Variants    []variantInput `json:"variants"`
	Packs       []packInput    `json:"packs"`
	Bestseller  bool           `json:"bestseller"`
	Rank        int            `json:"rank" validate:"gte=0"`
	Active      *bool          `json:"active"`
}

func (in productInput) model() models.Product {
	categoryID, _ := primitive.ObjectIDFromHex(in.CategoryID)
	p := models.Product{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		BasePrice:   in.BasePrice,
		MRP:         in.MRP,
		Stock:       in.Stock,
		CategoryID:  categoryID,
		Images:      in.Images,
		Bestseller:  in.Bestseller,
		Rank:        in.Rank,
		Active:      true,
	}
	if in.BrandID != "" {
		id, _ := primitive.ObjectIDFromHex(in.BrandID)
		p.BrandID = &id
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	for _, v := range in.Variants {
		p.Variants = append(p.Variants, models.Variant{
			ID: v.ID, Name: v.Name, Price: v.Price, MRP: v.MRP, Stock: v.Stock,
		})
	}
	for _, pk := range in.Packs {
		p.Packs = append(p.Packs, models.Pack{
			Weight: pk.Weight, Price: pk.Price, MRP: pk.MRP, Stock: pk.Stock,
		})
	}
	return p
}

func (in productInput) nestedErrors() map[string]string {
	for _, v := range in.Variants {
		if errs := prefixKeys("variants.", structErrors(v)); len(errs) > 0 {
			return errs
		}
	}
	for _, pk := range in.Packs {
		if errs := prefixKeys("packs.", structErrors(pk)); len(errs) > 0 {
			return errs
		}
	}
	return nil
}

func (c *AdminProductController) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	filter := bson.M{}
	if q := bind.Query(r, "active", ""); q == "true" {
		filter["active"] = true
	} else if q == "false" {
		filter["active"] = false
	}

	products, p, err := c.products.List(r.Context(), filter, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load products")
		return
	}
	response.Paginated(w, products, p)
}

func (c *AdminProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	product, err := c.products.FindByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "Product not found")
		return
	}
	response.Success(w, product)
}

func (c *AdminProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if !bindJSON(w, r, &in) {
		return
	}
	if errs := in.nestedErrors(); len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product := in.model()
	if err := c.products.Create(r.Context(), &product); err != nil {
		writeRepoError(w, err, "")
		return
	}
	c.catalog.FlushCategoryCache()
	response.Created(w, product)
}

func (c *AdminProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in productInput
	if !bindJSON(w, r, &in) {
		return
	}
	if errs := in.nestedErrors(); len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product := in.model()
	product.ID = id
	if err := c.products.Update(r.Context(), &product); err != nil {
		writeRepoError(w, err, "Product not found")
		return
	}
	c.catalog.FlushCategoryCache()
	response.Success(w, product)
}

func (c *AdminProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := c.products.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "Product not found")
		return
	}
	c.catalog.FlushCategoryCache()
	response.Message(w, "Product deleted")
}
