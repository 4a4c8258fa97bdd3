package controllers

import (
	"net/http"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/bind"
	"github.com/petpalace/petpalace/pkg/resource"
	"github.com/petpalace/petpalace/pkg/response"
	"github.com/petpalace/petpalace/pkg/router"
)

// productCard trims a product to what listing pages need; the full document
// only ships from the detail endpoint.
var productCard = resource.Func[models.Product](func(p models.Product) resource.Map {
	card := resource.Map{
		"id":         p.ID,
		"name":       p.Name,
		"slug":       p.Slug,
		"base_price": p.BasePrice,
		"mrp":        p.MRP,
		"bestseller": p.Bestseller,
		"in_stock":   p.StockFor("", "") > 0 || len(p.Variants) > 0 || len(p.Packs) > 0,
	}
	if len(p.Images) > 0 {
		card["image"] = p.Images[0]
	}
	return card
})

type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController() *CatalogController {
	return &CatalogController{catalog: services.NewCatalogService()}
}

// Categories serves the nested storefront menu.
func (c *CatalogController) Categories(w http.ResponseWriter, r *http.Request) {
	tree, err := c.catalog.CategoryTree(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load categories")
		return
	}
	response.Success(w, tree)
}

// ProductsByCategory pages products under a category slug, descendants
// included. An unknown slug yields an empty page, not a 404.
func (c *CatalogController) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	products, p, err := c.catalog.ProductsByCategory(r.Context(), router.Param(r, "slug"), page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load products")
		return
	}
	resource.Page(w, productCard, products, p)
}

func (c *CatalogController) Product(w http.ResponseWriter, r *http.Request) {
	product, err := c.catalog.ProductBySlug(r.Context(), router.Param(r, "slug"))
	if err != nil {
		writeRepoError(w, err, "Product not found")
		return
	}
	response.Success(w, product)
}

func (c *CatalogController) Search(w http.ResponseWriter, r *http.Request) {
	q := bind.Query(r, "q", "")
	if q == "" {
		response.Error(w, http.StatusBadRequest, "Missing search query")
		return
	}

	page, perPage := pageParams(r)
	products, p, err := c.catalog.Search(r.Context(), q, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Search failed")
		return
	}
	resource.Page(w, productCard, products, p)
}

func (c *CatalogController) Bestsellers(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.Bestsellers(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load bestsellers")
		return
	}
	resource.Many(w, productCard, products)
}
