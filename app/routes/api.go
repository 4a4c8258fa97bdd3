// Package routes maps URLs onto controllers. Everything lives under /api;
// the admin surface nests under /api/admin behind auth plus an admin role
// check.
package routes

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/petpalace/petpalace/app/controllers"
	gql "github.com/petpalace/petpalace/app/graphql"
	"github.com/petpalace/petpalace/pkg/middleware"
	"github.com/petpalace/petpalace/pkg/rbac"
	"github.com/petpalace/petpalace/pkg/router"
	"github.com/petpalace/petpalace/pkg/ws"
)

// RegisterAPI mounts every endpoint onto r.
func RegisterAPI(r *router.Router, hub *ws.Hub, schema graphql.Schema) {
	catalog := controllers.NewCatalogController()
	content := controllers.NewContentController()
	offers := controllers.NewOfferController()
	carts := controllers.NewCartController()
	wishlists := controllers.NewWishlistController()
	orders := controllers.NewOrderController()
	reviews := controllers.NewReviewController()
	authc := controllers.NewAuthController()

	api := r.Group("/api")

	// Auth
	api.Post("/auth/register", "auth.register", authc.Register)
	api.Post("/auth/login", "auth.login", authc.Login)
	api.Post("/auth/refresh", "auth.refresh", authc.Refresh)
	api.Get("/auth/me", "auth.me", authc.Me, middleware.Auth)

	// Catalog
	api.Get("/categories", "categories.tree", catalog.Categories)
	api.Get("/categories/{slug}/products", "categories.products", catalog.ProductsByCategory)
	api.Get("/products/search", "products.search", catalog.Search)
	api.Get("/products/bestsellers", "products.bestsellers", catalog.Bestsellers)
	api.Get("/products/{slug}", "products.show", catalog.Product)
	api.Get("/products/{id}/reviews", "products.reviews", reviews.ForProduct)
	api.Post("/reviews", "reviews.create", reviews.Create, middleware.OptionalAuth)

	// Content
	api.Get("/blogs", "blogs.index", content.Blogs)
	api.Get("/blogs/{slug}", "blogs.show", content.Blog)
	api.Get("/sliders", "sliders.index", content.Sliders)
	api.Get("/videos", "videos.index", content.Videos)
	api.Get("/brands", "brands.index", content.Brands)

	// Offers
	api.Post("/offers/validate", "offers.validate", offers.Validate)

	// Cart: dual-mode, so auth is optional on everything except sync.
	cart := api.Group("/cart", middleware.OptionalAuth)
	cart.Get("/", "cart.show", carts.Show)
	cart.Post("/", "cart.add", carts.Add)
	cart.Put("/", "cart.update", carts.Update)
	cart.Delete("/", "cart.remove", carts.Remove)
	cart.Delete("/all", "cart.clear", carts.Clear)
	api.Post("/cart/sync", "cart.sync", carts.Sync, middleware.Auth)

	// Wishlist: dual-mode via the session guest key.
	wishlist := api.Group("/wishlist", middleware.OptionalAuth)
	wishlist.Get("/", "wishlist.show", wishlists.Show)
	wishlist.Post("/", "wishlist.add", wishlists.Add)
	wishlist.Delete("/", "wishlist.remove", wishlists.Remove)

	// Orders
	api.Post("/orders", "orders.place", orders.Place, middleware.Auth)
	api.Get("/orders", "orders.mine", orders.Mine, middleware.Auth)
	api.Get("/orders/{id}", "orders.show", orders.Show, middleware.Auth)

	// GraphQL (read-only catalog)
	api.Post("/graphql", "graphql", gql.Handler(schema))

	registerAdmin(api, hub)
}

func registerAdmin(api *router.Group, hub *ws.Hub) {
	products := controllers.NewAdminProductController()
	categories := controllers.NewAdminCategoryController()
	content := controllers.NewAdminContentController()
	offers := controllers.NewAdminOfferController()
	orders := controllers.NewAdminOrderController()
	reviews := controllers.NewAdminReviewController()
	users := controllers.NewAdminUserController()
	uploads := controllers.NewUploadController()

	admin := api.Group("/admin", middleware.Auth, rbac.HasRole("admin"))

	admin.Get("/products", "admin.products.index", products.List)
	admin.Post("/products", "admin.products.create", products.Create)
	admin.Get("/products/{id}", "admin.products.show", products.Show)
	admin.Put("/products/{id}", "admin.products.update", products.Update)
	admin.Delete("/products/{id}", "admin.products.delete", products.Delete)

	admin.Get("/categories", "admin.categories.index", categories.List)
	admin.Post("/categories", "admin.categories.create", categories.Create)
	admin.Put("/categories/{id}", "admin.categories.update", categories.Update)
	admin.Delete("/categories/{id}", "admin.categories.delete", categories.Delete)

	admin.Post("/brands", "admin.brands.create", content.CreateBrand)
	admin.Put("/brands/{id}", "admin.brands.update", content.UpdateBrand)
	admin.Delete("/brands/{id}", "admin.brands.delete", content.DeleteBrand)

	admin.Get("/blogs", "admin.blogs.index", content.ListBlogs)
	admin.Post("/blogs", "admin.blogs.create", content.CreateBlog)
	admin.Put("/blogs/{id}", "admin.blogs.update", content.UpdateBlog)
	admin.Delete("/blogs/{id}", "admin.blogs.delete", content.DeleteBlog)

	admin.Get("/sliders", "admin.sliders.index", content.ListSliders)
	admin.Post("/sliders", "admin.sliders.create", content.CreateSlider)
	admin.Put("/sliders/{id}", "admin.sliders.update", content.UpdateSlider)
	admin.Delete("/sliders/{id}", "admin.sliders.delete", content.DeleteSlider)

	admin.Get("/videos", "admin.videos.index", content.ListVideos)
	admin.Post("/videos", "admin.videos.create", content.CreateVideo)
	admin.Put("/videos/{id}", "admin.videos.update", content.UpdateVideo)
	admin.Delete("/videos/{id}", "admin.videos.delete", content.DeleteVideo)

	admin.Get("/offers", "admin.offers.index", offers.List)
	admin.Post("/offers", "admin.offers.create", offers.Create)
	admin.Get("/offers/{id}", "admin.offers.show", offers.Show)
	admin.Put("/offers/{id}", "admin.offers.update", offers.Update)
	admin.Delete("/offers/{id}", "admin.offers.delete", offers.Delete)

	admin.Get("/orders", "admin.orders.index", orders.List)
	admin.Get("/orders/{id}", "admin.orders.show", orders.Show)
	admin.Put("/orders/{id}/status", "admin.orders.status", orders.UpdateStatus)

	admin.Get("/reviews", "admin.reviews.index", reviews.List)
	admin.Put("/reviews/{id}/approve", "admin.reviews.approve", reviews.Approve)
	admin.Delete("/reviews/{id}", "admin.reviews.delete", reviews.Delete)

	admin.Get("/users", "admin.users.index", users.List)
	admin.Put("/users/{id}", "admin.users.update", users.Update)
	admin.Delete("/users/{id}", "admin.users.delete", users.Delete)

	admin.Post("/uploads", "admin.uploads.store", uploads.Store)
	admin.Delete("/uploads", "admin.uploads.delete", uploads.Destroy)

	// Live order feed for the admin dashboard.
	admin.Get("/orders-feed", "admin.orders.feed", func(w http.ResponseWriter, r *http.Request) {
		hub.Upgrade(w, r)
	})
}
