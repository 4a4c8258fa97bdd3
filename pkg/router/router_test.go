package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body)) //nolint:errcheck
	}
}

func TestGroupPrefixJoining(t *testing.T) {
	r := New()
	api := r.Group("/api")
	cart := api.Group("/cart")
	cart.Get("/", "cart.show", okHandler("cart"))
	cart.Delete("/all", "cart.clear", okHandler("cleared"))

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/api/cart")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/cart/all", nil)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestURLParam(t *testing.T) {
	r := New()
	r.Get("/products/{slug}", "products.show", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(Param(req, "slug"))) //nolint:errcheck
	})

	req := httptest.NewRequest(http.MethodGet, "/products/dog-food", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "dog-food", rec.Body.String())
}

func TestNamedRouteResolution(t *testing.T) {
	r := New()
	r.Get("/products/{slug}", "products.show", okHandler(""))

	path, ok := r.Path("products.show")
	require.True(t, ok)
	assert.Equal(t, "/products/{slug}", path)

	url, err := r.URL("products.show", map[string]string{"slug": "dog-food"})
	require.NoError(t, err)
	assert.Equal(t, "/products/dog-food", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err, "unfilled params must not resolve")

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestGroupMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	api := r.Group("/api", tag("outer"))
	admin := api.Group("/admin", tag("inner"))
	admin.Get("/users", "admin.users", okHandler("ok"), tag("route"))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	r.Handler().ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"outer", "inner", "route"}, order)
}

func TestRoutesListing(t *testing.T) {
	r := New()
	r.Post("/orders", "orders.place", okHandler(""))
	r.Get("/orders", "orders.mine", okHandler(""))

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "GET", routes[0].Method, "sorted by path then method")
	assert.Equal(t, "POST", routes[1].Method)
	assert.Equal(t, "/orders", routes[0].Path)
}
