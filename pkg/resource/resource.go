// Package resource shapes models for API output. A Transformer decides
// which fields leave the service, so storefront responses can hide admin
// fields like stock counts and usage limits without separate DTO structs.
package resource

import (
	"net/http"

	"github.com/petpalace/petpalace/pkg/database"
	"github.com/petpalace/petpalace/pkg/response"
)

// Map is the output shape of a transformer.
type Map = map[string]interface{}

// Transformer converts one model into its public representation.
type Transformer[T any] interface {
	ToMap(v T) Map
}

// Func adapts a plain function to a Transformer.
type Func[T any] func(v T) Map

func (f Func[T]) ToMap(v T) Map { return f(v) }

// One transforms a single model and writes the standard envelope.
func One[T any](w http.ResponseWriter, t Transformer[T], v T) {
	response.Success(w, t.ToMap(v))
}

// Many transforms a slice.
func Many[T any](w http.ResponseWriter, t Transformer[T], items []T) {
	response.Success(w, transform(t, items))
}

// Page transforms a slice with its pagination envelope.
func Page[T any](w http.ResponseWriter, t Transformer[T], items []T, p database.Pagination) {
	response.Paginated(w, transform(t, items), p)
}

func transform[T any](t Transformer[T], items []T) []Map {
	out := make([]Map, len(items))
	for i, v := range items {
		out[i] = t.ToMap(v)
	}
	return out
}
