// Package graphql exposes a read-only catalog query surface alongside the
// REST API. Mutations stay REST-only; the schema exists for storefront
// clients that want to shape their own product payloads.
package graphql

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/response"
)

const maxQueryLimit = 50

var variantType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Variant",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.String},
		"name":  &graphql.Field{Type: graphql.String},
		"price": &graphql.Field{Type: graphql.Float},
		"mrp":   &graphql.Field{Type: graphql.Float},
		"stock": &graphql.Field{Type: graphql.Int},
	},
})

var packType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Pack",
	Fields: graphql.Fields{
		"weight": &graphql.Field{Type: graphql.String},
		"price":  &graphql.Field{Type: graphql.Float},
		"mrp":    &graphql.Field{Type: graphql.Float},
		"stock":  &graphql.Field{Type: graphql.Int},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.ID,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).ID.Hex(), nil
			},
		},
		"name":        &graphql.Field{Type: graphql.String},
		"slug":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"basePrice": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).BasePrice, nil
			},
		},
		"mrp":        &graphql.Field{Type: graphql.Float},
		"stock":      &graphql.Field{Type: graphql.Int},
		"images":     &graphql.Field{Type: graphql.NewList(graphql.String)},
		"variants":   &graphql.Field{Type: graphql.NewList(variantType)},
		"packs":      &graphql.Field{Type: graphql.NewList(packType)},
		"bestseller": &graphql.Field{Type: graphql.Boolean},
	},
})

func categoryType() *graphql.Object {
	t := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*services.CategoryNode).ID.Hex(), nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*services.CategoryNode).Name, nil
				},
			},
			"slug": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*services.CategoryNode).Slug, nil
				},
			},
		},
	})
	// children is self-referential, so it attaches after construction.
	t.AddFieldConfig("children", &graphql.Field{
		Type: graphql.NewList(t),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*services.CategoryNode).Children, nil
		},
	})
	return t
}

// NewSchema builds the catalog query schema backed by svc.
func NewSchema(svc *services.CatalogService) (graphql.Schema, error) {
	catType := categoryType()

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					slug, _ := p.Args["slug"].(string)
					product, err := svc.ProductBySlug(p.Context, slug)
					if err != nil {
						return nil, fmt.Errorf("product %q not found", slug)
					}
					return product, nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"search":       &graphql.ArgumentConfig{Type: graphql.String},
					"categorySlug": &graphql.ArgumentConfig{Type: graphql.String},
					"limit":        &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit, _ := p.Args["limit"].(int)
					if limit < 1 || limit > maxQueryLimit {
						limit = 20
					}

					if search, _ := p.Args["search"].(string); search != "" {
						products, _, err := svc.Search(p.Context, search, 1, limit)
						return products, err
					}
					if slug, _ := p.Args["categorySlug"].(string); slug != "" {
						products, _, err := svc.ProductsByCategory(p.Context, slug, 1, limit)
						return products, err
					}
					return svc.Bestsellers(p.Context)
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(catType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.CategoryTree(p.Context)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler returns the POST /api/graphql endpoint.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Malformed GraphQL request")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		if len(result.Errors) > 0 {
			w.WriteHeader(http.StatusBadRequest)
		}
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}
