package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/pkg/cache"
	"github.com/petpalace/petpalace/pkg/collection"
	"github.com/petpalace/petpalace/pkg/database"
)

// categoryStore and productStore are the slices of the repositories the
// catalog reads need.
type categoryStore interface {
	FindBySlug(ctx context.Context, slug string) (models.Category, error)
	All(ctx context.Context) ([]models.Category, error)
	DescendantIDs(ctx context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error)
}

type productStore interface {
	FindBySlug(ctx context.Context, slug string) (models.Product, error)
	ByCategoryIDs(ctx context.Context, ids []primitive.ObjectID, page, perPage int) ([]models.Product, database.Pagination, error)
	Search(ctx context.Context, query string, page, perPage int) ([]models.Product, database.Pagination, error)
	Bestsellers(ctx context.Context, limit int64) ([]models.Product, error)
}

// CategoryNode is a category with its children, for the storefront menu.
type CategoryNode struct {
	models.Category
	Children []*CategoryNode `json:"children,omitempty"`
}

type CatalogService struct {
	categories categoryStore
	products   productStore
}

func NewCatalogService() *CatalogService {
	return &CatalogService{
		categories: repositories.NewCategoryRepository(),
		products:   repositories.NewProductRepository(),
	}
}

func NewCatalogServiceWith(categories categoryStore, products productStore) *CatalogService {
	return &CatalogService{categories: categories, products: products}
}

// ResolveCategoryIDs returns the id set for slug and all its descendants.
// An unknown slug resolves to an empty set, which product filters treat as
// "match nothing".
func (s *CatalogService) ResolveCategoryIDs(ctx context.Context, slug string) ([]primitive.ObjectID, error) {
	cat, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return []primitive.ObjectID{}, nil
		}
		return nil, err
	}
	return s.categories.DescendantIDs(ctx, cat.ID)
}

// ProductsByCategory pages the active products under slug's subtree.
func (s *CatalogService) ProductsByCategory(ctx context.Context, slug string, page, perPage int) ([]models.Product, database.Pagination, error) {
	ids, err := s.ResolveCategoryIDs(ctx, slug)
	if err != nil {
		return nil, database.Pagination{}, err
	}
	return s.products.ByCategoryIDs(ctx, ids, page, perPage)
}

// ProductBySlug returns one product for the detail page.
func (s *CatalogService) ProductBySlug(ctx context.Context, slug string) (models.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

// Search runs the full-text lookup.
func (s *CatalogService) Search(ctx context.Context, query string, page, perPage int) ([]models.Product, database.Pagination, error) {
	return s.products.Search(ctx, query, page, perPage)
}

// Bestsellers serves the curated homepage strip, cached for five minutes.
func (s *CatalogService) Bestsellers(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	err := cache.Remember("catalog:bestsellers", 5*time.Minute, &items, func() (interface{}, error) {
		return s.products.Bestsellers(ctx, 20)
	})
	return items, err
}

// CategoryTree builds the nested menu from a single query, cached for ten
// minutes. Nodes whose parent is missing are promoted to roots rather than
// dropped.
func (s *CatalogService) CategoryTree(ctx context.Context) ([]*CategoryNode, error) {
	var roots []*CategoryNode
	err := cache.Remember("catalog:category_tree", 10*time.Minute, &roots, func() (interface{}, error) {
		all, err := s.categories.All(ctx)
		if err != nil {
			return nil, err
		}

		nodes := collection.KeyBy(
			collection.Map(all, func(c models.Category) *CategoryNode {
				return &CategoryNode{Category: c}
			}),
			func(n *CategoryNode) primitive.ObjectID { return n.ID },
		)

		var tree []*CategoryNode
		for _, n := range nodes {
			if n.ParentID == nil {
				tree = append(tree, n)
				continue
			}
			parent, ok := nodes[*n.ParentID]
			if !ok || parent == n {
				tree = append(tree, n)
				continue
			}
			parent.Children = append(parent.Children, n)
		}

		sortNodes(tree)
		return tree, nil
	})
	return roots, err
}

// FlushCategoryCache drops the cached tree after admin writes.
func (s *CatalogService) FlushCategoryCache() {
	cache.Del("catalog:category_tree", "catalog:bestsellers")
}

func sortNodes(nodes []*CategoryNode) {
	collection.SortBy(nodes, func(a, b *CategoryNode) bool { return a.Name < b.Name })
	for _, n := range nodes {
		if len(n.Children) > 0 {
			sortNodes(n.Children)
		}
	}
}
