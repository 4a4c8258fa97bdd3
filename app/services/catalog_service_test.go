package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/pkg/cache"
	"github.com/petpalace/petpalace/pkg/database"
)

type fakeCategoryStore struct {
	categories []models.Category
}

func (s *fakeCategoryStore) FindBySlug(_ context.Context, slug string) (models.Category, error) {
	for _, c := range s.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return models.Category{}, database.ErrNotFound
}

func (s *fakeCategoryStore) All(_ context.Context) ([]models.Category, error) {
	return s.categories, nil
}

func (s *fakeCategoryStore) DescendantIDs(_ context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{id}
	for i := 0; i < len(ids); i++ {
		for _, c := range s.categories {
			if c.ParentID != nil && *c.ParentID == ids[i] {
				ids = append(ids, c.ID)
			}
		}
	}
	return ids, nil
}

type fakeProductStore struct {
	products  []models.Product
	gotIDs    []primitive.ObjectID
	gotSearch string
}

func (s *fakeProductStore) FindBySlug(_ context.Context, slug string) (models.Product, error) {
	for _, p := range s.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.Product{}, database.ErrNotFound
}

func (s *fakeProductStore) ByCategoryIDs(_ context.Context, ids []primitive.ObjectID, page, perPage int) ([]models.Product, database.Pagination, error) {
	s.gotIDs = ids
	if len(ids) == 0 {
		return []models.Product{}, database.Pagination{}, nil
	}
	var out []models.Product
	for _, p := range s.products {
		for _, id := range ids {
			if p.CategoryID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, database.Pagination{Total: int64(len(out)), Page: page, PerPage: perPage}, nil
}

func (s *fakeProductStore) Search(_ context.Context, query string, page, perPage int) ([]models.Product, database.Pagination, error) {
	s.gotSearch = query
	return s.products, database.Pagination{Total: int64(len(s.products))}, nil
}

func (s *fakeProductStore) Bestsellers(_ context.Context, limit int64) ([]models.Product, error) {
	return s.products, nil
}

func catTree() (*fakeCategoryStore, map[string]primitive.ObjectID) {
	ids := map[string]primitive.ObjectID{
		"dogs":     primitive.NewObjectID(),
		"dog-food": primitive.NewObjectID(),
		"dog-toys": primitive.NewObjectID(),
		"cats":     primitive.NewObjectID(),
	}
	dogs := ids["dogs"]
	return &fakeCategoryStore{categories: []models.Category{
		{ID: ids["dogs"], Name: "Dogs", Slug: "dogs"},
		{ID: ids["dog-food"], Name: "Dog Food", Slug: "dog-food", ParentID: &dogs},
		{ID: ids["dog-toys"], Name: "Dog Toys", Slug: "dog-toys", ParentID: &dogs},
		{ID: ids["cats"], Name: "Cats", Slug: "cats"},
	}}, ids
}

func TestResolveCategoryIDsIncludesDescendants(t *testing.T) {
	cats, ids := catTree()
	svc := NewCatalogServiceWith(cats, &fakeProductStore{})

	got, err := svc.ResolveCategoryIDs(context.Background(), "dogs")
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{ids["dogs"], ids["dog-food"], ids["dog-toys"]}, got)
}

func TestResolveCategoryIDsLeaf(t *testing.T) {
	cats, ids := catTree()
	svc := NewCatalogServiceWith(cats, &fakeProductStore{})

	got, err := svc.ResolveCategoryIDs(context.Background(), "dog-food")
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{ids["dog-food"]}, got)
}

func TestResolveCategoryIDsUnknownSlug(t *testing.T) {
	cats, _ := catTree()
	svc := NewCatalogServiceWith(cats, &fakeProductStore{})

	got, err := svc.ResolveCategoryIDs(context.Background(), "hamsters")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProductsByCategoryUnknownSlugMatchesNothing(t *testing.T) {
	cats, ids := catTree()
	products := &fakeProductStore{products: []models.Product{
		{ID: primitive.NewObjectID(), Name: "Kibble", Slug: "kibble", CategoryID: ids["dog-food"]},
	}}
	svc := NewCatalogServiceWith(cats, products)

	got, _, err := svc.ProductsByCategory(context.Background(), "hamsters", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, products.gotIDs)
}

func TestCategoryTreeNesting(t *testing.T) {
	cache.Del("catalog:category_tree")
	cats, _ := catTree()
	svc := NewCatalogServiceWith(cats, &fakeProductStore{})

	tree, err := svc.CategoryTree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 2)

	// Roots sort by name: Cats, Dogs.
	assert.Equal(t, "Cats", tree[0].Name)
	assert.Equal(t, "Dogs", tree[1].Name)
	require.Len(t, tree[1].Children, 2)
	assert.Equal(t, "Dog Food", tree[1].Children[0].Name)
	assert.Equal(t, "Dog Toys", tree[1].Children[1].Name)
}

func TestCategoryTreeOrphanBecomesRoot(t *testing.T) {
	cache.Del("catalog:category_tree")
	ghost := primitive.NewObjectID()
	cats := &fakeCategoryStore{categories: []models.Category{
		{ID: primitive.NewObjectID(), Name: "Strays", Slug: "strays", ParentID: &ghost},
	}}
	svc := NewCatalogServiceWith(cats, &fakeProductStore{})

	tree, err := svc.CategoryTree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "Strays", tree[0].Name)
}
