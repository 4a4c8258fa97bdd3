package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/pkg/database"
)

// ErrCategoryCycle is returned when an update would make a category its own
// ancestor.
var ErrCategoryCycle = errors.New("category: parent would create a cycle")

// maxTreeDepth bounds BFS so a corrupted tree can never loop a request.
const maxTreeDepth = 32

type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository { return &CategoryRepository{} }

func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	var c models.Category
	err := database.C(database.ColCategories).FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	return c, database.NotFound(err)
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (models.Category, error) {
	var c models.Category
	err := database.C(database.ColCategories).FindOne(ctx, bson.M{"slug": slug}).Decode(&c)
	return c, database.NotFound(err)
}

func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	cur, err := database.C(database.ColCategories).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var items []models.Category
	err = cur.All(ctx, &items)
	return items, err
}

// Children returns the direct children of the given parents in one query.
func (r *CategoryRepository) Children(ctx context.Context, parents []primitive.ObjectID) ([]models.Category, error) {
	if len(parents) == 0 {
		return nil, nil
	}
	cur, err := database.C(database.ColCategories).Find(ctx, bson.M{"parent_id": bson.M{"$in": parents}})
	if err != nil {
		return nil, err
	}
	var items []models.Category
	err = cur.All(ctx, &items)
	return items, err
}

// DescendantIDs resolves id plus every descendant, breadth first. A visited
// set and the depth bound make it safe against cycles in stored data.
func (r *CategoryRepository) DescendantIDs(ctx context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error) {
	visited := map[primitive.ObjectID]struct{}{id: {}}
	out := []primitive.ObjectID{id}
	frontier := []primitive.ObjectID{id}

	for depth := 0; len(frontier) > 0 && depth < maxTreeDepth; depth++ {
		children, err := r.Children(ctx, frontier)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, c := range children {
			if _, seen := visited[c.ID]; seen {
				continue
			}
			visited[c.ID] = struct{}{}
			out = append(out, c.ID)
			frontier = append(frontier, c.ID)
		}
	}
	return out, nil
}

// CheckParent rejects a parent assignment that is the category itself or
// one of its descendants.
func (r *CategoryRepository) CheckParent(ctx context.Context, id primitive.ObjectID, parent *primitive.ObjectID) error {
	if parent == nil || id.IsZero() {
		return nil
	}
	if *parent == id {
		return ErrCategoryCycle
	}

	descendants, err := r.DescendantIDs(ctx, id)
	if err != nil {
		return err
	}
	for _, d := range descendants {
		if d == *parent {
			return ErrCategoryCycle
		}
	}
	return nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	res, err := database.C(database.ColCategories).InsertOne(ctx, c)
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	if err := r.CheckParent(ctx, c.ID, c.ParentID); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	res, err := database.C(database.ColCategories).ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := database.C(database.ColCategories).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
