// Package repositories holds the MongoDB data access layer. Each repository
// wraps one collection and returns models, keeping BSON details out of the
// services.
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/pkg/database"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository { return &ProductRepository{} }

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	err := database.C(database.ColProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	return p, database.NotFound(err)
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (models.Product, error) {
	var p models.Product
	err := database.C(database.ColProducts).FindOne(ctx, bson.M{"slug": slug}).Decode(&p)
	return p, database.NotFound(err)
}

// List pages products for the admin; filter may be nil.
func (r *ProductRepository) List(ctx context.Context, filter bson.M, page, perPage int) ([]models.Product, database.Pagination, error) {
	if filter == nil {
		filter = bson.M{}
	}
	var items []models.Product
	p, err := database.FindPage(ctx, database.C(database.ColProducts), filter,
		bson.D{{Key: "created_at", Value: -1}}, page, perPage, &items)
	return items, p, err
}

// ByCategoryIDs pages active products belonging to any of ids. An empty id
// set matches nothing.
func (r *ProductRepository) ByCategoryIDs(ctx context.Context, ids []primitive.ObjectID, page, perPage int) ([]models.Product, database.Pagination, error) {
	filter := bson.M{"active": true, "category_id": bson.M{"$in": ids}}
	if len(ids) == 0 {
		filter["category_id"] = bson.M{"$in": []primitive.ObjectID{}}
	}
	var items []models.Product
	p, err := database.FindPage(ctx, database.C(database.ColProducts), filter,
		bson.D{{Key: "created_at", Value: -1}}, page, perPage, &items)
	return items, p, err
}

// Search runs the text index over name and description.
func (r *ProductRepository) Search(ctx context.Context, query string, page, perPage int) ([]models.Product, database.Pagination, error) {
	filter := bson.M{"active": true, "$text": bson.M{"$search": query}}
	var items []models.Product
	p, err := database.FindPage(ctx, database.C(database.ColProducts), filter,
		bson.D{{Key: "rank", Value: 1}}, page, perPage, &items)
	return items, p, err
}

// Bestsellers returns the curated strip ordered by rank.
func (r *ProductRepository) Bestsellers(ctx context.Context, limit int64) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rank", Value: 1}}).
		SetLimit(limit)
	cur, err := database.C(database.ColProducts).Find(ctx,
		bson.M{"active": true, "bestseller": true}, opts)
	if err != nil {
		return nil, err
	}
	var items []models.Product
	err = cur.All(ctx, &items)
	return items, err
}

// FindByIDs fetches the given products in one query.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := database.C(database.ColProducts).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var items []models.Product
	err = cur.All(ctx, &items)
	return items, err
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	res, err := database.C(database.ColProducts).InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now()
	res, err := database.C(database.ColProducts).ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := database.C(database.ColProducts).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
