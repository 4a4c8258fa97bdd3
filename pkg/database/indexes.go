package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used across the application.
const (
	ColProducts   = "products"
	ColCategories = "categories"
	ColBrands     = "brands"
	ColOffers     = "offers"
	ColOrders     = "orders"
	ColReviews    = "reviews"
	ColBlogs      = "blogs"
	ColSliders    = "sliders"
	ColVideos     = "videos"
	ColUsers      = "users"
	ColCarts      = "carts"
	ColWishlists  = "wishlists"
	ColFailedJobs = "failed_jobs"
	ColLogs       = "logs"
)

// EnsureIndexes creates the indexes the application relies on. The unique
// indexes back the 409 duplicate-slug / duplicate-coupon-code responses:
// a concurrent insert races straight into a duplicate-key error here rather
// than past an application-level existence check.
func EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		ColProducts: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
			{Keys: bson.D{{Key: "brand_id", Value: 1}}},
			{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
			{Keys: bson.D{{Key: "bestseller", Value: 1}, {Key: "rank", Value: 1}}},
		},
		ColCategories: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "parent_id", Value: 1}}},
		},
		ColBrands: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ColOffers: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expiry_date", Value: 1}}},
		},
		ColOrders: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		ColReviews: {
			{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "approved", Value: 1}}},
		},
		ColBlogs: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ColUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ColCarts: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ColWishlists: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
				Options: options.Index().SetUnique(true)},
		},
		ColFailedJobs: {
			{Keys: bson.D{{Key: "job_type", Value: 1}}},
			{Keys: bson.D{{Key: "failed_at", Value: -1}}},
		},
	}

	for col, models := range specs {
		if _, err := C(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("database: indexes for %s: %w", col, err)
		}
	}
	return nil
}
