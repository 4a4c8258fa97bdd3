package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Pagination describes one page of a listing. Serialised into the
// response envelope by response.Paginated.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Normalize clamps page/perPage to sane bounds.
func Normalize(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// FindPage runs a counted, sorted, paginated Find and decodes into dest
// (a pointer to a slice).
func FindPage(ctx context.Context, col *mongo.Collection, filter bson.M, sort bson.D, page, perPage int, dest interface{}) (Pagination, error) {
	page, perPage = Normalize(page, perPage)

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return Pagination{}, err
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))
	if len(sort) > 0 {
		opts.SetSort(sort)
	}

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return Pagination{}, err
	}
	if err := cur.All(ctx, dest); err != nil {
		return Pagination{}, err
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: pages}, nil
}
