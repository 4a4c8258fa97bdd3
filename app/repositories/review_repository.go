package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/pkg/database"
)

type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository { return &ReviewRepository{} }

func (r *ReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	var rev models.Review
	err := database.C(database.ColReviews).FindOne(ctx, bson.M{"_id": id}).Decode(&rev)
	return rev, database.NotFound(err)
}

// ApprovedForProduct lists the reviews the storefront may show.
func (r *ReviewRepository) ApprovedForProduct(ctx context.Context, productID primitive.ObjectID, page, perPage int) ([]models.Review, database.Pagination, error) {
	var items []models.Review
	p, err := database.FindPage(ctx, database.C(database.ColReviews),
		bson.M{"product_id": productID, "approved": true},
		bson.D{{Key: "created_at", Value: -1}}, page, perPage, &items)
	return items, p, err
}

// List pages all reviews for moderation; pending=true restricts to the
// unapproved queue.
func (r *ReviewRepository) List(ctx context.Context, pending bool, page, perPage int) ([]models.Review, database.Pagination, error) {
	filter := bson.M{}
	if pending {
		filter["approved"] = false
	}
	var items []models.Review
	p, err := database.FindPage(ctx, database.C(database.ColReviews), filter,
		bson.D{{Key: "created_at", Value: -1}}, page, perPage, &items)
	return items, p, err
}

func (r *ReviewRepository) Create(ctx context.Context, rev *models.Review) error {
	now := time.Now()
	rev.CreatedAt, rev.UpdatedAt = now, now
	rev.Approved = false
	res, err := database.C(database.ColReviews).InsertOne(ctx, rev)
	if err != nil {
		return err
	}
	rev.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Approve flips the moderation gate and returns the updated review.
func (r *ReviewRepository) Approve(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	res, err := database.C(database.ColReviews).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"approved": true, "updated_at": time.Now()}})
	if err != nil {
		return models.Review{}, err
	}
	if res.MatchedCount == 0 {
		return models.Review{}, database.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := database.C(database.ColReviews).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
