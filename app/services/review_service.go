package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/pkg/database"
	"github.com/petpalace/petpalace/pkg/event"
)

// EventReviewApproved fires when a moderator publishes a review.
const EventReviewApproved = "review.approved"

var ErrRatingRange = errors.New("review: rating must be between 1 and 5")

type reviewStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Review, error)
	ApprovedForProduct(ctx context.Context, productID primitive.ObjectID, page, perPage int) ([]models.Review, database.Pagination, error)
	List(ctx context.Context, pending bool, page, perPage int) ([]models.Review, database.Pagination, error)
	Create(ctx context.Context, rev *models.Review) error
	Approve(ctx context.Context, id primitive.ObjectID) (models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ReviewService struct {
	reviews  reviewStore
	products productFinder
}

func NewReviewService() *ReviewService {
	return &ReviewService{
		reviews:  repositories.NewReviewRepository(),
		products: repositories.NewProductRepository(),
	}
}

func NewReviewServiceWith(reviews reviewStore, products productFinder) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

// Submit files a review against a product; it stays hidden until approved.
func (s *ReviewService) Submit(ctx context.Context, rev *models.Review) error {
	if rev.Rating < 1 || rev.Rating > 5 {
		return ErrRatingRange
	}

	products, err := s.products.FindByIDs(ctx, []primitive.ObjectID{rev.ProductID})
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return database.ErrNotFound
	}

	return s.reviews.Create(ctx, rev)
}

// ForProduct lists what the storefront may show: approved reviews only.
func (s *ReviewService) ForProduct(ctx context.Context, productID primitive.ObjectID, page, perPage int) ([]models.Review, database.Pagination, error) {
	return s.reviews.ApprovedForProduct(ctx, productID, page, perPage)
}

// Moderation queue for the admin.
func (s *ReviewService) List(ctx context.Context, pending bool, page, perPage int) ([]models.Review, database.Pagination, error) {
	return s.reviews.List(ctx, pending, page, perPage)
}

func (s *ReviewService) Approve(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	rev, err := s.reviews.Approve(ctx, id)
	if err != nil {
		return models.Review{}, err
	}
	event.FireAsync(EventReviewApproved, rev)
	return rev, nil
}

func (s *ReviewService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.reviews.Delete(ctx, id)
}
