package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/pkg/database"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository { return &UserRepository{} }

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := database.C(database.ColUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, database.NotFound(err)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := database.C(database.ColUsers).FindOne(ctx,
		bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&u)
	return u, database.NotFound(err)
}

func (r *UserRepository) List(ctx context.Context, page, perPage int) ([]models.User, database.Pagination, error) {
	var items []models.User
	p, err := database.FindPage(ctx, database.C(database.ColUsers), bson.M{},
		bson.D{{Key: "created_at", Value: -1}}, page, perPage, &items)
	return items, p, err
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	res, err := database.C(database.ColUsers).InsertOne(ctx, u)
	if err != nil {
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.UpdatedAt = time.Now()
	res, err := database.C(database.ColUsers).ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := database.C(database.ColUsers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
