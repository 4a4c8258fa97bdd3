package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/pkg/database"
)

// WishlistRepository keys documents by user id for authenticated shoppers
// and by the session guest key for anonymous ones.
type WishlistRepository struct{}

func NewWishlistRepository() *WishlistRepository { return &WishlistRepository{} }

// WishlistOwner selects which key a wishlist operation applies to.
type WishlistOwner struct {
	UserID   *primitive.ObjectID
	GuestKey string
}

func (o WishlistOwner) filter() bson.M {
	if o.UserID != nil {
		return bson.M{"user_id": *o.UserID}
	}
	return bson.M{"guest_key": o.GuestKey}
}

func (r *WishlistRepository) Get(ctx context.Context, owner WishlistOwner) (models.Wishlist, error) {
	var w models.Wishlist
	err := database.C(database.ColWishlists).FindOne(ctx, owner.filter()).Decode(&w)
	if err == mongo.ErrNoDocuments {
		return models.Wishlist{
			UserID:   owner.UserID,
			GuestKey: owner.GuestKey,
			Products: []primitive.ObjectID{},
		}, nil
	}
	return w, err
}

// Add appends productID if absent ($addToSet keeps the list a set).
func (r *WishlistRepository) Add(ctx context.Context, owner WishlistOwner, productID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"products": productID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	_, err := database.C(database.ColWishlists).UpdateOne(ctx, owner.filter(), update,
		options.Update().SetUpsert(true))
	return err
}

func (r *WishlistRepository) Remove(ctx context.Context, owner WishlistOwner, productID primitive.ObjectID) error {
	_, err := database.C(database.ColWishlists).UpdateOne(ctx, owner.filter(),
		bson.M{
			"$pull": bson.M{"products": productID},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	return err
}

// Merge unions the guest wishlist into the user's and deletes the guest
// document.
func (r *WishlistRepository) Merge(ctx context.Context, guestKey string, userID primitive.ObjectID) error {
	guest, err := r.Get(ctx, WishlistOwner{GuestKey: guestKey})
	if err != nil {
		return err
	}

	if len(guest.Products) > 0 {
		_, err = database.C(database.ColWishlists).UpdateOne(ctx,
			bson.M{"user_id": userID},
			bson.M{
				"$addToSet": bson.M{"products": bson.M{"$each": guest.Products}},
				"$set":      bson.M{"updated_at": time.Now()},
			},
			options.Update().SetUpsert(true))
		if err != nil {
			return err
		}
	}

	_, err = database.C(database.ColWishlists).DeleteOne(ctx, bson.M{"guest_key": guestKey})
	return err
}
