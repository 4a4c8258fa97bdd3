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

type CartRepository struct{}

func NewCartRepository() *CartRepository { return &CartRepository{} }

// Get returns the user's cart, or an empty cart when none exists yet.
func (r *CartRepository) Get(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	var c models.Cart
	err := database.C(database.ColCarts).FindOne(ctx, bson.M{"user_id": userID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Cart{UserID: userID, Lines: []models.CartLine{}}, nil
	}
	return c, err
}

// AddLine increments the quantity of an existing matching selection, or
// appends a new line. The first update targets the exact line via the
// positional operator; a miss falls through to the upserting push.
func (r *CartRepository) AddLine(ctx context.Context, userID primitive.ObjectID, line models.CartLine) error {
	col := database.C(database.ColCarts)
	now := time.Now()

	res, err := col.UpdateOne(ctx,
		bson.M{
			"user_id": userID,
			"lines": bson.M{"$elemMatch": bson.M{
				"product_id": line.ProductID,
				"variant_id": line.VariantID,
				"pack":       line.Pack,
			}},
		},
		bson.M{
			"$inc": bson.M{"lines.$.quantity": line.Quantity},
			"$set": bson.M{"updated_at": now},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	_, err = col.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$push": bson.M{"lines": line},
			"$set":  bson.M{"updated_at": now},
		},
		options.Update().SetUpsert(true))
	return err
}

// SetQuantity overwrites the quantity of one line.
func (r *CartRepository) SetQuantity(ctx context.Context, userID primitive.ObjectID, line models.CartLine) error {
	res, err := database.C(database.ColCarts).UpdateOne(ctx,
		bson.M{
			"user_id": userID,
			"lines": bson.M{"$elemMatch": bson.M{
				"product_id": line.ProductID,
				"variant_id": line.VariantID,
				"pack":       line.Pack,
			}},
		},
		bson.M{
			"$set": bson.M{
				"lines.$.quantity": line.Quantity,
				"updated_at":       time.Now(),
			},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

// RemoveLine drops one selection from the cart.
func (r *CartRepository) RemoveLine(ctx context.Context, userID primitive.ObjectID, line models.CartLine) error {
	_, err := database.C(database.ColCarts).UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$pull": bson.M{"lines": bson.M{
				"product_id": line.ProductID,
				"variant_id": line.VariantID,
				"pack":       line.Pack,
			}},
			"$set": bson.M{"updated_at": time.Now()},
		})
	return err
}

// Replace stores the full line set, used by the merge-on-login sync.
func (r *CartRepository) Replace(ctx context.Context, userID primitive.ObjectID, lines []models.CartLine) error {
	_, err := database.C(database.ColCarts).UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"lines": lines, "updated_at": time.Now()}},
		options.Update().SetUpsert(true))
	return err
}

// Clear empties the cart after checkout.
func (r *CartRepository) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := database.C(database.ColCarts).UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"lines": []models.CartLine{}, "updated_at": time.Now()}})
	return err
}
