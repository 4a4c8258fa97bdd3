package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/pkg/database"
)

type OfferRepository struct{}

func NewOfferRepository() *OfferRepository { return &OfferRepository{} }

// NormalizeCode is the canonical form coupon codes are stored and looked
// up in.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func (r *OfferRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Offer, error) {
	var o models.Offer
	err := database.C(database.ColOffers).FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	return o, database.NotFound(err)
}

func (r *OfferRepository) FindByCode(ctx context.Context, code string) (models.Offer, error) {
	var o models.Offer
	err := database.C(database.ColOffers).FindOne(ctx, bson.M{"code": NormalizeCode(code)}).Decode(&o)
	return o, database.NotFound(err)
}

func (r *OfferRepository) List(ctx context.Context, page, perPage int) ([]models.Offer, database.Pagination, error) {
	var items []models.Offer
	p, err := database.FindPage(ctx, database.C(database.ColOffers), bson.M{},
		bson.D{{Key: "created_at", Value: -1}}, page, perPage, &items)
	return items, p, err
}

// RedeemByCode performs the atomic conditional increment: the filter admits
// the document only while redemptions remain, so two concurrent redemptions
// of the last slot cannot both succeed. Returns ErrNotFound when the offer
// is missing or already exhausted.
func (r *OfferRepository) RedeemByCode(ctx context.Context, code string) (models.Offer, error) {
	filter := bson.M{
		"code":   NormalizeCode(code),
		"status": models.OfferStatusActive,
		"$or": bson.A{
			bson.M{"usage_limit": bson.M{"$lte": 0}},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$usage_count", "$usage_limit"}}},
		},
	}
	update := bson.M{
		"$inc": bson.M{"usage_count": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}

	var o models.Offer
	err := database.C(database.ColOffers).
		FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&o)
	return o, database.NotFound(err)
}

// ReleaseByCode undoes a redemption when order placement fails after the
// coupon was already claimed.
func (r *OfferRepository) ReleaseByCode(ctx context.Context, code string) error {
	_, err := database.C(database.ColOffers).UpdateOne(ctx,
		bson.M{"code": NormalizeCode(code), "usage_count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"usage_count": -1}})
	return err
}

// MarkExpired flips a single offer to expired, used by the lazy read path.
func (r *OfferRepository) MarkExpired(ctx context.Context, id primitive.ObjectID) error {
	_, err := database.C(database.ColOffers).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.OfferStatusExpired, "updated_at": time.Now()}})
	return err
}

// ExpireDue is the nightly sweep: every active offer whose expiry date has
// passed becomes expired. Returns the number flipped.
func (r *OfferRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res, err := database.C(database.ColOffers).UpdateMany(ctx,
		bson.M{"status": models.OfferStatusActive, "expiry_date": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"status": models.OfferStatusExpired, "updated_at": now}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *OfferRepository) Create(ctx context.Context, o *models.Offer) error {
	o.Code = NormalizeCode(o.Code)
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now
	res, err := database.C(database.ColOffers).InsertOne(ctx, o)
	if err != nil {
		return err
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *OfferRepository) Update(ctx context.Context, o *models.Offer) error {
	o.Code = NormalizeCode(o.Code)
	o.UpdatedAt = time.Now()
	res, err := database.C(database.ColOffers).ReplaceOne(ctx, bson.M{"_id": o.ID}, o)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := database.C(database.ColOffers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
