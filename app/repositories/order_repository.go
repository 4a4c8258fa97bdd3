package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/pkg/database"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository { return &OrderRepository{} }

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var o models.Order
	err := database.C(database.ColOrders).FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	return o, database.NotFound(err)
}

// ByUser pages a customer's own orders, newest first.
func (r *OrderRepository) ByUser(ctx context.Context, userID primitive.ObjectID, page, perPage int) ([]models.Order, database.Pagination, error) {
	var items []models.Order
	p, err := database.FindPage(ctx, database.C(database.ColOrders),
		bson.M{"user_id": userID},
		bson.D{{Key: "created_at", Value: -1}}, page, perPage, &items)
	return items, p, err
}

// List pages all orders for the admin; an empty status means no filter.
func (r *OrderRepository) List(ctx context.Context, status string, page, perPage int) ([]models.Order, database.Pagination, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	var items []models.Order
	p, err := database.FindPage(ctx, database.C(database.ColOrders), filter,
		bson.D{{Key: "created_at", Value: -1}}, page, perPage, &items)
	return items, p, err
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now
	res, err := database.C(database.ColOrders).InsertOne(ctx, o)
	if err != nil {
		return err
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateStatus patches the order and/or payment status and returns the
// updated document.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status, paymentStatus string) (models.Order, error) {
	set := bson.M{"updated_at": time.Now()}
	if status != "" {
		set["status"] = status
	}
	if paymentStatus != "" {
		set["payment_status"] = paymentStatus
	}

	res, err := database.C(database.ColOrders).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.Order{}, err
	}
	if res.MatchedCount == 0 {
		return models.Order{}, database.ErrNotFound
	}
	return r.FindByID(ctx, id)
}
