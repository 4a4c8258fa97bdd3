package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/pkg/database"
)

type fakeOrderStore struct {
	orders    []models.Order
	createErr error
}

func (s *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, database.ErrNotFound
}

func (s *fakeOrderStore) ByUser(_ context.Context, userID primitive.ObjectID, page, perPage int) ([]models.Order, database.Pagination, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, database.Pagination{Total: int64(len(out))}, nil
}

func (s *fakeOrderStore) List(_ context.Context, status string, page, perPage int) ([]models.Order, database.Pagination, error) {
	return s.orders, database.Pagination{Total: int64(len(s.orders))}, nil
}

func (s *fakeOrderStore) Create(_ context.Context, o *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	o.ID = primitive.NewObjectID()
	s.orders = append(s.orders, *o)
	return nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status, paymentStatus string) (models.Order, error) {
	for i := range s.orders {
		if s.orders[i].ID == id {
			if status != "" {
				s.orders[i].Status = status
			}
			if paymentStatus != "" {
				s.orders[i].PaymentStatus = paymentStatus
			}
			return s.orders[i], nil
		}
	}
	return models.Order{}, database.ErrNotFound
}

func checkoutFixture(t *testing.T) (*OrderService, *fakeOrderStore, *fakeOfferStore, primitive.ObjectID) {
	t.Helper()

	pid := primitive.NewObjectID()
	finder := &fakeProductFinder{products: []models.Product{
		{ID: pid, Name: "Kibble", Slug: "kibble", BasePrice: 500, Stock: 10},
	}}

	coupon := activeOffer("flat100")
	coupon.Type = models.OfferTypeAmount
	coupon.Value = 100
	coupon.UsageLimit = 5
	offerStore := newFakeOfferStore(coupon)

	orderStore := &fakeOrderStore{}
	svc := NewOrderServiceWith(orderStore, finder, newFakeCartStore(), NewOfferServiceWith(offerStore, fixedNow))
	return svc, orderStore, offerStore, pid
}

func TestPlaceRepricesFromCatalog(t *testing.T) {
	svc, store, _, pid := checkoutFixture(t)
	userID := primitive.NewObjectID()

	// Client-supplied prices are ignored; only the selection counts.
	order, err := svc.Place(context.Background(), userID, PlaceOrderInput{
		Lines: []models.CartLine{{ProductID: pid, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.Number)
	assert.Equal(t, float64(1500), order.Subtotal)
	assert.Equal(t, float64(1500), order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentUnpaid, order.PaymentStatus)
	require.Len(t, store.orders, 1)
	assert.Equal(t, "Kibble", store.orders[0].Lines[0].Name)
	assert.Equal(t, float64(500), store.orders[0].Lines[0].UnitPrice)
}

func TestPlaceWithCoupon(t *testing.T) {
	svc, _, offers, pid := checkoutFixture(t)

	order, err := svc.Place(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Lines:      []models.CartLine{{ProductID: pid, Quantity: 2}},
		CouponCode: "FLAT100",
	})
	require.NoError(t, err)

	assert.Equal(t, float64(1000), order.Subtotal)
	assert.Equal(t, float64(100), order.Discount)
	assert.Equal(t, float64(900), order.Total)
	assert.Equal(t, "flat100", order.CouponCode)
	assert.Equal(t, 1, offers.offers["flat100"].UsageCount)
}

func TestPlaceReleasesCouponWhenInsertFails(t *testing.T) {
	svc, store, offers, pid := checkoutFixture(t)
	store.createErr = errors.New("write conflict")

	_, err := svc.Place(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Lines:      []models.CartLine{{ProductID: pid, Quantity: 1}},
		CouponCode: "flat100",
	})
	require.Error(t, err)
	assert.Equal(t, 0, offers.offers["flat100"].UsageCount)
}

func TestPlaceRejectsEmptyOrder(t *testing.T) {
	svc, _, _, _ := checkoutFixture(t)

	_, err := svc.Place(context.Background(), primitive.NewObjectID(), PlaceOrderInput{})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestPlaceRejectsOverStock(t *testing.T) {
	svc, _, _, pid := checkoutFixture(t)

	_, err := svc.Place(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Lines: []models.CartLine{{ProductID: pid, Quantity: 11}},
	})
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestPlaceRejectsUnknownProduct(t *testing.T) {
	svc, _, _, _ := checkoutFixture(t)

	_, err := svc.Place(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Lines: []models.CartLine{{ProductID: primitive.NewObjectID(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrSelectionUnknown)
}

func TestUpdateStatusValidatesEnums(t *testing.T) {
	svc, store, _, pid := checkoutFixture(t)
	order, err := svc.Place(context.Background(), primitive.NewObjectID(), PlaceOrderInput{
		Lines: []models.CartLine{{ProductID: pid, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, "teleported", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	got, err := svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusShipped, models.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, got.Status)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, models.OrderStatusShipped, store.orders[0].Status)
}
