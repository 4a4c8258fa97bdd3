package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/pkg/database"
)

type fakeOfferStore struct {
	offers map[string]*models.Offer
}

func newFakeOfferStore(offers ...*models.Offer) *fakeOfferStore {
	s := &fakeOfferStore{offers: map[string]*models.Offer{}}
	for _, o := range offers {
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		s.offers[repositories.NormalizeCode(o.Code)] = o
	}
	return s
}

func (s *fakeOfferStore) FindByCode(_ context.Context, code string) (models.Offer, error) {
	o, ok := s.offers[repositories.NormalizeCode(code)]
	if !ok {
		return models.Offer{}, database.ErrNotFound
	}
	return *o, nil
}

func (s *fakeOfferStore) MarkExpired(_ context.Context, id primitive.ObjectID) error {
	for _, o := range s.offers {
		if o.ID == id {
			o.Status = models.OfferStatusExpired
		}
	}
	return nil
}

func (s *fakeOfferStore) RedeemByCode(_ context.Context, code string) (models.Offer, error) {
	o, ok := s.offers[repositories.NormalizeCode(code)]
	if !ok || o.Status != models.OfferStatusActive || o.Exhausted() {
		return models.Offer{}, database.ErrNotFound
	}
	o.UsageCount++
	return *o, nil
}

func (s *fakeOfferStore) ReleaseByCode(_ context.Context, code string) error {
	if o, ok := s.offers[repositories.NormalizeCode(code)]; ok && o.UsageCount > 0 {
		o.UsageCount--
	}
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
}

func activeOffer(code string) *models.Offer {
	return &models.Offer{
		Code:       code,
		Type:       models.OfferTypePercentage,
		Value:      10,
		StartDate:  fixedNow().AddDate(0, -1, 0),
		ExpiryDate: fixedNow().AddDate(0, 1, 0),
		Status:     models.OfferStatusActive,
	}
}

func TestValidatePercentageClampedToMaxDiscount(t *testing.T) {
	o := activeOffer("save15")
	o.Value = 15
	o.MaxDiscount = 200
	svc := NewOfferServiceWith(newFakeOfferStore(o), fixedNow)

	v, err := svc.Validate(context.Background(), "save15", 2000, nil)
	require.NoError(t, err)
	// 15% of 2000 is 300, clamped to 200.
	assert.Equal(t, float64(200), v.Discount)
}

func TestValidatePercentageFloors(t *testing.T) {
	o := activeOffer("save15")
	o.Value = 15
	svc := NewOfferServiceWith(newFakeOfferStore(o), fixedNow)

	v, err := svc.Validate(context.Background(), "save15", 999, nil)
	require.NoError(t, err)
	// 15% of 999 is 149.85, floored.
	assert.Equal(t, float64(149), v.Discount)
}

func TestValidateAmountClampedToCartValue(t *testing.T) {
	o := activeOffer("flat500")
	o.Type = models.OfferTypeAmount
	o.Value = 500
	svc := NewOfferServiceWith(newFakeOfferStore(o), fixedNow)

	v, err := svc.Validate(context.Background(), "flat500", 300, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(300), v.Discount)

	v, err = svc.Validate(context.Background(), "flat500", 2000, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(500), v.Discount)
}

func TestValidateCodeIsCaseInsensitive(t *testing.T) {
	svc := NewOfferServiceWith(newFakeOfferStore(activeOffer("save200")), fixedNow)

	for _, code := range []string{"save200", "SAVE200", " Save200 "} {
		_, err := svc.Validate(context.Background(), code, 1000, nil)
		assert.NoError(t, err, "code %q", code)
	}
}

func TestValidateUnknownCode(t *testing.T) {
	svc := NewOfferServiceWith(newFakeOfferStore(), fixedNow)

	_, err := svc.Validate(context.Background(), "nope", 1000, nil)
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestValidateNotStarted(t *testing.T) {
	o := activeOffer("future")
	o.StartDate = fixedNow().AddDate(0, 0, 1)
	svc := NewOfferServiceWith(newFakeOfferStore(o), fixedNow)

	_, err := svc.Validate(context.Background(), "future", 1000, nil)
	assert.ErrorIs(t, err, ErrOfferNotStarted)
}

func TestValidateLazyExpiry(t *testing.T) {
	o := activeOffer("old")
	o.ExpiryDate = fixedNow().AddDate(0, 0, -1)
	store := newFakeOfferStore(o)
	svc := NewOfferServiceWith(store, fixedNow)

	// Status is still "active" in storage; the read must reject and flip it.
	_, err := svc.Validate(context.Background(), "old", 1000, nil)
	assert.ErrorIs(t, err, ErrOfferExpired)
	assert.Equal(t, models.OfferStatusExpired, store.offers["old"].Status)
}

func TestValidateBelowMinimum(t *testing.T) {
	o := activeOffer("bigcart")
	o.MinCartValue = 1500
	svc := NewOfferServiceWith(newFakeOfferStore(o), fixedNow)

	_, err := svc.Validate(context.Background(), "bigcart", 1000, nil)
	assert.ErrorIs(t, err, ErrCartBelowMinimum)

	_, err = svc.Validate(context.Background(), "bigcart", 1500, nil)
	assert.NoError(t, err)
}

func TestValidateExhausted(t *testing.T) {
	o := activeOffer("limited")
	o.UsageLimit = 3
	o.UsageCount = 3
	svc := NewOfferServiceWith(newFakeOfferStore(o), fixedNow)

	_, err := svc.Validate(context.Background(), "limited", 1000, nil)
	assert.ErrorIs(t, err, ErrOfferExhausted)
}

func TestValidateHasNoSideEffects(t *testing.T) {
	o := activeOffer("save10")
	o.UsageLimit = 5
	store := newFakeOfferStore(o)
	svc := NewOfferServiceWith(store, fixedNow)

	_, err := svc.Validate(context.Background(), "save10", 1000, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, store.offers["save10"].UsageCount)
}

func TestRedeemConsumesUsage(t *testing.T) {
	o := activeOffer("once")
	o.UsageLimit = 1
	store := newFakeOfferStore(o)
	svc := NewOfferServiceWith(store, fixedNow)

	_, err := svc.Redeem(context.Background(), "once", 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, store.offers["once"].UsageCount)

	_, err = svc.Redeem(context.Background(), "once", 1000)
	assert.ErrorIs(t, err, ErrOfferExhausted)
}

func TestReleaseReturnsUsage(t *testing.T) {
	o := activeOffer("refund")
	o.UsageLimit = 2
	store := newFakeOfferStore(o)
	svc := NewOfferServiceWith(store, fixedNow)

	_, err := svc.Redeem(context.Background(), "refund", 1000)
	require.NoError(t, err)
	svc.Release(context.Background(), "refund")
	assert.Equal(t, 0, store.offers["refund"].UsageCount)
}

func TestRedeemEchoesBuyXGetY(t *testing.T) {
	o := activeOffer("b2g1")
	o.BuyXGetY = &models.BuyXGetY{BuyQuantity: 2, GetQuantity: 1}
	svc := NewOfferServiceWith(newFakeOfferStore(o), fixedNow)

	v, err := svc.Validate(context.Background(), "b2g1", 1000, nil)
	require.NoError(t, err)
	require.NotNil(t, v.BuyXGetY)
	assert.Equal(t, 2, v.BuyXGetY.BuyQuantity)
}
