// Package services holds the business logic between controllers and
// repositories. Services depend on narrow store interfaces so tests can
// substitute fakes without a database.
package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/pkg/database"
	"github.com/petpalace/petpalace/pkg/logger"
	"github.com/petpalace/petpalace/pkg/metrics"
)

// Offer validation failures, each mapped to its own 4xx message so the
// storefront can tell the shopper exactly why the coupon did not apply.
var (
	ErrOfferNotFound    = errors.New("offer: not found or inactive")
	ErrOfferNotStarted  = errors.New("offer: not started yet")
	ErrOfferExpired     = errors.New("offer: expired")
	ErrOfferExhausted   = errors.New("offer: usage limit reached")
	ErrCartBelowMinimum = errors.New("offer: cart below minimum value")
)

// offerStore is what OfferService needs from the repository.
type offerStore interface {
	FindByCode(ctx context.Context, code string) (models.Offer, error)
	MarkExpired(ctx context.Context, id primitive.ObjectID) error
	RedeemByCode(ctx context.Context, code string) (models.Offer, error)
	ReleaseByCode(ctx context.Context, code string) error
}

// OfferValidation is the successful outcome of a coupon check.
type OfferValidation struct {
	Code        string           `json:"code"`
	Type        string           `json:"type"`
	Value       float64          `json:"value"`
	Discount    float64          `json:"discount"`
	Description string           `json:"description,omitempty"`
	BuyXGetY    *models.BuyXGetY `json:"buy_x_get_y,omitempty"`
}

type OfferService struct {
	offers offerStore
	now    func() time.Time
}

func NewOfferService() *OfferService {
	return &OfferService{offers: repositories.NewOfferRepository(), now: time.Now}
}

// NewOfferServiceWith wires explicit dependencies, used by tests.
func NewOfferServiceWith(store offerStore, now func() time.Time) *OfferService {
	return &OfferService{offers: store, now: now}
}

// Validate checks a coupon against the cart without consuming a redemption.
// Expiry is applied lazily: an active offer past its expiry date is flipped
// to expired here and rejected on the same request.
func (s *OfferService) Validate(ctx context.Context, code string, cartValue float64, productIDs []primitive.ObjectID) (OfferValidation, error) {
	outcome := "applied"
	defer func() { metrics.OffersValidated.WithLabelValues(outcome).Inc() }()

	offer, err := s.offers.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			outcome = "not_found"
			return OfferValidation{}, ErrOfferNotFound
		}
		outcome = "error"
		return OfferValidation{}, err
	}

	if err := s.gate(ctx, &offer, cartValue, &outcome); err != nil {
		return OfferValidation{}, err
	}

	return OfferValidation{
		Code:        offer.Code,
		Type:        offer.Type,
		Value:       offer.Value,
		Discount:    offer.Discount(cartValue),
		Description: offer.Description,
		BuyXGetY:    offer.BuyXGetY,
	}, nil
}

// Redeem consumes one usage atomically and returns the discount. The
// validity gates run first so a rejected coupon never burns a slot; the
// conditional update then guarantees the usage limit holds even when the
// gates raced another redemption.
func (s *OfferService) Redeem(ctx context.Context, code string, cartValue float64) (OfferValidation, error) {
	outcome := "applied"
	v, err := func() (OfferValidation, error) {
		offer, err := s.offers.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				outcome = "not_found"
				return OfferValidation{}, ErrOfferNotFound
			}
			outcome = "error"
			return OfferValidation{}, err
		}

		if err := s.gate(ctx, &offer, cartValue, &outcome); err != nil {
			return OfferValidation{}, err
		}

		redeemed, err := s.offers.RedeemByCode(ctx, code)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				// Lost the race for the final slot.
				outcome = "exhausted"
				return OfferValidation{}, ErrOfferExhausted
			}
			outcome = "error"
			return OfferValidation{}, err
		}

		return OfferValidation{
			Code:        redeemed.Code,
			Type:        redeemed.Type,
			Value:       redeemed.Value,
			Discount:    redeemed.Discount(cartValue),
			Description: redeemed.Description,
			BuyXGetY:    redeemed.BuyXGetY,
		}, nil
	}()

	metrics.OffersValidated.WithLabelValues(outcome).Inc()
	if err == nil {
		metrics.OffersRedeemed.Inc()
	}
	return v, err
}

// Release returns a redemption after a failed order placement.
func (s *OfferService) Release(ctx context.Context, code string) {
	if err := s.offers.ReleaseByCode(ctx, code); err != nil {
		logger.Error("offer: release failed", "code", code, "error", err)
	}
}

// gate applies the shared validity checks in rejection-priority order.
func (s *OfferService) gate(ctx context.Context, offer *models.Offer, cartValue float64, outcome *string) error {
	now := s.now()

	if offer.Status == models.OfferStatusInactive {
		*outcome = "not_found"
		return ErrOfferNotFound
	}
	if now.Before(offer.StartDate) {
		*outcome = "not_started"
		return ErrOfferNotStarted
	}
	if now.After(offer.ExpiryDate) {
		if offer.Status == models.OfferStatusActive {
			if err := s.offers.MarkExpired(ctx, offer.ID); err != nil {
				logger.Error("offer: lazy expire failed", "code", offer.Code, "error", err)
			}
		}
		*outcome = "expired"
		return ErrOfferExpired
	}
	if offer.Status == models.OfferStatusExpired {
		*outcome = "expired"
		return ErrOfferExpired
	}
	if offer.Exhausted() {
		*outcome = "exhausted"
		return ErrOfferExhausted
	}
	if cartValue < offer.MinCartValue {
		*outcome = "below_minimum"
		return ErrCartBelowMinimum
	}
	return nil
}
