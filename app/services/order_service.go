package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/pkg/collection"
	"github.com/petpalace/petpalace/pkg/database"
	"github.com/petpalace/petpalace/pkg/event"
	"github.com/petpalace/petpalace/pkg/logger"
	"github.com/petpalace/petpalace/pkg/metrics"
)

// Events emitted by order flow; the mail job and the admin websocket feed
// subscribe to these.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

var (
	ErrEmptyOrder    = errors.New("order: no lines")
	ErrOutOfStock    = errors.New("order: insufficient stock")
	ErrInvalidStatus = errors.New("order: invalid status")
)

type orderStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	ByUser(ctx context.Context, userID primitive.ObjectID, page, perPage int) ([]models.Order, database.Pagination, error)
	List(ctx context.Context, status string, page, perPage int) ([]models.Order, database.Pagination, error)
	Create(ctx context.Context, o *models.Order) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status, paymentStatus string) (models.Order, error)
}

// PlaceOrderInput is the checkout payload after binding.
type PlaceOrderInput struct {
	Lines      []models.CartLine
	Address    models.Address
	CouponCode string
}

type OrderService struct {
	orders   orderStore
	products productFinder
	carts    cartStore
	offers   *OfferService
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders:   repositories.NewOrderRepository(),
		products: repositories.NewProductRepository(),
		carts:    repositories.NewCartRepository(),
		offers:   NewOfferService(),
	}
}

func NewOrderServiceWith(orders orderStore, products productFinder, carts cartStore, offers *OfferService) *OrderService {
	return &OrderService{orders: orders, products: products, carts: carts, offers: offers}
}

// Place validates and re-prices the submitted lines from the live catalog,
// atomically redeems the optional coupon, and persists the order. The
// coupon redemption is released if the insert fails so an aborted checkout
// never burns a usage slot.
func (s *OrderService) Place(ctx context.Context, userID primitive.ObjectID, in PlaceOrderInput) (models.Order, error) {
	if len(in.Lines) == 0 {
		return models.Order{}, ErrEmptyOrder
	}

	lines, err := s.priceLines(ctx, in.Lines)
	if err != nil {
		return models.Order{}, err
	}
	subtotal := collection.SumBy(lines, func(l models.OrderLine) float64 { return l.LineTotal })

	var discount float64
	if in.CouponCode != "" {
		v, err := s.offers.Redeem(ctx, in.CouponCode, subtotal)
		if err != nil {
			return models.Order{}, err
		}
		discount = v.Discount
	}

	order := models.Order{
		Number:        uuid.NewString(),
		UserID:        userID,
		Lines:         lines,
		Address:       in.Address,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         subtotal - discount,
		CouponCode:    repositories.NormalizeCode(in.CouponCode),
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentUnpaid,
	}

	if err := s.orders.Create(ctx, &order); err != nil {
		if in.CouponCode != "" {
			s.offers.Release(ctx, in.CouponCode)
		}
		return models.Order{}, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		logger.Warn("order: cart clear after checkout failed", "user", userID.Hex(), "error", err)
	}

	metrics.OrdersPlaced.Inc()
	event.FireAsync(EventOrderPlaced, order)
	return order, nil
}

func (s *OrderService) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *OrderService) ForUser(ctx context.Context, userID primitive.ObjectID, page, perPage int) ([]models.Order, database.Pagination, error) {
	return s.orders.ByUser(ctx, userID, page, perPage)
}

func (s *OrderService) List(ctx context.Context, status string, page, perPage int) ([]models.Order, database.Pagination, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, database.Pagination{}, ErrInvalidStatus
	}
	return s.orders.List(ctx, status, page, perPage)
}

// UpdateStatus is the admin transition; it emits the websocket feed event.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status, paymentStatus string) (models.Order, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return models.Order{}, ErrInvalidStatus
	}
	if paymentStatus != "" && !models.ValidPaymentStatus(paymentStatus) {
		return models.Order{}, ErrInvalidStatus
	}

	order, err := s.orders.UpdateStatus(ctx, id, status, paymentStatus)
	if err != nil {
		return models.Order{}, err
	}

	event.FireAsync(EventOrderStatusChanged, order)
	return order, nil
}

// priceLines snapshots each selection from the catalog, rejecting unknown
// products/selections and quantities beyond stock.
func (s *OrderService) priceLines(ctx context.Context, in []models.CartLine) ([]models.OrderLine, error) {
	ids := collection.Unique(collection.Map(in, func(l models.CartLine) primitive.ObjectID {
		return l.ProductID
	}))
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := collection.KeyBy(products, func(p models.Product) primitive.ObjectID { return p.ID })

	lines := make([]models.OrderLine, 0, len(in))
	for _, l := range in {
		if l.Quantity <= 0 {
			return nil, ErrQuantityInvalid
		}
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, fmt.Errorf("order: product %s: %w", l.ProductID.Hex(), ErrSelectionUnknown)
		}
		price, ok := p.PriceFor(l.VariantID, l.Pack)
		if !ok {
			return nil, fmt.Errorf("order: product %s: %w", p.Slug, ErrSelectionUnknown)
		}
		if p.StockFor(l.VariantID, l.Pack) < l.Quantity {
			return nil, fmt.Errorf("order: product %s: %w", p.Slug, ErrOutOfStock)
		}

		lines = append(lines, models.OrderLine{
			ProductID: p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			Image:     firstImage(p),
			VariantID: l.VariantID,
			Pack:      l.Pack,
			UnitPrice: price,
			Quantity:  l.Quantity,
			LineTotal: price * float64(l.Quantity),
		})
	}
	return lines, nil
}
