package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/config"
	"github.com/petpalace/petpalace/pkg/collection"
	"github.com/petpalace/petpalace/pkg/crypt"
	"github.com/petpalace/petpalace/pkg/metrics"
)

var (
	// ErrSelectionUnknown means the variant or pack does not exist on the
	// product.
	ErrSelectionUnknown = errors.New("cart: unknown variant or pack")
	// ErrQuantityInvalid rejects zero or negative quantities.
	ErrQuantityInvalid = errors.New("cart: quantity must be positive")
)

type cartStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	AddLine(ctx context.Context, userID primitive.ObjectID, line models.CartLine) error
	SetQuantity(ctx context.Context, userID primitive.ObjectID, line models.CartLine) error
	RemoveLine(ctx context.Context, userID primitive.ObjectID, line models.CartLine) error
	Replace(ctx context.Context, userID primitive.ObjectID, lines []models.CartLine) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type productFinder interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

// CartView is a hydrated cart: lines priced from the live catalog.
type CartView struct {
	Lines    []CartViewLine `json:"lines"`
	Subtotal float64        `json:"subtotal"`
}

type CartViewLine struct {
	ProductID primitive.ObjectID `json:"product_id"`
	Name      string             `json:"name"`
	Slug      string             `json:"slug"`
	Image     string             `json:"image,omitempty"`
	VariantID string             `json:"variant_id,omitempty"`
	Pack      string             `json:"pack,omitempty"`
	UnitPrice float64            `json:"unit_price"`
	Quantity  int                `json:"quantity"`
	LineTotal float64            `json:"line_total"`
	InStock   bool               `json:"in_stock"`
}

type CartService struct {
	carts    cartStore
	products productFinder
}

func NewCartService() *CartService {
	return &CartService{
		carts:    repositories.NewCartRepository(),
		products: repositories.NewProductRepository(),
	}
}

func NewCartServiceWith(carts cartStore, products productFinder) *CartService {
	return &CartService{carts: carts, products: products}
}

// ── Guest cookie cart ────────────────────────────────────────────────

// LoadGuestCart reads the sealed cart cookie. A missing, tampered, or
// stale cookie is an empty cart, never an error.
func (s *CartService) LoadGuestCart(r *http.Request) []models.CartLine {
	c, err := r.Cookie(config.CartCookieName())
	if err != nil {
		return nil
	}

	var lines []models.CartLine
	if err := crypt.OpenJSON(c.Value, &lines); err != nil {
		return nil
	}
	return lines
}

// SaveGuestCart seals lines into the cart cookie with the 7-day guest
// expiry.
func (s *CartService) SaveGuestCart(w http.ResponseWriter, lines []models.CartLine) error {
	sealed, err := crypt.SealJSON(lines)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.CartCookieName(),
		Value:    sealed,
		Path:     "/",
		MaxAge:   config.GuestCookieDays() * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearGuestCart expires the cookie.
func (s *CartService) ClearGuestCart(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.CartCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// AddGuestLine merges line into the cookie lines: the same
// product+variant+pack selection increments quantity instead of adding a
// duplicate row.
func (s *CartService) AddGuestLine(lines []models.CartLine, line models.CartLine) ([]models.CartLine, error) {
	if line.Quantity <= 0 {
		return lines, ErrQuantityInvalid
	}
	for i := range lines {
		if lines[i].SameSelection(line) {
			lines[i].Quantity += line.Quantity
			return lines, nil
		}
	}
	return append(lines, line), nil
}

// UpdateGuestLine overwrites the quantity of an existing selection.
func (s *CartService) UpdateGuestLine(lines []models.CartLine, line models.CartLine) ([]models.CartLine, error) {
	if line.Quantity <= 0 {
		return lines, ErrQuantityInvalid
	}
	for i := range lines {
		if lines[i].SameSelection(line) {
			lines[i].Quantity = line.Quantity
			return lines, nil
		}
	}
	return lines, errors.New("cart: line not found")
}

// RemoveGuestLine drops a selection.
func (s *CartService) RemoveGuestLine(lines []models.CartLine, line models.CartLine) []models.CartLine {
	return collection.Filter(lines, func(l models.CartLine) bool {
		return !l.SameSelection(line)
	})
}

// ── Server cart ──────────────────────────────────────────────────────

func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	return s.carts.Get(ctx, userID)
}

// Add validates the selection against the catalog before writing.
func (s *CartService) Add(ctx context.Context, userID primitive.ObjectID, line models.CartLine) error {
	if line.Quantity <= 0 {
		return ErrQuantityInvalid
	}
	if err := s.checkSelection(ctx, line); err != nil {
		return err
	}
	return s.carts.AddLine(ctx, userID, line)
}

func (s *CartService) Update(ctx context.Context, userID primitive.ObjectID, line models.CartLine) error {
	if line.Quantity <= 0 {
		return ErrQuantityInvalid
	}
	return s.carts.SetQuantity(ctx, userID, line)
}

func (s *CartService) Remove(ctx context.Context, userID primitive.ObjectID, line models.CartLine) error {
	return s.carts.RemoveLine(ctx, userID, line)
}

func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return s.carts.Clear(ctx, userID)
}

// Sync merges the guest cookie cart into the user's server cart: quantities
// for the same selection are summed and capped at available stock, distinct
// lines are unioned. The caller clears the cookie afterwards.
func (s *CartService) Sync(ctx context.Context, userID primitive.ObjectID, guest []models.CartLine) (models.Cart, error) {
	server, err := s.carts.Get(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}

	merged := MergeLines(server.Lines, guest)
	merged, err = s.capAtStock(ctx, merged)
	if err != nil {
		return models.Cart{}, err
	}

	if err := s.carts.Replace(ctx, userID, merged); err != nil {
		return models.Cart{}, err
	}

	metrics.CartSyncs.Inc()
	server.Lines = merged
	server.UpdatedAt = time.Now()
	return server, nil
}

// View hydrates lines with live catalog data. Lines whose product vanished
// are dropped from the view.
func (s *CartService) View(ctx context.Context, lines []models.CartLine) (CartView, error) {
	ids := collection.Unique(collection.Map(lines, func(l models.CartLine) primitive.ObjectID {
		return l.ProductID
	}))
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return CartView{}, err
	}
	byID := collection.KeyBy(products, func(p models.Product) primitive.ObjectID { return p.ID })

	view := CartView{Lines: []CartViewLine{}}
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		price, ok := p.PriceFor(l.VariantID, l.Pack)
		if !ok {
			continue
		}
		view.Lines = append(view.Lines, CartViewLine{
			ProductID: p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			Image:     firstImage(p),
			VariantID: l.VariantID,
			Pack:      l.Pack,
			UnitPrice: price,
			Quantity:  l.Quantity,
			LineTotal: price * float64(l.Quantity),
			InStock:   p.StockFor(l.VariantID, l.Pack) >= l.Quantity,
		})
	}
	view.Subtotal = collection.SumBy(view.Lines, func(l CartViewLine) float64 { return l.LineTotal })
	return view, nil
}

// MergeLines unions two line sets, summing quantities per selection.
// Server lines keep their position; new guest selections append.
func MergeLines(server, guest []models.CartLine) []models.CartLine {
	merged := append([]models.CartLine(nil), server...)
	for _, g := range guest {
		found := false
		for i := range merged {
			if merged[i].SameSelection(g) {
				merged[i].Quantity += g.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, g)
		}
	}
	return merged
}

func (s *CartService) capAtStock(ctx context.Context, lines []models.CartLine) ([]models.CartLine, error) {
	ids := collection.Unique(collection.Map(lines, func(l models.CartLine) primitive.ObjectID {
		return l.ProductID
	}))
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := collection.KeyBy(products, func(p models.Product) primitive.ObjectID { return p.ID })

	var out []models.CartLine
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		if stock := p.StockFor(l.VariantID, l.Pack); l.Quantity > stock {
			l.Quantity = stock
		}
		if l.Quantity > 0 {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *CartService) checkSelection(ctx context.Context, line models.CartLine) error {
	products, err := s.products.FindByIDs(ctx, []primitive.ObjectID{line.ProductID})
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return ErrSelectionUnknown
	}
	if _, ok := products[0].PriceFor(line.VariantID, line.Pack); !ok {
		return ErrSelectionUnknown
	}
	return nil
}

func firstImage(p models.Product) string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}
