package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/config"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_KEY", "cart-service-test-key")
	os.Exit(m.Run())
}

type fakeProductFinder struct {
	products []models.Product
}

func (f *fakeProductFinder) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

type fakeCartStore struct {
	carts map[primitive.ObjectID]models.Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[primitive.ObjectID]models.Cart{}}
}

func (s *fakeCartStore) Get(_ context.Context, userID primitive.ObjectID) (models.Cart, error) {
	return s.carts[userID], nil
}

func (s *fakeCartStore) AddLine(_ context.Context, userID primitive.ObjectID, line models.CartLine) error {
	c := s.carts[userID]
	c.Lines = MergeLines(c.Lines, []models.CartLine{line})
	s.carts[userID] = c
	return nil
}

func (s *fakeCartStore) SetQuantity(_ context.Context, userID primitive.ObjectID, line models.CartLine) error {
	c := s.carts[userID]
	for i := range c.Lines {
		if c.Lines[i].SameSelection(line) {
			c.Lines[i].Quantity = line.Quantity
		}
	}
	s.carts[userID] = c
	return nil
}

func (s *fakeCartStore) RemoveLine(_ context.Context, userID primitive.ObjectID, line models.CartLine) error {
	c := s.carts[userID]
	var kept []models.CartLine
	for _, l := range c.Lines {
		if !l.SameSelection(line) {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
	s.carts[userID] = c
	return nil
}

func (s *fakeCartStore) Replace(_ context.Context, userID primitive.ObjectID, lines []models.CartLine) error {
	c := s.carts[userID]
	c.Lines = lines
	s.carts[userID] = c
	return nil
}

func (s *fakeCartStore) Clear(_ context.Context, userID primitive.ObjectID) error {
	delete(s.carts, userID)
	return nil
}

func line(productID primitive.ObjectID, variant string, qty int) models.CartLine {
	return models.CartLine{ProductID: productID, VariantID: variant, Quantity: qty}
}

func TestAddGuestLineMergesSameSelection(t *testing.T) {
	svc := NewCartServiceWith(newFakeCartStore(), &fakeProductFinder{})
	pid := primitive.NewObjectID()

	lines, err := svc.AddGuestLine(nil, line(pid, "1kg", 2))
	require.NoError(t, err)
	lines, err = svc.AddGuestLine(lines, line(pid, "1kg", 3))
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddGuestLineDistinctVariants(t *testing.T) {
	svc := NewCartServiceWith(newFakeCartStore(), &fakeProductFinder{})
	pid := primitive.NewObjectID()

	lines, _ := svc.AddGuestLine(nil, line(pid, "1kg", 1))
	lines, _ = svc.AddGuestLine(lines, line(pid, "5kg", 1))
	assert.Len(t, lines, 2)
}

func TestAddGuestLineRejectsZeroQuantity(t *testing.T) {
	svc := NewCartServiceWith(newFakeCartStore(), &fakeProductFinder{})

	_, err := svc.AddGuestLine(nil, line(primitive.NewObjectID(), "", 0))
	assert.ErrorIs(t, err, ErrQuantityInvalid)
}

func TestGuestCartCookieRoundTrip(t *testing.T) {
	svc := NewCartServiceWith(newFakeCartStore(), &fakeProductFinder{})
	pid := primitive.NewObjectID()
	lines := []models.CartLine{line(pid, "1kg", 2)}

	w := httptest.NewRecorder()
	require.NoError(t, svc.SaveGuestCart(w, lines))

	res := w.Result()
	require.Len(t, res.Cookies(), 1)
	c := res.Cookies()[0]
	assert.Equal(t, config.CartCookieName(), c.Name)
	assert.True(t, c.HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	r.AddCookie(c)
	got := svc.LoadGuestCart(r)
	require.Len(t, got, 1)
	assert.Equal(t, pid, got[0].ProductID)
	assert.Equal(t, 2, got[0].Quantity)
}

func TestLoadGuestCartTamperedCookie(t *testing.T) {
	svc := NewCartServiceWith(newFakeCartStore(), &fakeProductFinder{})

	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	r.AddCookie(&http.Cookie{Name: config.CartCookieName(), Value: "not-a-sealed-cart"})
	assert.Nil(t, svc.LoadGuestCart(r))
}

func TestMergeLinesSumsAndUnions(t *testing.T) {
	shared := primitive.NewObjectID()
	serverOnly := primitive.NewObjectID()
	guestOnly := primitive.NewObjectID()

	merged := MergeLines(
		[]models.CartLine{line(shared, "1kg", 2), line(serverOnly, "", 1)},
		[]models.CartLine{line(shared, "1kg", 3), line(guestOnly, "", 4)},
	)

	require.Len(t, merged, 3)
	assert.Equal(t, 5, merged[0].Quantity)
	assert.Equal(t, serverOnly, merged[1].ProductID)
	assert.Equal(t, guestOnly, merged[2].ProductID)
}

func TestSyncCapsAtStockAndDropsVanished(t *testing.T) {
	inStock := primitive.NewObjectID()
	lowStock := primitive.NewObjectID()
	vanished := primitive.NewObjectID()

	store := newFakeCartStore()
	userID := primitive.NewObjectID()
	store.carts[userID] = models.Cart{UserID: userID, Lines: []models.CartLine{line(inStock, "", 1)}}

	finder := &fakeProductFinder{products: []models.Product{
		{ID: inStock, Name: "Kibble", BasePrice: 500, Stock: 10},
		{ID: lowStock, Name: "Chew Toy", BasePrice: 200, Stock: 2},
	}}
	svc := NewCartServiceWith(store, finder)

	guest := []models.CartLine{
		line(inStock, "", 2),
		line(lowStock, "", 5),
		line(vanished, "", 1),
	}
	cart, err := svc.Sync(context.Background(), userID, guest)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	// Capped at the 2 units actually in stock.
	assert.Equal(t, 2, cart.Lines[1].Quantity)
}

func TestAddRejectsUnknownSelection(t *testing.T) {
	pid := primitive.NewObjectID()
	finder := &fakeProductFinder{products: []models.Product{
		{ID: pid, Name: "Kibble", BasePrice: 500, Stock: 10, Variants: []models.Variant{{ID: "1kg", Name: "1 kg", Price: 500, Stock: 5}}},
	}}
	svc := NewCartServiceWith(newFakeCartStore(), finder)
	userID := primitive.NewObjectID()

	err := svc.Add(context.Background(), userID, line(pid, "20kg", 1))
	assert.ErrorIs(t, err, ErrSelectionUnknown)

	err = svc.Add(context.Background(), userID, line(primitive.NewObjectID(), "", 1))
	assert.ErrorIs(t, err, ErrSelectionUnknown)
}

func TestViewPricesAndSubtotal(t *testing.T) {
	pid := primitive.NewObjectID()
	finder := &fakeProductFinder{products: []models.Product{
		{ID: pid, Name: "Kibble", Slug: "kibble", BasePrice: 500, Stock: 10},
	}}
	svc := NewCartServiceWith(newFakeCartStore(), finder)

	view, err := svc.View(context.Background(), []models.CartLine{
		line(pid, "", 3),
		line(primitive.NewObjectID(), "", 1), // product vanished
	})
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, float64(500), view.Lines[0].UnitPrice)
	assert.Equal(t, float64(1500), view.Lines[0].LineTotal)
	assert.Equal(t, float64(1500), view.Subtotal)
	assert.True(t, view.Lines[0].InStock)
}
