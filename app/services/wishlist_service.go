package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
)

type wishlistStore interface {
	Get(ctx context.Context, owner repositories.WishlistOwner) (models.Wishlist, error)
	Add(ctx context.Context, owner repositories.WishlistOwner, productID primitive.ObjectID) error
	Remove(ctx context.Context, owner repositories.WishlistOwner, productID primitive.ObjectID) error
	Merge(ctx context.Context, guestKey string, userID primitive.ObjectID) error
}

// WishlistService is the dual-mode wishlist: server documents keyed by user
// id when authenticated, by the session guest key otherwise.
type WishlistService struct {
	wishlists wishlistStore
	products  productFinder
}

func NewWishlistService() *WishlistService {
	return &WishlistService{
		wishlists: repositories.NewWishlistRepository(),
		products:  repositories.NewProductRepository(),
	}
}

func NewWishlistServiceWith(wishlists wishlistStore, products productFinder) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products}
}

// Owner builds the storage key: a user id when authenticated, the session
// guest key otherwise.
func Owner(userID *primitive.ObjectID, guestKey string) repositories.WishlistOwner {
	return repositories.WishlistOwner{UserID: userID, GuestKey: guestKey}
}

func (s *WishlistService) Get(ctx context.Context, owner repositories.WishlistOwner) (models.Wishlist, error) {
	return s.wishlists.Get(ctx, owner)
}

// Products resolves the wishlist into catalog documents, skipping any that
// were deleted since being wished.
func (s *WishlistService) Products(ctx context.Context, owner repositories.WishlistOwner) ([]models.Product, error) {
	w, err := s.wishlists.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.products.FindByIDs(ctx, w.Products)
}

func (s *WishlistService) Add(ctx context.Context, owner repositories.WishlistOwner, productID primitive.ObjectID) error {
	products, err := s.products.FindByIDs(ctx, []primitive.ObjectID{productID})
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return ErrSelectionUnknown
	}
	return s.wishlists.Add(ctx, owner, productID)
}

func (s *WishlistService) Remove(ctx context.Context, owner repositories.WishlistOwner, productID primitive.ObjectID) error {
	return s.wishlists.Remove(ctx, owner, productID)
}

// Sync folds the guest wishlist into the user's after login.
func (s *WishlistService) Sync(ctx context.Context, guestKey string, userID primitive.ObjectID) error {
	if guestKey == "" {
		return nil
	}
	return s.wishlists.Merge(ctx, guestKey, userID)
}
