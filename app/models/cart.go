package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine identifies one purchasable selection. Two lines are the same
// selection when product, variant, and pack all match.
type CartLine struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	VariantID string             `bson:"variant_id,omitempty" json:"variant_id,omitempty"`
	Pack      string             `bson:"pack,omitempty" json:"pack,omitempty"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// SameSelection reports whether other addresses the same product choice.
func (l CartLine) SameSelection(other CartLine) bool {
	return l.ProductID == other.ProductID &&
		l.VariantID == other.VariantID &&
		l.Pack == other.Pack
}

// Cart is the server-side cart for an authenticated user, one document per
// user.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Lines     []CartLine         `bson:"lines" json:"lines"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Wishlist is keyed by either a user id or a guest session key, never both.
type Wishlist struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    *primitive.ObjectID  `bson:"user_id,omitempty" json:"user_id,omitempty"`
	GuestKey  string               `bson:"guest_key,omitempty" json:"guest_key,omitempty"`
	Products  []primitive.ObjectID `bson:"products" json:"products"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}
