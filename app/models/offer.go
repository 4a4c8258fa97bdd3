package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Offer discount types.
const (
	OfferTypePercentage = "percentage"
	OfferTypeAmount     = "amount"
)

// Offer statuses. Expired is written lazily when a read or the nightly
// sweep notices the expiry date has passed.
const (
	OfferStatusActive   = "active"
	OfferStatusInactive = "inactive"
	OfferStatusExpired  = "expired"
)

// BuyXGetY describes a quantity promotion attached to an offer. The server
// only echoes it; cart presentation applies the free items.
type BuyXGetY struct {
	BuyQuantity int                  `bson:"buy_quantity" json:"buy_quantity"`
	GetQuantity int                  `bson:"get_quantity" json:"get_quantity"`
	ProductIDs  []primitive.ObjectID `bson:"product_ids,omitempty" json:"product_ids,omitempty"`
}

// Offer is a coupon rule. Code is stored lowercased and carries a unique
// index. A zero UsageLimit means unlimited redemptions.
type Offer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code         string             `bson:"code" json:"code"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Type         string             `bson:"type" json:"type"`
	Value        float64            `bson:"value" json:"value"`
	MaxDiscount  float64            `bson:"max_discount,omitempty" json:"max_discount,omitempty"`
	MinCartValue float64            `bson:"min_cart_value,omitempty" json:"min_cart_value,omitempty"`
	StartDate    time.Time          `bson:"start_date" json:"start_date"`
	ExpiryDate   time.Time          `bson:"expiry_date" json:"expiry_date"`
	Status       string             `bson:"status" json:"status"`
	UsageLimit   int                `bson:"usage_limit,omitempty" json:"usage_limit,omitempty"`
	UsageCount   int                `bson:"usage_count" json:"usage_count"`
	BuyXGetY     *BuyXGetY          `bson:"buy_x_get_y,omitempty" json:"buy_x_get_y,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Discount computes the rupee discount for cartValue. Percentage offers
// floor the result and clamp to MaxDiscount when set; amount offers clamp
// to the cart value so an order total can never go negative.
func (o *Offer) Discount(cartValue float64) float64 {
	switch o.Type {
	case OfferTypePercentage:
		d := float64(int64(cartValue * o.Value / 100))
		if o.MaxDiscount > 0 && d > o.MaxDiscount {
			d = o.MaxDiscount
		}
		return d
	case OfferTypeAmount:
		if o.Value > cartValue {
			return cartValue
		}
		return o.Value
	}
	return 0
}

// Exhausted reports whether the usage limit has been reached.
func (o *Offer) Exhausted() bool {
	return o.UsageLimit > 0 && o.UsageCount >= o.UsageLimit
}
