package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant is a simple sub-SKU with its own price and stock.
type Variant struct {
	ID    string  `bson:"id" json:"id"`
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
	MRP   float64 `bson:"mrp" json:"mrp"`
	Stock int     `bson:"stock" json:"stock"`
}

// Pack is a weight-based purchase option, e.g. "1kg", "5kg".
type Pack struct {
	Weight string  `bson:"weight" json:"weight"`
	Price  float64 `bson:"price" json:"price"`
	MRP    float64 `bson:"mrp" json:"mrp"`
	Stock  int     `bson:"stock" json:"stock"`
}

// Product is the catalog document. Bestsellers are admin-curated: the flag
// opts the product in and Rank orders the storefront strip.
type Product struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Slug        string              `bson:"slug" json:"slug"`
	Description string              `bson:"description" json:"description"`
	BasePrice   float64             `bson:"base_price" json:"base_price"`
	MRP         float64             `bson:"mrp" json:"mrp"`
	Stock       int                 `bson:"stock" json:"stock"`
	CategoryID  primitive.ObjectID  `bson:"category_id" json:"category_id"`
	BrandID     *primitive.ObjectID `bson:"brand_id,omitempty" json:"brand_id,omitempty"`
	Images      []string            `bson:"images" json:"images"`
	Variants    []Variant           `bson:"variants,omitempty" json:"variants,omitempty"`
	Packs       []Pack              `bson:"packs,omitempty" json:"packs,omitempty"`
	Bestseller  bool                `bson:"bestseller" json:"bestseller"`
	Rank        int                 `bson:"rank" json:"rank"`
	Active      bool                `bson:"active" json:"active"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}

// PriceFor resolves the unit price for a chosen variant or pack, falling
// back to the base price. The bool reports whether the selection exists.
func (p *Product) PriceFor(variantID, pack string) (float64, bool) {
	if variantID != "" {
		for _, v := range p.Variants {
			if v.ID == variantID {
				return v.Price, true
			}
		}
		return 0, false
	}
	if pack != "" {
		for _, pk := range p.Packs {
			if pk.Weight == pack {
				return pk.Price, true
			}
		}
		return 0, false
	}
	return p.BasePrice, true
}

// StockFor resolves available stock the same way PriceFor resolves price.
func (p *Product) StockFor(variantID, pack string) int {
	if variantID != "" {
		for _, v := range p.Variants {
			if v.ID == variantID {
				return v.Stock
			}
		}
		return 0
	}
	if pack != "" {
		for _, pk := range p.Packs {
			if pk.Weight == pack {
				return pk.Stock
			}
		}
		return 0
	}
	return p.Stock
}
