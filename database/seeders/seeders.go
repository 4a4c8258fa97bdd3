// Package seeders fills a fresh database with a browsable catalog and an
// admin account, enough to click through the storefront locally.
package seeders

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/pkg/auth"
	"github.com/petpalace/petpalace/pkg/database"
	"github.com/petpalace/petpalace/pkg/logger"
)

// Seeder is one named seed step.
type Seeder struct {
	Name string
	Run  func(ctx context.Context) error
}

// All returns the seeders in dependency order.
func All() []Seeder {
	return []Seeder{
		{Name: "admin", Run: seedAdmin},
		{Name: "catalog", Run: seedCatalog},
		{Name: "offers", Run: seedOffers},
	}
}

// Run executes every seeder, stopping at the first failure. Seeding an
// already-seeded database is safe: duplicate slugs and codes are skipped.
func Run(ctx context.Context) error {
	for _, s := range All() {
		logger.Info("seed: running", "seeder", s.Name)
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name, err)
		}
	}
	return nil
}

func seedAdmin(ctx context.Context) error {
	users := repositories.NewUserRepository()
	if _, err := users.FindByEmail(ctx, "admin@petpalace.in"); err == nil {
		return nil // already seeded
	}

	hash, err := auth.HashPassword("changeme123")
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "PetPalace Admin",
		Email:    "admin@petpalace.in",
		Password: hash,
		Role:     models.RoleAdmin,
		Active:   true,
	}
	return users.Create(ctx, &admin)
}

func seedCatalog(ctx context.Context) error {
	categories := repositories.NewCategoryRepository()
	products := repositories.NewProductRepository()
	brands := repositories.NewBrandRepository()

	brand := models.Brand{Name: "Happy Paws", Slug: "happy-paws", Active: true}
	if err := brands.Create(ctx, &brand); database.IsDup(err) {
		existing, ferr := brands.All(ctx)
		if ferr != nil {
			return ferr
		}
		for _, b := range existing {
			if b.Slug == brand.Slug {
				brand = b
			}
		}
	} else if err != nil {
		return err
	}

	tree := map[string][]string{
		"dogs": {"dog-food", "dog-toys", "dog-grooming"},
		"cats": {"cat-food", "cat-litter"},
	}
	roots := map[string]primitive.ObjectID{}

	for rootSlug, children := range tree {
		root := models.Category{Name: titleFromSlug(rootSlug), Slug: rootSlug, Active: true}
		if err := upsertCategory(ctx, categories, &root); err != nil {
			return err
		}
		roots[rootSlug] = root.ID

		for _, childSlug := range children {
			parentID := root.ID
			child := models.Category{
				Name:     titleFromSlug(childSlug),
				Slug:     childSlug,
				ParentID: &parentID,
				Active:   true,
			}
			if err := upsertCategory(ctx, categories, &child); err != nil {
				return err
			}
		}
	}

	dogFood, err := categories.FindBySlug(ctx, "dog-food")
	if err != nil {
		return err
	}
	catFood, err := categories.FindBySlug(ctx, "cat-food")
	if err != nil {
		return err
	}

	seedProducts := []models.Product{
		{
			Name:       "Adult Dog Kibble Chicken",
			Slug:       "adult-dog-kibble-chicken",
			BasePrice:  599,
			MRP:        699,
			Stock:      100,
			CategoryID: dogFood.ID,
			BrandID:    &brand.ID,
			Packs: []models.Pack{
				{Weight: "1kg", Price: 599, MRP: 699, Stock: 60},
				{Weight: "3kg", Price: 1599, MRP: 1899, Stock: 40},
			},
			Bestseller: true,
			Rank:       1,
			Active:     true,
		},
		{
			Name:       "Grain-Free Cat Food Tuna",
			Slug:       "grain-free-cat-food-tuna",
			BasePrice:  449,
			MRP:        499,
			Stock:      80,
			CategoryID: catFood.ID,
			BrandID:    &brand.ID,
			Bestseller: true,
			Rank:       2,
			Active:     true,
		},
	}
	for i := range seedProducts {
		if err := products.Create(ctx, &seedProducts[i]); err != nil && !database.IsDup(err) {
			return err
		}
	}
	return nil
}

func seedOffers(ctx context.Context) error {
	offers := repositories.NewOfferRepository()
	now := time.Now()

	welcome := models.Offer{
		Code:         "welcome10",
		Description:  "10% off your first order",
		Type:         models.OfferTypePercentage,
		Value:        10,
		MaxDiscount:  200,
		MinCartValue: 499,
		StartDate:    now,
		ExpiryDate:   now.AddDate(1, 0, 0),
		Status:       models.OfferStatusActive,
	}
	if err := offers.Create(ctx, &welcome); err != nil && !database.IsDup(err) {
		return err
	}
	return nil
}

func upsertCategory(ctx context.Context, repo *repositories.CategoryRepository, c *models.Category) error {
	err := repo.Create(ctx, c)
	if err == nil {
		return nil
	}
	if !database.IsDup(err) {
		return err
	}
	existing, ferr := repo.FindBySlug(ctx, c.Slug)
	if ferr != nil {
		return ferr
	}
	*c = existing
	return nil
}

func titleFromSlug(slug string) string {
	out := []rune{}
	upper := true
	for _, r := range slug {
		if r == '-' {
			out = append(out, ' ')
			upper = true
			continue
		}
		if upper {
			r = r - 'a' + 'A'
			upper = false
		}
		out = append(out, r)
	}
	return string(out)
}
