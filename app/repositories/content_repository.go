package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/pkg/database"
)

// BrandRepository, BlogRepository, SliderRepository and VideoRepository are
// thin CRUD stores over their collections.

type BrandRepository struct{}

func NewBrandRepository() *BrandRepository { return &BrandRepository{} }

func (r *BrandRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Brand, error) {
	var b models.Brand
	err := database.C(database.ColBrands).FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	return b, database.NotFound(err)
}

func (r *BrandRepository) All(ctx context.Context) ([]models.Brand, error) {
	cur, err := database.C(database.ColBrands).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var items []models.Brand
	err = cur.All(ctx, &items)
	return items, err
}

func (r *BrandRepository) Create(ctx context.Context, b *models.Brand) error {
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	res, err := database.C(database.ColBrands).InsertOne(ctx, b)
	if err != nil {
		return err
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *BrandRepository) Update(ctx context.Context, b *models.Brand) error {
	b.UpdatedAt = time.Now()
	res, err := database.C(database.ColBrands).ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *BrandRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := database.C(database.ColBrands).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

type BlogRepository struct{}

func NewBlogRepository() *BlogRepository { return &BlogRepository{} }

func (r *BlogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Blog, error) {
	var b models.Blog
	err := database.C(database.ColBlogs).FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	return b, database.NotFound(err)
}

func (r *BlogRepository) FindBySlug(ctx context.Context, slug string) (models.Blog, error) {
	var b models.Blog
	err := database.C(database.ColBlogs).FindOne(ctx, bson.M{"slug": slug}).Decode(&b)
	return b, database.NotFound(err)
}

// List pages blogs; publishedOnly restricts to the storefront view.
func (r *BlogRepository) List(ctx context.Context, publishedOnly bool, page, perPage int) ([]models.Blog, database.Pagination, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["published"] = true
	}
	var items []models.Blog
	p, err := database.FindPage(ctx, database.C(database.ColBlogs), filter,
		bson.D{{Key: "created_at", Value: -1}}, page, perPage, &items)
	return items, p, err
}

func (r *BlogRepository) Create(ctx context.Context, b *models.Blog) error {
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	res, err := database.C(database.ColBlogs).InsertOne(ctx, b)
	if err != nil {
		return err
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *BlogRepository) Update(ctx context.Context, b *models.Blog) error {
	b.UpdatedAt = time.Now()
	res, err := database.C(database.ColBlogs).ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *BlogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := database.C(database.ColBlogs).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

type SliderRepository struct{}

func NewSliderRepository() *SliderRepository { return &SliderRepository{} }

func (r *SliderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Slider, error) {
	var s models.Slider
	err := database.C(database.ColSliders).FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	return s, database.NotFound(err)
}

// Active returns live sliders in carousel order.
func (r *SliderRepository) Active(ctx context.Context) ([]models.Slider, error) {
	cur, err := database.C(database.ColSliders).Find(ctx, bson.M{"active": true},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var items []models.Slider
	err = cur.All(ctx, &items)
	return items, err
}

func (r *SliderRepository) All(ctx context.Context) ([]models.Slider, error) {
	cur, err := database.C(database.ColSliders).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var items []models.Slider
	err = cur.All(ctx, &items)
	return items, err
}

func (r *SliderRepository) Create(ctx context.Context, s *models.Slider) error {
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	res, err := database.C(database.ColSliders).InsertOne(ctx, s)
	if err != nil {
		return err
	}
	s.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *SliderRepository) Update(ctx context.Context, s *models.Slider) error {
	s.UpdatedAt = time.Now()
	res, err := database.C(database.ColSliders).ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *SliderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := database.C(database.ColSliders).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

type VideoRepository struct{}

func NewVideoRepository() *VideoRepository { return &VideoRepository{} }

func (r *VideoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Video, error) {
	var v models.Video
	err := database.C(database.ColVideos).FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	return v, database.NotFound(err)
}

func (r *VideoRepository) Active(ctx context.Context) ([]models.Video, error) {
	cur, err := database.C(database.ColVideos).Find(ctx, bson.M{"active": true},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var items []models.Video
	err = cur.All(ctx, &items)
	return items, err
}

func (r *VideoRepository) All(ctx context.Context) ([]models.Video, error) {
	cur, err := database.C(database.ColVideos).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var items []models.Video
	err = cur.All(ctx, &items)
	return items, err
}

func (r *VideoRepository) Create(ctx context.Context, v *models.Video) error {
	now := time.Now()
	v.CreatedAt, v.UpdatedAt = now, now
	res, err := database.C(database.ColVideos).InsertOne(ctx, v)
	if err != nil {
		return err
	}
	v.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *VideoRepository) Update(ctx context.Context, v *models.Video) error {
	v.UpdatedAt = time.Now()
	res, err := database.C(database.ColVideos).ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := database.C(database.ColVideos).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
