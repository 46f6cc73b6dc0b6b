package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"furnish-must/internal/database"
	"furnish-must/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// SortKey selects the catalog sort order.
type SortKey string

const (
	SortByName   SortKey = "name"
	SortByPrice  SortKey = "price"
	SortByNewest SortKey = "newest"
)

// ProductFilter restricts a catalog query. A nil Categories slice means no
// category filter; a non-nil slice is an exact-name match-set.
type ProductFilter struct {
	Categories []string
	Tag        string
	Search     string
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	Find(ctx context.Context, filter ProductFilter, sort SortKey, page, limit int) ([]*domain.Product, int64, error)
	RenameCategory(ctx context.Context, oldName, newName string) (int64, error)
}

type productRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{coll: db.Collection(database.CollectionProducts)}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	update := bson.M{"$set": bson.M{
		"name":             product.Name,
		"price":            product.Price,
		"image":            product.Image,
		"category":         product.Category,
		"description":      product.Description,
		"tags":             product.Tags,
		"dimensions":       product.Dimensions,
		"materials":        product.Materials,
		"features":         product.Features,
		"weight":           product.Weight,
		"warranty":         product.Warranty,
		"careInstructions": product.CareInstructions,
		"specifications":   product.Specifications,
	}}

	res, err := r.coll.UpdateByID(ctx, product.ID, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// Find retrieves a page of products matching the filter, plus the total
// match count before pagination.
func (r *productRepository) Find(ctx context.Context, filter ProductFilter, sort SortKey, page, limit int) ([]*domain.Product, int64, error) {
	query := buildProductQuery(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := options.Find().
		SetSort(sortDocument(sort)).
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []*domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, total, nil
}

// RenameCategory rewrites the stored category name on every product that
// references oldName. Products link categories by name, so a category
// rename must cascade here.
func (r *productRepository) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"category": oldName},
		bson.M{"$set": bson.M{"category": newName}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to rename category on products: %w", err)
	}
	return res.ModifiedCount, nil
}

func buildProductQuery(filter ProductFilter) bson.M {
	query := bson.M{}

	switch len(filter.Categories) {
	case 0:
		// no category filter
	case 1:
		query["category"] = filter.Categories[0]
	default:
		query["category"] = bson.M{"$in": filter.Categories}
	}

	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}

	if q := strings.TrimSpace(filter.Search); q != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"category": pattern},
		}
	}

	return query
}

func sortDocument(sort SortKey) bson.D {
	switch sort {
	case SortByName:
		return bson.D{{Key: "name", Value: 1}}
	case SortByPrice:
		return bson.D{{Key: "price", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}
