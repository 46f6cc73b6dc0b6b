package repository

import (
	"context"
	"errors"
	"fmt"

	"furnish-must/internal/database"
	"furnish-must/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error)
	FindByNameAndParent(ctx context.Context, name string, parentID *primitive.ObjectID) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type categoryRepository struct {
	coll *mongo.Collection
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &categoryRepository{coll: db.Collection(database.CollectionCategories)}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	update := bson.M{"$set": bson.M{
		"name":          category.Name,
		"description":   category.Description,
		"image":         category.Image,
		"parentId":      category.ParentID,
		"isSubCategory": category.IsSubCategory,
	}}

	res, err := r.coll.UpdateByID(ctx, category.ID, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete removes the category document only. Children and products that
// reference it by name are deliberately left untouched.
func (r *categoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	category := &domain.Category{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}
	return category, nil
}

// FindByNameAndParent looks up a category by its uniqueness scope. A nil
// parentID queries main categories (parentId null or absent).
func (r *categoryRepository) FindByNameAndParent(ctx context.Context, name string, parentID *primitive.ObjectID) (*domain.Category, error) {
	filter := bson.M{"name": name}
	if parentID != nil {
		filter["parentId"] = *parentID
	} else {
		filter["parentId"] = nil
	}

	category := &domain.Category{}
	err := r.coll.FindOne(ctx, filter).Decode(category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}
	return category, nil
}

// List returns all categories sorted by name ascending, the order the
// hierarchy builder expects.
func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []domain.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}
