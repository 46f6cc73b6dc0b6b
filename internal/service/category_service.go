package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"furnish-must/internal/domain"
	"furnish-must/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CategoryAll is the sentinel filter value that matches every product.
const CategoryAll = "All"

// CategoryInput carries the admin-editable category fields.
type CategoryInput struct {
	Name        string
	Description string
	Image       string
	ParentID    *primitive.ObjectID
}

// CategoryService defines the interface for category business logic
type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Category, error)
	Names(ctx context.Context) ([]string, error)
	Hierarchy(ctx context.Context) ([]domain.HierarchicalCategory, error)
	Create(ctx context.Context, input CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, input CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	logger *zap.Logger,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// BuildHierarchy folds the flat, name-sorted category list into the
// two-level navigation structure. Sub-categories attach to the main
// category whose id their parentId references; a sub-category whose parent
// is missing from the input is dropped from the hierarchy (it still shows
// up in the flat name list).
func BuildHierarchy(flat []domain.Category) []domain.HierarchicalCategory {
	hierarchy := []domain.HierarchicalCategory{}
	mainIndex := map[string]int{}

	for _, c := range flat {
		if !c.IsMain() {
			continue
		}
		mainIndex[c.ID.Hex()] = len(hierarchy)
		hierarchy = append(hierarchy, domain.HierarchicalCategory{
			Name:          c.Name,
			SubCategories: []string{},
		})
	}

	for _, c := range flat {
		if c.IsMain() {
			continue
		}
		if idx, ok := mainIndex[c.ParentID.Hex()]; ok {
			hierarchy[idx].SubCategories = append(hierarchy[idx].SubCategories, c.Name)
		}
	}

	return hierarchy
}

// ExpandCategoryFilter resolves a selected category name into the set of
// product category names it matches. A nil result means no filter.
//
// Selecting a main category with children matches the parent name plus
// every child name; selecting a leaf, a sub-category, or an unknown name
// matches exactly that name. The asymmetry exists because products link
// categories by name string, so there is no id path to walk.
func ExpandCategoryFilter(selected string, hierarchy []domain.HierarchicalCategory) []string {
	if selected == "" || selected == CategoryAll {
		return nil
	}

	for _, entry := range hierarchy {
		if entry.Name == selected && len(entry.SubCategories) > 0 {
			matchSet := make([]string, 0, len(entry.SubCategories)+1)
			matchSet = append(matchSet, selected)
			matchSet = append(matchSet, entry.SubCategories...)
			return matchSet
		}
	}

	return []string{selected}
}

func (s *categoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// Names returns the flat name list, orphaned sub-categories included.
func (s *categoryService) Names(ctx context.Context) ([]string, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names, nil
}

func (s *categoryService) Hierarchy(ctx context.Context) ([]domain.HierarchicalCategory, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildHierarchy(categories), nil
}

func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	if input.Name == "" {
		return nil, NewValidationError("name", "Name required")
	}

	if err := s.verifyParent(ctx, input.ParentID); err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindByNameAndParent(ctx, input.Name, input.ParentID); err == nil {
		return nil, repository.ErrCategoryAlreadyExists
	} else if !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to check duplicate category: %w", err)
	}

	category := &domain.Category{
		Name:          input.Name,
		Description:   input.Description,
		Image:         input.Image,
		ParentID:      input.ParentID,
		IsSubCategory: input.ParentID != nil,
		CreatedAt:     time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update applies the edit and, on a rename, cascades the new name to every
// product still referencing the old one. The category write and the
// product mass-update are two separate operations; a crash between them
// leaves products pointing at the old name until the rename is retried.
func (s *categoryService) Update(ctx context.Context, id primitive.ObjectID, input CategoryInput) (*domain.Category, error) {
	existing, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, NewValidationError("name", "Name required")
	}

	if err := s.verifyParent(ctx, input.ParentID); err != nil {
		return nil, err
	}

	renamed := input.Name != existing.Name
	if renamed {
		if _, err := s.categoryRepo.FindByNameAndParent(ctx, input.Name, input.ParentID); err == nil {
			return nil, repository.ErrCategoryAlreadyExists
		} else if !errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, fmt.Errorf("failed to check duplicate category: %w", err)
		}
	}

	updated := &domain.Category{
		ID:            existing.ID,
		Name:          input.Name,
		Description:   input.Description,
		Image:         input.Image,
		ParentID:      input.ParentID,
		IsSubCategory: input.ParentID != nil,
		CreatedAt:     existing.CreatedAt,
	}

	if err := s.categoryRepo.Update(ctx, updated); err != nil {
		return nil, err
	}

	if renamed {
		count, err := s.productRepo.RenameCategory(ctx, existing.Name, input.Name)
		if err != nil {
			return nil, fmt.Errorf("category renamed but product cascade failed: %w", err)
		}
		s.logger.Info("Cascaded category rename to products",
			zap.String("old_name", existing.Name),
			zap.String("new_name", input.Name),
			zap.Int64("products_updated", count),
		)
	}

	return updated, nil
}

// Delete removes only the category itself. Sub-categories keep their
// dangling parentId and products keep the dangling name reference.
func (s *categoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.categoryRepo.Delete(ctx, id)
}

func (s *categoryService) verifyParent(ctx context.Context, parentID *primitive.ObjectID) error {
	if parentID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *parentID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return NewValidationError("parent_id", "Parent category not found")
		}
		return fmt.Errorf("failed to verify parent category: %w", err)
	}
	return nil
}
