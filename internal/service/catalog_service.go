package service

import (
	"context"
	"time"

	"furnish-must/internal/domain"
	"furnish-must/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	DefaultPage  = 1
	DefaultLimit = 8
)

// CatalogQuery carries the parsed catalog query parameters. Zero values
// mean "not provided" and take the documented defaults.
type CatalogQuery struct {
	Category string
	Tag      string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

// ProductPage is a page of catalog results plus pagination metadata.
// Total counts all matches before pagination; TotalPages never drops
// below 1, even for an empty result.
type ProductPage struct {
	Products   []*domain.Product `json:"products"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int64             `json:"total"`
	TotalPages int               `json:"totalPages"`
}

// ProductInput carries the admin-editable product fields.
type ProductInput struct {
	Name             string
	Price            float64
	Image            string
	Category         string
	Description      string
	Tags             []string
	Dimensions       string
	Materials        string
	Features         string
	Weight           string
	Warranty         string
	CareInstructions string
	Specifications   string
}

// CatalogService defines the interface for product catalog logic: the
// public query path plus the admin product CRUD.
type CatalogService interface {
	ListProducts(ctx context.Context, query CatalogQuery) (*ProductPage, error)
	AllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// ListProducts evaluates a catalog query: category expansion, tag and
// free-text filters, sorting, and pagination.
func (s *catalogService) ListProducts(ctx context.Context, query CatalogQuery) (*ProductPage, error) {
	if query.Page == 0 {
		query.Page = DefaultPage
	}
	if query.Limit == 0 {
		query.Limit = DefaultLimit
	}
	if query.Page < 1 {
		return nil, NewValidationError("page", "page must be a positive integer")
	}
	if query.Limit < 1 {
		return nil, NewValidationError("limit", "limit must be a positive integer")
	}

	sort, err := parseSortKey(query.Sort)
	if err != nil {
		return nil, err
	}

	filter := repository.ProductFilter{
		Categories: s.expandCategory(ctx, query.Category),
		Tag:        query.Tag,
		Search:     query.Search,
	}

	products, total, err := s.productRepo.Find(ctx, filter, sort, query.Page, query.Limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return &ProductPage{
		Products:   products,
		Page:       query.Page,
		Limit:      query.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// expandCategory resolves the selected category into its match-set. The
// hierarchy lookup is an optimization: if it fails, the query degrades to
// an exact-name match instead of failing the request.
func (s *catalogService) expandCategory(ctx context.Context, selected string) []string {
	if selected == "" || selected == CategoryAll {
		return nil
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.logger.Warn("Category expansion lookup failed, falling back to exact match",
			zap.String("category", selected),
			zap.Error(err),
		)
		return []string{selected}
	}

	return ExpandCategoryFilter(selected, BuildHierarchy(categories))
}

// AllProducts returns the full catalog newest-first, for the admin list.
func (s *catalogService) AllProducts(ctx context.Context) ([]*domain.Product, error) {
	products, _, err := s.productRepo.Find(ctx, repository.ProductFilter{}, repository.SortByNewest, 1, 0)
	return products, err
}

func (s *catalogService) GetProduct(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := productFromInput(input)
	product.CreatedAt = time.Now()

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id primitive.ObjectID, input ProductInput) (*domain.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := productFromInput(input)
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return s.productRepo.Delete(ctx, id)
}

func parseSortKey(sort string) (repository.SortKey, error) {
	switch sort {
	case "", "newest":
		return repository.SortByNewest, nil
	case "name":
		return repository.SortByName, nil
	case "price":
		return repository.SortByPrice, nil
	default:
		return "", NewValidationError("sort", "sort must be one of: name, price, newest")
	}
}

func validateProductInput(input ProductInput) error {
	if input.Name == "" {
		return NewValidationError("name", "Name required")
	}
	if input.Price <= 0 {
		return NewValidationError("price", "Price must be positive")
	}
	if input.Image == "" {
		return NewValidationError("image", "Image required")
	}
	return nil
}

func productFromInput(input ProductInput) *domain.Product {
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Product{
		Name:             input.Name,
		Price:            input.Price,
		Image:            input.Image,
		Category:         input.Category,
		Description:      input.Description,
		Tags:             tags,
		Dimensions:       input.Dimensions,
		Materials:        input.Materials,
		Features:         input.Features,
		Weight:           input.Weight,
		Warranty:         input.Warranty,
		CareInstructions: input.CareInstructions,
		Specifications:   input.Specifications,
	}
}
