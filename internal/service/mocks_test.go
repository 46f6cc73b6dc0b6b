package service

import (
	"context"
	"sort"
	"strings"

	"furnish-must/internal/domain"
	"furnish-must/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories for service tests.

type mockCategoryRepository struct {
	categories map[string]*domain.Category
	listErr    error
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{
		categories: make(map[string]*domain.Category),
	}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	m.categories[category.ID.Hex()] = category
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, exists := m.categories[category.ID.Hex()]; !exists {
		return repository.ErrCategoryNotFound
	}
	m.categories[category.ID.Hex()] = category
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, exists := m.categories[id.Hex()]; !exists {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id.Hex())
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	category, exists := m.categories[id.Hex()]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (m *mockCategoryRepository) FindByNameAndParent(ctx context.Context, name string, parentID *primitive.ObjectID) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Name != name {
			continue
		}
		if sameParent(c.ParentID, parentID) {
			return c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	categories := make([]domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func sameParent(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type mockProductRepository struct {
	products   map[string]*domain.Product
	lastFilter repository.ProductFilter
	lastSort   repository.SortKey
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[string]*domain.Product),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	m.products[product.ID.Hex()] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	existing, exists := m.products[product.ID.Hex()]
	if !exists {
		return repository.ErrProductNotFound
	}
	product.CreatedAt = existing.CreatedAt
	m.products[product.ID.Hex()] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, exists := m.products[id.Hex()]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id.Hex())
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	product, exists := m.products[id.Hex()]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) Find(ctx context.Context, filter repository.ProductFilter, sortKey repository.SortKey, page, limit int) ([]*domain.Product, int64, error) {
	m.lastFilter = filter
	m.lastSort = sortKey

	matches := []*domain.Product{}
	for _, p := range m.products {
		if matchesFilter(p, filter) {
			matches = append(matches, p)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		switch sortKey {
		case repository.SortByName:
			return matches[i].Name < matches[j].Name
		case repository.SortByPrice:
			return matches[i].Price < matches[j].Price
		default:
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
	})

	total := int64(len(matches))
	if limit <= 0 {
		return matches, total, nil
	}

	start := (page - 1) * limit
	if start >= len(matches) {
		return []*domain.Product{}, total, nil
	}
	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], total, nil
}

func (m *mockProductRepository) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	var count int64
	for _, p := range m.products {
		if p.Category == oldName {
			p.Category = newName
			count++
		}
	}
	return count, nil
}

func matchesFilter(p *domain.Product, filter repository.ProductFilter) bool {
	if filter.Categories != nil {
		found := false
		for _, c := range filter.Categories {
			if p.Category == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if filter.Tag != "" {
		found := false
		for _, t := range p.Tags {
			if t == filter.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if q := strings.ToLower(strings.TrimSpace(filter.Search)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			return false
		}
	}

	return true
}
