package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"furnish-must/internal/domain"
	"furnish-must/internal/middleware"
	"furnish-must/internal/service"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CategoriesResponse is the public categories payload: the flat name list
// for legacy consumers plus the two-level hierarchy for navigation.
type CategoriesResponse struct {
	Categories   []string                      `json:"categories"`
	Hierarchical []domain.HierarchicalCategory `json:"hierarchical"`
}

// CatalogHandler handles the public catalog endpoints.
type CatalogHandler struct {
	catalog    service.CatalogService
	categories service.CategoryService
	logger     *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, categories service.CategoryService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:    catalog,
		categories: categories,
		logger:     logger,
	}
}

// RegisterRoutes registers the public catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/products/{id}", h.GetProduct)
	r.Get("/api/categories", h.GetCategories)
}

// ListProducts handles GET /api/products with filter, sort, and
// pagination parameters.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	page, err := parseIntParam(params.Get("page"), "page")
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	limit, err := parseIntParam(params.Get("limit"), "limit")
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	query := service.CatalogQuery{
		Category: params.Get("category"),
		Tag:      params.Get("tag"),
		Search:   params.Get("q"),
		Sort:     params.Get("sort"),
		Page:     page,
		Limit:    limit,
	}

	result, err := h.catalog.ListProducts(r.Context(), query)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// GetCategories handles GET /api/categories
func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	names, err := h.categories.Names(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	hierarchy, err := h.categories.Hierarchy(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CategoriesResponse{
		Categories:   names,
		Hierarchical: hierarchy,
	})
}

// parseIntParam parses an optional positive integer query parameter.
// Empty means "not provided" (0); anything non-numeric or non-positive is
// a validation error naming the field.
func parseIntParam(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, service.NewValidationError(field, fmt.Sprintf("%s must be a positive integer", field))
	}
	return value, nil
}

func parseObjectID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, service.NewValidationError("id", "Invalid id")
	}
	return id, nil
}
