package transport

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"furnish-must/internal/middleware"
	"furnish-must/internal/service"
	"furnish-must/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxUploadSize caps image uploads at 10 MiB.
const maxUploadSize = 10 << 20

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CategoryRequest is the admin category create/update payload. ParentID
// is a hex object id; empty means a main category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ParentID    string `json:"parentId"`
}

// ProductRequest is the admin product create/update payload.
type ProductRequest struct {
	Name             string   `json:"name" validate:"required"`
	Price            float64  `json:"price" validate:"required,gt=0"`
	Image            string   `json:"image" validate:"required"`
	Category         string   `json:"category"`
	Description      string   `json:"description"`
	Tags             []string `json:"tags"`
	Dimensions       string   `json:"dimensions"`
	Materials        string   `json:"materials"`
	Features         string   `json:"features"`
	Weight           string   `json:"weight"`
	Warranty         string   `json:"warranty"`
	CareInstructions string   `json:"careInstructions"`
	Specifications   string   `json:"specifications"`
}

// OrderStatusRequest is the admin order status update payload.
type OrderStatusRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

// AdminHandler handles the authenticated back-office endpoints.
type AdminHandler struct {
	admins        service.AdminService
	categories    service.CategoryService
	catalog       service.CatalogService
	orders        service.OrderService
	images        storage.ImageStore
	secureCookies bool
	logger        *zap.Logger
}

// NewAdminHandler creates a new AdminHandler. images may be nil when no
// object storage is configured; the upload endpoint then reports 503.
func NewAdminHandler(
	admins service.AdminService,
	categories service.CategoryService,
	catalog service.CatalogService,
	orders service.OrderService,
	images storage.ImageStore,
	secureCookies bool,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		admins:        admins,
		categories:    categories,
		catalog:       catalog,
		orders:        orders,
		images:        images,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// RegisterRoutes registers the admin routes. sessionMiddleware guards
// everything except login, logout, and me; loginLimiter, when non-nil,
// throttles login attempts.
func (h *AdminHandler) RegisterRoutes(r chi.Router, sessionMiddleware func(http.Handler) http.Handler, loginLimiter func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		if loginLimiter != nil {
			r.With(loginLimiter).Post("/login", h.Login)
		} else {
			r.Post("/login", h.Login)
		}
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)

		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware)

			r.Get("/categories", h.ListCategories)
			r.Post("/categories", h.CreateCategory)
			r.Get("/categories/{id}", h.GetCategory)
			r.Put("/categories/{id}", h.UpdateCategory)
			r.Delete("/categories/{id}", h.DeleteCategory)

			r.Get("/products", h.ListProducts)
			r.Post("/products", h.CreateProduct)
			r.Get("/products/{id}", h.GetProduct)
			r.Put("/products/{id}", h.UpdateProduct)
			r.Delete("/products/{id}", h.DeleteProduct)

			r.Get("/orders", h.ListOrders)
			r.Put("/orders", h.UpdateOrderStatus)

			r.Post("/upload", h.UploadImage)
		})
	})
}

// Login handles POST /api/admin/login and sets the session cookie.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.admins.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.setSessionCookie(w, token, int(h.admins.SessionTTL().Seconds()))
	h.logger.Info("Admin logged in", zap.String("email", req.Email))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Logout clears the session cookie.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setSessionCookie(w, "", -1)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me reports whether the request carries a valid session.
func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	authenticated := false
	if token, ok := middleware.SessionToken(r); ok {
		if _, err := h.admins.ValidateSession(token); err == nil {
			authenticated = true
		}
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"authenticated": authenticated})
}

// ListCategories handles GET /api/admin/categories
func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// CreateCategory handles POST /api/admin/categories
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeCategoryInput(w, r)
	if !ok {
		return
	}

	category, err := h.categories.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"ok": true,
		"id": category.ID.Hex(),
	})
}

// GetCategory handles GET /api/admin/categories/{id}
func (h *AdminHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// UpdateCategory handles PUT /api/admin/categories/{id}. A rename
// cascades to products referencing the old name.
func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	input, ok := h.decodeCategoryInput(w, r)
	if !ok {
		return
	}

	category, err := h.categories.Update(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/admin/categories/{id}. Deletion does
// not cascade: children and referencing products are left dangling.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ListProducts handles GET /api/admin/products
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.AllProducts(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// CreateProduct handles POST /api/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeProductInput(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"ok": true,
		"id": product.ID.Hex(),
	})
}

// GetProduct handles GET /api/admin/products/{id}
func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
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

// UpdateProduct handles PUT /api/admin/products/{id}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	input, ok := h.decodeProductInput(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/admin/products/{id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ListOrders handles GET /api/admin/orders
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// UpdateOrderStatus handles PUT /api/admin/orders with body {id, status}.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req OrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := parseObjectID(req.ID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// UploadImage handles POST /api/admin/upload (multipart field "file") and
// returns the stored image URL.
func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "image storage not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		middleware.RespondWithError(w, http.StatusBadRequest, "only image uploads are allowed")
		return
	}

	key := imageKey(header.Filename)
	url, err := h.images.Upload(r.Context(), key, contentType, file)
	if err != nil {
		h.logger.Error("Image upload failed", zap.Error(err), zap.String("key", key))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("Image uploaded", zap.String("key", key))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *AdminHandler) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
}

func (h *AdminHandler) decodeCategoryInput(w http.ResponseWriter, r *http.Request) (service.CategoryInput, bool) {
	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return service.CategoryInput{}, false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return service.CategoryInput{}, false
	}

	var parentID *primitive.ObjectID
	if req.ParentID != "" {
		id, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "Invalid parent category ID")
			return service.CategoryInput{}, false
		}
		parentID = &id
	}

	return service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		ParentID:    parentID,
	}, true
}

func (h *AdminHandler) decodeProductInput(w http.ResponseWriter, r *http.Request) (service.ProductInput, bool) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return service.ProductInput{}, false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return service.ProductInput{}, false
	}

	return service.ProductInput{
		Name:             req.Name,
		Price:            req.Price,
		Image:            req.Image,
		Category:         req.Category,
		Description:      req.Description,
		Tags:             req.Tags,
		Dimensions:       req.Dimensions,
		Materials:        req.Materials,
		Features:         req.Features,
		Weight:           req.Weight,
		Warranty:         req.Warranty,
		CareInstructions: req.CareInstructions,
		Specifications:   req.Specifications,
	}, true
}

// imageKey builds a date-prefixed object key with a random suffix so
// concurrent uploads of identically named files never collide.
func imageKey(filename string) string {
	// crypto/rand.Read is specified to never fail.
	suffix := make([]byte, 8)
	_, _ = rand.Read(suffix)

	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("products/%s/%s%s",
		time.Now().UTC().Format("2006/01/02"),
		hex.EncodeToString(suffix),
		ext,
	)
}
