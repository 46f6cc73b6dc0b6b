package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"furnish-must/internal/middleware"
	"furnish-must/internal/service"
	"furnish-must/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	testAdminEmail = "admin@example.com"
	testPassword   = "hunter22"
	testToken      = "session-token"
	testAdminID    = "64f000000000000000000001"
)

type stubAdminService struct{}

func (s *stubAdminService) Login(ctx context.Context, email, password string) (string, error) {
	if email == testAdminEmail && password == testPassword {
		return testToken, nil
	}
	return "", service.ErrInvalidCredentials
}

func (s *stubAdminService) ValidateSession(token string) (string, error) {
	if token == testToken {
		return testAdminID, nil
	}
	return "", service.ErrInvalidSession
}

func (s *stubAdminService) SessionTTL() time.Duration { return time.Hour }

func (s *stubAdminService) SetPassword(ctx context.Context, email, password string) error {
	return nil
}

type stubImageStore struct {
	lastKey         string
	lastContentType string
}

func (s *stubImageStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	s.lastKey = key
	s.lastContentType = contentType
	return "https://img.example.com/" + key, nil
}

func newAdminRouter(t *testing.T, orders service.OrderService, images *stubImageStore) chi.Router {
	t.Helper()

	admins := &stubAdminService{}
	if orders == nil {
		orders = &stubOrderService{}
	}

	handler := NewAdminHandler(
		admins,
		&stubCategoryService{},
		&stubCatalogService{},
		orders,
		imageStoreOrNil(images),
		false,
		zap.NewNop(),
	)

	router := chi.NewRouter()
	sessionMiddleware := middleware.SessionMiddleware(admins, zap.NewNop())
	handler.RegisterRoutes(router, sessionMiddleware, nil)
	return router
}

// imageStoreOrNil keeps a typed nil from sneaking into the interface.
func imageStoreOrNil(images *stubImageStore) storage.ImageStore {
	if images == nil {
		return nil
	}
	return images
}

func sessionCookie() *http.Cookie {
	return &http.Cookie{Name: middleware.SessionCookieName, Value: testToken}
}

func TestAdminLogin(t *testing.T) {
	router := newAdminRouter(t, nil, nil)

	body := `{"email": "admin@example.com", "password": "hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, middleware.SessionCookieName, cookie.Name)
	assert.Equal(t, testToken, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 3600, cookie.MaxAge)
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	router := newAdminRouter(t, nil, nil)

	body := `{"email": "admin@example.com", "password": "wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAdminLogin_MissingFields(t *testing.T) {
	router := newAdminRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"email": "not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Contains(t, resp.Error.Details, "validation_errors")
}

func TestAdminLogout_ClearsCookie(t *testing.T) {
	router := newAdminRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestAdminMe(t *testing.T) {
	router := newAdminRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp["authenticated"])

	req = httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(sessionCookie())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp["authenticated"])
}

func TestAdminRoutes_RequireSession(t *testing.T) {
	router := newAdminRouter(t, nil, nil)

	paths := []string{
		"/api/admin/products",
		"/api/admin/categories",
		"/api/admin/orders",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			req = httptest.NewRequest(http.MethodGet, path, nil)
			req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "forged"})
			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			req = httptest.NewRequest(http.MethodGet, path, nil)
			req.AddCookie(sessionCookie())
			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	var gotID primitive.ObjectID
	var gotStatus string
	orders := &stubOrderService{
		updateFn: func(ctx context.Context, id primitive.ObjectID, status string) error {
			gotID = id
			gotStatus = status
			return nil
		},
	}
	router := newAdminRouter(t, orders, nil)

	orderID := primitive.NewObjectID()
	body := `{"id": "` + orderID.Hex() + `", "status": "forward"}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, orderID, gotID)
	assert.Equal(t, "forward", gotStatus)
}

func TestAdminUpdateOrderStatus_BadID(t *testing.T) {
	router := newAdminRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/orders",
		strings.NewReader(`{"id": "nope", "status": "forward"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "Invalid id", resp.Error.Message)
}

func multipartUpload(t *testing.T, fieldName, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return buf, writer.FormDataContentType()
}

func TestAdminUploadImage(t *testing.T) {
	images := &stubImageStore{}
	router := newAdminRouter(t, nil, images)

	body, contentType := multipartUpload(t, "file", "sofa.jpg", "image/jpeg", []byte("fake image bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(sessionCookie())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp["url"], "https://img.example.com/products/")
	assert.True(t, strings.HasSuffix(images.lastKey, ".jpg"))
	assert.Equal(t, "image/jpeg", images.lastContentType)
}

func TestAdminUploadImage_RejectsNonImage(t *testing.T) {
	router := newAdminRouter(t, nil, &stubImageStore{})

	body, contentType := multipartUpload(t, "file", "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(sessionCookie())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageKey(t *testing.T) {
	datePrefix := time.Now().UTC().Format("2006/01/02")

	key := imageKey("Velvet Sofa.JPG")
	assert.Regexp(t, "^products/"+datePrefix+"/[0-9a-f]{16}\\.jpg$", key)

	// No extension stays extensionless.
	assert.Regexp(t, "^products/"+datePrefix+"/[0-9a-f]{16}$", imageKey("noext"))

	// Identical filenames never collide.
	assert.NotEqual(t, imageKey("sofa.jpg"), imageKey("sofa.jpg"))
}

func TestAdminUploadImage_StorageNotConfigured(t *testing.T) {
	router := newAdminRouter(t, nil, nil)

	body, contentType := multipartUpload(t, "file", "sofa.jpg", "image/jpeg", []byte("fake"))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(sessionCookie())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
