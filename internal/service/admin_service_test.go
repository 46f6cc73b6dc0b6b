package service

import (
	"context"
	"testing"
	"time"

	"furnish-must/internal/domain"
	"furnish-must/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockAdminRepository struct {
	admins map[string]*domain.Admin
}

func newMockAdminRepository() *mockAdminRepository {
	return &mockAdminRepository{admins: make(map[string]*domain.Admin)}
}

func (m *mockAdminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	admin, exists := m.admins[email]
	if !exists {
		return nil, repository.ErrAdminNotFound
	}
	return admin, nil
}

func (m *mockAdminRepository) Upsert(ctx context.Context, email, passwordHash string) error {
	if existing, exists := m.admins[email]; exists {
		existing.PasswordHash = passwordHash
		return nil
	}
	m.admins[email] = &domain.Admin{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	return nil
}

func TestAdminService_LoginAndValidateSession(t *testing.T) {
	adminRepo := newMockAdminRepository()
	svc := NewAdminService(adminRepo, "test-secret", time.Hour)

	require.NoError(t, svc.SetPassword(context.Background(), "admin@example.com", "hunter22"))

	token, err := svc.Login(context.Background(), "admin@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	adminID, err := svc.ValidateSession(token)
	require.NoError(t, err)
	assert.Equal(t, adminRepo.admins["admin@example.com"].ID.Hex(), adminID)
}

func TestAdminService_Login_InvalidCredentials(t *testing.T) {
	adminRepo := newMockAdminRepository()
	svc := NewAdminService(adminRepo, "test-secret", time.Hour)
	require.NoError(t, svc.SetPassword(context.Background(), "admin@example.com", "hunter22"))

	// Wrong password and unknown account fail identically.
	_, err := svc.Login(context.Background(), "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminService_ValidateSession_Rejections(t *testing.T) {
	adminRepo := newMockAdminRepository()
	require.NoError(t, NewAdminService(adminRepo, "test-secret", time.Hour).
		SetPassword(context.Background(), "admin@example.com", "hunter22"))

	svc := NewAdminService(adminRepo, "test-secret", time.Hour)

	_, err := svc.ValidateSession("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)

	// Token signed with a different secret.
	other := NewAdminService(adminRepo, "other-secret", time.Hour)
	token, err := other.Login(context.Background(), "admin@example.com", "hunter22")
	require.NoError(t, err)
	_, err = svc.ValidateSession(token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	// Expired token.
	expired := NewAdminService(adminRepo, "test-secret", -time.Minute)
	token, err = expired.Login(context.Background(), "admin@example.com", "hunter22")
	require.NoError(t, err)
	_, err = svc.ValidateSession(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestAdminService_SetPassword_Validation(t *testing.T) {
	svc := NewAdminService(newMockAdminRepository(), "test-secret", time.Hour)

	err := svc.SetPassword(context.Background(), "", "hunter22")
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	err = svc.SetPassword(context.Background(), "admin@example.com", "")
	_, ok = AsValidationError(err)
	assert.True(t, ok)
}

func TestAdminService_SetPassword_RotatesHash(t *testing.T) {
	adminRepo := newMockAdminRepository()
	svc := NewAdminService(adminRepo, "test-secret", time.Hour)

	require.NoError(t, svc.SetPassword(context.Background(), "admin@example.com", "first"))
	require.NoError(t, svc.SetPassword(context.Background(), "admin@example.com", "second"))

	_, err := svc.Login(context.Background(), "admin@example.com", "first")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "admin@example.com", "second")
	assert.NoError(t, err)
}
