package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"furnish-must/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for admin password hashing.
const BcryptCost = 10

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("invalid session")
)

// SessionClaims is the payload of the signed session cookie.
type SessionClaims struct {
	AdminID string `json:"admin_id"`
	jwt.RegisteredClaims
}

// AdminService defines the interface for admin authentication. Sessions
// are stateless signed tokens carried in a cookie; the authenticated admin
// id travels in the request context, never in process state.
type AdminService interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	ValidateSession(token string) (adminID string, err error)
	SessionTTL() time.Duration
	SetPassword(ctx context.Context, email, password string) error
}

type adminService struct {
	adminRepo repository.AdminRepository
	secret    string
	ttl       time.Duration
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(adminRepo repository.AdminRepository, secret string, ttl time.Duration) AdminService {
	return &adminService{
		adminRepo: adminRepo,
		secret:    secret,
		ttl:       ttl,
	}
}

// Login verifies credentials and issues a session token. A missing account
// and a wrong password are indistinguishable to the caller.
func (s *adminService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := &SessionClaims{
		AdminID: admin.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ValidateSession parses and verifies a session token, returning the
// admin id it was issued for.
func (s *adminService) ValidateSession(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.AdminID == "" {
		return "", ErrInvalidSession
	}
	return claims.AdminID, nil
}

func (s *adminService) SessionTTL() time.Duration {
	return s.ttl
}

// SetPassword creates or updates an admin account with a bcrypt hash.
// Used by the seed tool.
func (s *adminService) SetPassword(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return NewValidationError("credentials", "Email and password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.adminRepo.Upsert(ctx, email, string(hash))
}
