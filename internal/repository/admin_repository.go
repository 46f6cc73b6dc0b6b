package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"furnish-must/internal/database"
	"furnish-must/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
)

// AdminRepository defines the interface for admin account access
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Upsert(ctx context.Context, email, passwordHash string) error
}

type adminRepository struct {
	coll *mongo.Collection
}

// NewAdminRepository creates a new instance of AdminRepository
func NewAdminRepository(db *mongo.Database) AdminRepository {
	return &adminRepository{coll: db.Collection(database.CollectionAdmins)}
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	admin := &domain.Admin{}
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin by email: %w", err)
	}
	return admin, nil
}

// Upsert creates the admin account or replaces its password hash. Used by
// the seed tool.
func (r *adminRepository) Upsert(ctx context.Context, email, passwordHash string) error {
	update := bson.M{
		"$set":         bson.M{"password": passwordHash},
		"$setOnInsert": bson.M{"email": email, "createdAt": time.Now()},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert admin: %w", err)
	}
	return nil
}
