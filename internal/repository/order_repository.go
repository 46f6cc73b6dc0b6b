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
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access. Orders are
// never deleted; status is the only mutable field.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	List(ctx context.Context, limit int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

type orderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{coll: db.Collection(database.CollectionOrders)}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// List returns the most recent orders, newest first.
func (r *orderRepository) List(ctx context.Context, limit int) ([]*domain.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []*domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
