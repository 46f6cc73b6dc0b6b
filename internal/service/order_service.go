package service

import (
	"context"
	"time"

	"furnish-must/internal/domain"
	"furnish-must/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// adminOrderListLimit caps the admin order list at the most recent orders.
const adminOrderListLimit = 100

// OrderInput is a checkout submission as received from the storefront.
type OrderInput struct {
	Items    []domain.OrderItem
	Totals   domain.OrderTotals
	Customer domain.OrderCustomer
}

// OrderService defines the interface for order intake and back-office
// order management.
type OrderService interface {
	Create(ctx context.Context, input OrderInput) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	logger    *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, logger *zap.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// Create validates and persists a checkout submission. UserEmail and Total
// are denormalized copies of the customer email and grand total.
func (s *orderService) Create(ctx context.Context, input OrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, NewValidationError("items", "Cart is empty")
	}
	if input.Customer.Email == "" {
		return nil, NewValidationError("customer.email", "Customer email required")
	}

	order := &domain.Order{
		Items:     input.Items,
		Totals:    input.Totals,
		Customer:  input.Customer,
		UserEmail: input.Customer.Email,
		Total:     input.Totals.GrandTotal,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("user_email", order.UserEmail),
		zap.Int("items", len(order.Items)),
	)
	return order, nil
}

func (s *orderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.List(ctx, adminOrderListLimit)
}

// UpdateStatus is the only mutation an order sees after creation.
func (s *orderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if status != domain.OrderStatusPending && status != domain.OrderStatusForward {
		return NewValidationError("status", "status must be pending or forward")
	}
	return s.orderRepo.UpdateStatus(ctx, id, status)
}
