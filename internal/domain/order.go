package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Status is the only field mutated after creation.
const (
	OrderStatusPending = "pending"
	OrderStatusForward = "forward"
)

// OrderItem is a line item snapshot taken at checkout time.
type OrderItem struct {
	ProductID string  `json:"id" bson:"id"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Image     string  `json:"image" bson:"image"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// OrderTotals holds the checkout totals as submitted by the storefront.
type OrderTotals struct {
	Subtotal   float64 `json:"subtotal" bson:"subtotal"`
	Shipping   float64 `json:"shipping,omitempty" bson:"shipping,omitempty"`
	GrandTotal float64 `json:"grandTotal" bson:"grandTotal"`
}

// OrderCustomer is the embedded customer snapshot. Email is required.
type OrderCustomer struct {
	FullName string `json:"fullName" bson:"fullName"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address  string `json:"address,omitempty" bson:"address,omitempty"`
	City     string `json:"city,omitempty" bson:"city,omitempty"`
	Zip      string `json:"zip,omitempty" bson:"zip,omitempty"`
	Country  string `json:"country,omitempty" bson:"country,omitempty"`
	Notes    string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Order represents a checkout submission. Items and customer are immutable
// after creation; UserEmail and Total are denormalized copies kept for the
// admin order list.
type Order struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Items     []OrderItem        `json:"items" bson:"items"`
	Totals    OrderTotals        `json:"totals" bson:"totals"`
	Customer  OrderCustomer      `json:"customer" bson:"customer"`
	UserEmail string             `json:"userEmail" bson:"userEmail"`
	Total     float64            `json:"total" bson:"total"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
}
