package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a product in the catalog. Category is a name-based
// reference to a category document, not an id (legacy storefront contract).
type Product struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Price            float64            `json:"price" bson:"price"`
	Image            string             `json:"image" bson:"image"`
	Category         string             `json:"category" bson:"category"`
	Description      string             `json:"description" bson:"description"`
	Tags             []string           `json:"tags" bson:"tags"`
	Dimensions       string             `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Materials        string             `json:"materials,omitempty" bson:"materials,omitempty"`
	Features         string             `json:"features,omitempty" bson:"features,omitempty"`
	Weight           string             `json:"weight,omitempty" bson:"weight,omitempty"`
	Warranty         string             `json:"warranty,omitempty" bson:"warranty,omitempty"`
	CareInstructions string             `json:"careInstructions,omitempty" bson:"careInstructions,omitempty"`
	Specifications   string             `json:"specifications,omitempty" bson:"specifications,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"createdAt"`
}
