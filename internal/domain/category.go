package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category represents a product category. ParentID is nil for main
// categories and references another category's id for sub-categories.
// The hierarchy is strictly two levels: a sub-category is never a parent.
type Category struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name          string              `json:"name" bson:"name"`
	Description   string              `json:"description" bson:"description"`
	Image         string              `json:"image,omitempty" bson:"image,omitempty"`
	ParentID      *primitive.ObjectID `json:"parent_id,omitempty" bson:"parentId"`
	IsSubCategory bool                `json:"is_sub_category" bson:"isSubCategory"`
	CreatedAt     time.Time           `json:"created_at" bson:"createdAt"`
}

// IsMain reports whether the category is a top-level ("main") category.
func (c *Category) IsMain() bool {
	return c.ParentID == nil
}

// HierarchicalCategory is the two-level navigation shape consumed by the
// storefront: a main category name plus the names of its sub-categories.
type HierarchicalCategory struct {
	Name          string   `json:"name"`
	SubCategories []string `json:"subCategories"`
}
