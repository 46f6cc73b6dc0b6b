package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is a back-office account. PasswordHash is a bcrypt hash.
type Admin struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
}
