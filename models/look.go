package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadedLook is a full-body photo the user uploaded of themselves in an
// outfit. Uniqueness on (userId, imageKey) is enforced by an index.
type UploadedLook struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	ImageKey  string             `bson:"imageKey" json:"imageKey"`
	Title     string             `bson:"title" json:"title"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
