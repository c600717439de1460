package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedFavourite is a user-saved inspiration image with descriptive tags.
type SavedFavourite struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	ImageKey    string             `bson:"imageKey" json:"imageKey"`
	Tag         string             `bson:"tag" json:"tag"`
	Occasion    string             `bson:"occasion" json:"occasion"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
