package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistItem is a user-saved product reference. Items are toggled:
// inserted if absent, deleted if present. (userId, productId) is unique.
type WishlistItem struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	ProductID       string             `bson:"productId" json:"productId"`
	ProductTitle    string             `bson:"productTitle" json:"productTitle"`
	ProductImage    string             `bson:"productImage,omitempty" json:"productImage,omitempty"`
	Price           string             `bson:"price,omitempty" json:"price,omitempty"`
	OriginalPrice   string             `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	DiscountPercent string             `bson:"discountPercent,omitempty" json:"discountPercent,omitempty"`
	Platform        string             `bson:"platform,omitempty" json:"platform,omitempty"`
	Rating          string             `bson:"rating,omitempty" json:"rating,omitempty"`
	ProductURL      string             `bson:"productUrl,omitempty" json:"productUrl,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
