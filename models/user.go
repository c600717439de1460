package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Valid enum values for the user body profile.
var (
	BodyShapes = []string{"rectangle", "hourglass", "pear", "apple", "inverted triangle"}
	Undertones = []string{"cool", "warm", "neutral"}
)

// Height in imperial units, the way the styling prompts consume it.
type Height struct {
	Feet   int `bson:"feet" json:"feet"`
	Inches int `bson:"inches" json:"inches"`
}

// IsZero reports whether no height was ever provided.
func (h Height) IsZero() bool {
	return h.Feet <= 0 && h.Inches <= 0
}

// BodyProfile holds the optional physical attributes every generation
// stage personalizes on.
type BodyProfile struct {
	BodyShape string `bson:"bodyShape,omitempty" json:"bodyShape,omitempty"`
	Undertone string `bson:"undertone,omitempty" json:"undertone,omitempty"`
	Height    Height `bson:"height,omitempty" json:"height"`
}

// EffectiveHeight returns the stored height, falling back to the fixed
// 5'4" default when none was provided. Every consumer of the profile must
// go through this so the default is applied identically everywhere.
func (p BodyProfile) EffectiveHeight() Height {
	if p.Height.IsZero() {
		return Height{Feet: 5, Inches: 4}
	}
	return p.Height
}

// User represents a registered user
type User struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName              string             `bson:"fullName" json:"fullName"`
	Email                 string             `bson:"email" json:"email"`
	Password              string             `bson:"password" json:"-"` // Password is not returned in JSON
	ProfilePicture        string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	BodyProfile           BodyProfile        `bson:"userBodyInfo,omitempty" json:"userBodyInfo"`
	RefreshToken          string             `bson:"refreshToken,omitempty" json:"-"`
	RecoveryCode          string             `bson:"recoveryCode,omitempty" json:"-"`
	RecoveryCodeExpiresAt time.Time          `bson:"recoveryCodeExpiresAt,omitempty" json:"-"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidBodyShape reports whether s is one of the recognized body shapes.
func ValidBodyShape(s string) bool {
	for _, v := range BodyShapes {
		if v == s {
			return true
		}
	}
	return false
}

// ValidUndertone reports whether s is one of the recognized undertones.
func ValidUndertone(s string) bool {
	for _, v := range Undertones {
		if v == s {
			return true
		}
	}
	return false
}
