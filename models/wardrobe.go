package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Garment classification enums.
var (
	GarmentCategories = []string{"Tops", "Bottoms", "Ethnic", "Dresses", "co-ord set", "Swimwear", "Footwear", "Accessories"}
	GarmentFabrics    = []string{"Cotton", "Linen", "Silk", "Wool", "Denim", "Polyester", "Rayon", "Velvet", "Chiffon", "Georgette", "Net", "Satin", "Tulle", "Mixed", "Other"}
	GarmentSeasons    = []string{"Summer", "Winter", "Monsoon", "Autumn", "Spring", "All Season"}
)

const (
	MaxOccasionTags = 3
	MaxSeasonTags   = 2
)

var hexColorRe = regexp.MustCompile(`^#[A-Fa-f0-9]{6}$`)

// GarmentColor pairs a readable color name with its hex code.
type GarmentColor struct {
	Name string `bson:"name" json:"name"`
	Hex  string `bson:"hex" json:"hex"`
}

// Garment is a single recognized clothing item inside an uploaded image.
// An image carries one or two garments (a dress, or a top + bottom combo).
type Garment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"garmentId"`
	ItemName string             `bson:"itemName" json:"itemName"`
	Category string             `bson:"category" json:"category"`
	Color    GarmentColor       `bson:"color" json:"color"`
	Fabric   string             `bson:"fabric" json:"fabric"`
	Occasion []string           `bson:"occasion" json:"occasion"`
	Season   []string           `bson:"season" json:"season"`
}

// Normalize trims free-text fields and enforces the tag limits
// (at most 3 occasions, at most 2 seasons).
func (g *Garment) Normalize() {
	g.ItemName = strings.TrimSpace(g.ItemName)
	g.Color.Name = strings.TrimSpace(g.Color.Name)
	g.Color.Hex = strings.TrimSpace(g.Color.Hex)
	trimmed := g.Occasion[:0]
	for _, occ := range g.Occasion {
		if occ = strings.TrimSpace(occ); occ != "" {
			trimmed = append(trimmed, occ)
		}
	}
	g.Occasion = trimmed
	if len(g.Occasion) > MaxOccasionTags {
		g.Occasion = g.Occasion[:MaxOccasionTags]
	}
	if len(g.Season) > MaxSeasonTags {
		g.Season = g.Season[:MaxSeasonTags]
	}
}

func inEnum(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Valid reports whether the garment has all the fields the wardrobe
// requires, with category, fabric and season restricted to the
// declared enums. Garments failing this are discarded at ingestion and
// rejected on update.
func (g Garment) Valid() bool {
	if g.ItemName == "" ||
		g.Color.Name == "" ||
		!hexColorRe.MatchString(g.Color.Hex) ||
		!inEnum(GarmentCategories, g.Category) ||
		!inEnum(GarmentFabrics, g.Fabric) {
		return false
	}
	for _, season := range g.Season {
		if !inEnum(GarmentSeasons, season) {
			return false
		}
	}
	return true
}

// UploadedImage is one wardrobe photo plus the garments recognized in it.
// ImageKey is the hosted object key; ImageHash is the content fingerprint
// that enforces per-user deduplication.
type UploadedImage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"imageId"`
	ImageKey  string             `bson:"imageKey" json:"imageKey"`
	ImageHash string             `bson:"imageHash" json:"-"`
	Garments  []Garment          `bson:"garments" json:"garments"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Wardrobe is the one-per-user aggregate owning all uploaded images.
type Wardrobe struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	UploadedImages []UploadedImage    `bson:"uploadedImages" json:"uploadedImages"`
	TotalGarments  int                `bson:"totalGarments" json:"totalGarments"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// GarmentRef is the flattened view handed to listing endpoints and the
// occasion selector: one garment plus its parent image's location.
type GarmentRef struct {
	ImageID   primitive.ObjectID `json:"imageId"`
	GarmentID primitive.ObjectID `json:"garmentId"`
	ItemName  string             `json:"itemName"`
	Category  string             `json:"category,omitempty"`
	Occasion  []string           `json:"occasion,omitempty"`
	ImageKey  string             `json:"imageKey"`
	ImageURL  string             `json:"imageUrl,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}
