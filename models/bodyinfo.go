package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaletteColor is a named swatch from the skin-tone analysis.
type PaletteColor struct {
	Name    string `bson:"name" json:"name"`
	HexCode string `bson:"hexCode" json:"hexCode"`
}

type Palette struct {
	Colors []PaletteColor `bson:"colors" json:"colors"`
}

// ColorPalettes groups the recommended palettes by intensity.
type ColorPalettes struct {
	Bright  Palette `bson:"bright" json:"bright"`
	Light   Palette `bson:"light" json:"light"`
	Neutral Palette `bson:"neutral" json:"neutral"`
}

type SkinToneAnalysis struct {
	ToneCategory             string        `bson:"toneCategory" json:"toneCategory"`
	RecommendedColorPalettes ColorPalettes `bson:"recommendedColorPalettes" json:"recommendedColorPalettes"`
	ReasoningProcess         string        `bson:"reasoningProcess,omitempty" json:"reasoningProcess,omitempty"`
}

// BodyShapeAnalysis is the structured output of the photo-analysis
// endpoint. Classifications are stored as free text and normalized to
// the BodyShapes / Undertones enums only when copied onto the User.
type BodyShapeAnalysis struct {
	BodyShape struct {
		Classification string `bson:"classification" json:"classification"`
	} `bson:"bodyShape" json:"bodyShape"`
	Gender struct {
		Classification string `bson:"classification" json:"classification"`
	} `bson:"gender" json:"gender"`
	SkinTone SkinToneAnalysis `bson:"skinTone" json:"skinTone"`
}

type OutfitRecommendations struct {
	Items []string `bson:"items" json:"items"`
}

// OutfitSuggestions carries per-category style recommendations and the
// keyword groups fed to product search. Keywords is a list of groups;
// each group is searched as one batch.
type OutfitSuggestions struct {
	Analysis struct {
		BodyType string `bson:"body_type" json:"body_type"`
	} `bson:"analysis" json:"analysis"`
	Recommendations struct {
		Tops      OutfitRecommendations `bson:"tops" json:"tops"`
		Bottoms   OutfitRecommendations `bson:"bottoms" json:"bottoms"`
		Dresses   OutfitRecommendations `bson:"dresses" json:"dresses"`
		Outerwear OutfitRecommendations `bson:"outerwear" json:"outerwear"`
		Indian    OutfitRecommendations `bson:"indian" json:"indian"`
		Fabrics   OutfitRecommendations `bson:"fabrics" json:"fabrics"`
	} `bson:"recommendations" json:"recommendations"`
	Keywords [][]string `bson:"keywords" json:"keywords"`
}

// UserBodyInfo is the per-user analysis document. One per user.
type UserBodyInfo struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	BodyShapeAnalysis *BodyShapeAnalysis `bson:"bodyShapeAnalysis,omitempty" json:"bodyShapeAnalysis,omitempty"`
	OutfitSuggestions *OutfitSuggestions `bson:"outfitSuggestions,omitempty" json:"outfitSuggestions,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
