package stylist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/zuriwear/zuri-backend/models"
)

const metadataPrompt = `You are a fashion analysis AI. Given a clothing image (either a single dress or a topwear + bottomwear combination), return a JSON array of 1-2 objects with the following strict structure:

[
  {
    "itemName": "e.g. Floral Crop Top",
    "category": one of the following: "Tops", "Bottoms", "Dresses", "Ethnic", "Swimwear", "Footwear", "Accessories", "co-ord set",
    "color": {
      "name": readable color name (e.g. "Beige", "Navy Blue"),
      "hex": corresponding hex code (e.g. "#F5F5DC", "#000080")
    },
    "fabric": one open-ended tag like "Silk" - must be relevant to usage,
    "occasion": up to 3 open-ended tags like ["party", "work", "travel"] - must be lowercase and relevant to usage,
    "season": pick 1-2 from: "Summer", "Winter", "Monsoon", "Autumn", "Spring", "All Season"
  }
]

Rules:
- Return exactly 1 or 2 garments depending on the image.
- Only return valid enums for category, fabric, and season.
- Do not invent or guess values outside these enums.
- color must include both a human-readable name and a hex code.
- Never return null, undefined, empty strings, or invalid fields.
- Do not include any explanation, comment, or markdown - just the pure JSON array.`

// ExtractGarmentMetadata asks the vision model to describe the garments
// in an image. Items that come back incomplete are dropped; an entirely
// unusable response is an error so the caller can skip the image.
func (s *Stylist) ExtractGarmentMetadata(ctx context.Context, imageData []byte, mimeType string) ([]models.Garment, error) {
	format := "jpeg"
	if strings.Contains(mimeType, "png") {
		format = "png"
	}

	resp, err := s.Model.Generate(ctx, VisionModel, nil,
		genai.Text(metadataPrompt), genai.ImageData(format, imageData))
	if err != nil {
		return nil, fmt.Errorf("metadata extraction call failed: %w", err)
	}

	text := StripCodeFences(firstText(resp))
	if text == "" {
		return nil, fmt.Errorf("empty metadata response")
	}

	var raw []models.Garment
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse metadata response: %w", err)
	}

	var garments []models.Garment
	for _, g := range raw {
		g.Normalize()
		if g.Valid() {
			garments = append(garments, g)
		}
	}
	if len(garments) == 0 {
		return nil, fmt.Errorf("no valid garments in metadata response")
	}
	return garments, nil
}
