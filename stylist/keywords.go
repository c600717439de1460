package stylist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/zuriwear/zuri-backend/models"
)

// GenerateOutfitSuggestions asks the reasoning model for per-category
// style recommendations and grouped shopping keywords tuned to the
// user's body shape and undertone. The keyword groups feed the product
// search adapter.
func (s *Stylist) GenerateOutfitSuggestions(ctx context.Context, profile models.BodyProfile) (*models.OutfitSuggestions, error) {
	prompt := fmt.Sprintf(`You are a professional fashion stylist AI. Based on the user's body characteristics, recommend flattering outfit styles.

USER PROFILE:
- Body Shape: %s
- Skin Undertone: %s
- Height: %s

Respond only in valid JSON with this exact structure:
{
  "analysis": { "body_type": "the body shape" },
  "recommendations": {
    "tops": { "items": ["style 1", "style 2", "style 3"] },
    "bottoms": { "items": ["style 1", "style 2", "style 3"] },
    "dresses": { "items": ["style 1", "style 2", "style 3"] },
    "outerwear": { "items": ["style 1", "style 2", "style 3"] },
    "indian": { "items": ["style 1", "style 2", "style 3"] },
    "fabrics": { "items": ["fabric 1", "fabric 2", "fabric 3"] }
  },
  "keywords": [["searchable keyword"], ["searchable keyword"], ["searchable keyword"]]
}

Rules:
- Every recommendation must flatter a %s body shape and complement %s undertones
- keywords must be short, shoppable search phrases (e.g. "wrap midi dress"), one per inner array
- Include 6-10 keyword groups covering the recommended categories
- Do not include any explanation or markdown outside the JSON`,
		profile.BodyShape, profile.Undertone, heightString(profile),
		profile.BodyShape, profile.Undertone)

	resp, err := s.Model.Generate(ctx, ReasoningModel, &GenConfig{Temperature: 0.3}, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("outfit suggestion call failed: %w", err)
	}

	jsonBlock, found := ExtractBalancedJSON(StripCodeFences(firstText(resp)))
	if !found {
		return nil, fmt.Errorf("no JSON object in suggestion response")
	}

	var suggestions models.OutfitSuggestions
	if err := json.Unmarshal([]byte(jsonBlock), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion response: %w", err)
	}
	return &suggestions, nil
}
