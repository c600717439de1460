package stylist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/zuriwear/zuri-backend/models"
)

const bodyAnalysisPrompt = `You are a professional body shape and color analyst. Analyze the provided full-body photo.

Respond only in valid JSON with this exact structure:
{
  "bodyShape": { "classification": "rectangle" | "hourglass" | "pear" | "apple" | "inverted triangle" },
  "gender": { "classification": "female" | "male" },
  "skinTone": {
    "toneCategory": "warm" | "cool" | "neutral",
    "recommendedColorPalettes": {
      "bright": { "colors": [{ "name": "color name", "hexCode": "#RRGGBB" }] },
      "light": { "colors": [{ "name": "color name", "hexCode": "#RRGGBB" }] },
      "neutral": { "colors": [{ "name": "color name", "hexCode": "#RRGGBB" }] }
    },
    "reasoningProcess": "brief explanation of the tone classification"
  }
}

Rules:
- Classify bodyShape strictly from the listed values
- Each palette should contain 4-6 named colors with hex codes
- Do not include any explanation or markdown outside the JSON`

// AnalyzeBodyPhoto extracts body shape, undertone, and color palettes
// from a full-body photo. Classifications come back as free text and
// are normalized with NormalizeBodyShape / NormalizeUndertone before
// being copied onto the user document.
func (s *Stylist) AnalyzeBodyPhoto(ctx context.Context, imageData []byte) (*models.BodyShapeAnalysis, error) {
	resp, err := s.Model.Generate(ctx, VisionModel, &GenConfig{Temperature: 0.3},
		genai.Text(bodyAnalysisPrompt), genai.ImageData("jpeg", imageData))
	if err != nil {
		return nil, fmt.Errorf("body analysis call failed: %w", err)
	}

	jsonBlock, found := ExtractBalancedJSON(StripCodeFences(firstText(resp)))
	if !found {
		return nil, fmt.Errorf("no JSON object in body analysis response")
	}

	var analysis models.BodyShapeAnalysis
	if err := json.Unmarshal([]byte(jsonBlock), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse body analysis response: %w", err)
	}
	return &analysis, nil
}

// NormalizeBodyShape maps a free-text classification onto the body
// shape enum, or "" when it matches nothing.
func NormalizeBodyShape(raw string) string {
	shape := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(shape, "inverted") || strings.Contains(shape, "triangle") {
		shape = "inverted triangle"
	}
	if models.ValidBodyShape(shape) {
		return shape
	}
	return ""
}

// NormalizeUndertone maps a free-text tone category onto the undertone
// enum, or "" when it matches nothing.
func NormalizeUndertone(raw string) string {
	tone := strings.ToLower(strings.TrimSpace(raw))
	if models.ValidUndertone(tone) {
		return tone
	}
	return ""
}
