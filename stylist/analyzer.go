package stylist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// ImageDescription pairs an image URL with the analyst's short text.
type ImageDescription struct {
	Image       string `json:"image"`
	Description string `json:"description"`
}

// Analysis is the structured outcome of the post-hoc review:
// descriptions of the accepted and rejected looks plus shopping
// keywords for the product search stage.
type Analysis struct {
	GoodImageWithDescription []ImageDescription `json:"goodImageWithDescription"`
	BadImageWithDescription  []ImageDescription `json:"badImageWithDescription"`
	GoodImagesKeywords       []string           `json:"goodImagesKeywords"`
	BadImagesKeywords        []string           `json:"badImagesKeywords"`
}

// AnalyzeImages reviews the generated looks and the rejected items with
// a vision model. Good images go first and bad images after, and the
// counts are stated in the prompt, because the response is positionally
// de-interleaved afterwards. No fetchable images is a valid, empty
// outcome rather than an error.
func (s *Stylist) AnalyzeImages(ctx context.Context, good []ImageResult, badURLs []string, occasion string) (*Analysis, error) {
	var goodURLs []string
	for _, r := range good {
		if r.ImageURL != nil && *r.ImageURL != "" {
			goodURLs = append(goodURLs, *r.ImageURL)
		}
	}

	parts := []genai.Part{genai.Text(analysisPrompt(occasion, len(goodURLs), len(badURLs)))}
	var attachedGood, attachedBad []string

	for i, url := range goodURLs {
		data, err := FetchImage(ctx, url)
		if err != nil {
			log.Printf("Error processing generated image %d: %v", i, err)
			continue
		}
		parts = append(parts, genai.ImageData("png", data))
		attachedGood = append(attachedGood, url)
	}
	for i, url := range badURLs {
		data, err := FetchImage(ctx, url)
		if err != nil {
			log.Printf("Error processing bad image %d: %v", i, err)
			continue
		}
		parts = append(parts, genai.ImageData("png", data))
		attachedBad = append(attachedBad, url)
	}

	if len(parts) == 1 {
		log.Println("No valid images were added to the analysis prompt, returning empty result")
		return &Analysis{
			GoodImageWithDescription: []ImageDescription{},
			BadImageWithDescription:  []ImageDescription{},
			GoodImagesKeywords:       []string{},
			BadImagesKeywords:        []string{},
		}, nil
	}

	resp, err := s.Model.Generate(ctx, VisionModel, &GenConfig{Temperature: 0.3}, parts...)
	if err != nil {
		return nil, fmt.Errorf("image analysis call failed: %w", err)
	}

	jsonBlock, found := ExtractBalancedJSON(StripCodeFences(firstText(resp)))
	if !found {
		return nil, fmt.Errorf("no JSON object in analysis response")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(jsonBlock), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	// The model may echo stale or truncated URLs; remap positionally to
	// the URLs that were actually sent.
	for i := range analysis.GoodImageWithDescription {
		if i < len(attachedGood) {
			analysis.GoodImageWithDescription[i].Image = attachedGood[i]
		}
	}
	for i := range analysis.BadImageWithDescription {
		if i < len(attachedBad) {
			analysis.BadImageWithDescription[i].Image = attachedBad[i]
		}
	}

	if analysis.GoodImageWithDescription == nil {
		analysis.GoodImageWithDescription = []ImageDescription{}
	}
	if analysis.BadImageWithDescription == nil {
		analysis.BadImageWithDescription = []ImageDescription{}
	}
	if analysis.GoodImagesKeywords == nil {
		analysis.GoodImagesKeywords = []string{}
	}
	if analysis.BadImagesKeywords == nil {
		analysis.BadImagesKeywords = []string{}
	}
	return &analysis, nil
}

// StripCodeFences removes markdown code fences the model sometimes
// wraps JSON responses in.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func analysisPrompt(occasion string, goodCount, badCount int) string {
	return fmt.Sprintf(`You are a professional fashion AI analyst. Analyze the provided images and provide detailed insights.

CONTEXT:
- Occasion: "%s"
- You will receive TWO types of images in sequence:
  1. GENERATED IMAGES (AI-created fashion outfits) - These come first
  2. BAD/UNSUITABLE IMAGES (inappropriate items for the occasion) - These come after

IMAGE ORDER EXPLANATION:
- The first %d images are AI-GENERATED fashion outfits suitable for "%s"
- The remaining %d images are BAD/UNSUITABLE items for "%s"

ANALYSIS REQUIREMENTS:

FOR GENERATED IMAGES (First %d images):
- Provide a brief, engaging description (1-3 lines maximum)
- Focus on style, fit, and occasion-appropriateness

FOR BAD IMAGES (Remaining %d images):
- Provide a brief description of the item and why it does not suit the occasion

KEYWORDS GENERATION:
- goodImagesKeywords: Combine all relevant fashion keywords from the generated images (garments, footwear, accessories, bags, jewelry)
- badImagesKeywords: Suggest alternative fashion items that WOULD be suitable for "%s" instead of the bad items shown

RESPONSE FORMAT:
Respond only in valid JSON format:
{
  "goodImageWithDescription": [
    {"image": "url of the image", "description": "Brief description (1-3 lines) of the image"}
  ],
  "badImageWithDescription": [
    {"image": "url of the image", "description": "Brief description (1-3 lines) of the image"}
  ],
  "goodImagesKeywords": ["keyword1", "keyword2"],
  "badImagesKeywords": ["suitable_alternative1", "suitable_alternative2"]
}

GUIDELINES:
- Keywords must be fashion items only (clothing, shoes, accessories, bags, jewelry)
- Keep descriptions concise (1-3 lines maximum)
- Use specific fashion terminology

Analyze the images now:`,
		occasion, goodCount, occasion, badCount, occasion, goodCount, badCount, occasion)
}
