package stylist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/zuriwear/zuri-backend/models"
)

// SlotLabels are the four garment roles, in upload order.
var SlotLabels = []string{"Topwear", "Bottomwear", "Accessory", "Footwear"}

const (
	invalidItemsMarker = "❌ INVALID FASHION ITEMS"
	perfectMatchMarker = "✅ Perfect Match"
)

var invalidItemsRe = regexp.MustCompile(`(?i)❌ INVALID FASHION ITEMS:\s*\[([^\]]+)\]`)

// SlotImage is one uploaded garment image positioned at its slot. A
// zero-value entry means the slot was not provided.
type SlotImage struct {
	Data []byte
	Key  string
}

func (s SlotImage) Present() bool { return len(s.Data) > 0 }

// Suitability is the model's verdict for one slot.
type Suitability struct {
	Status    string `json:"status"`
	Reasoning string `json:"reasoning"`
}

// ValidationResult is the parsed outcome of the validate-and-critique
// call. When Valid is false the uploaded images have already been
// deleted from storage.
type ValidationResult struct {
	Valid               bool
	InvalidItemsMessage string
	Critique            string
	PerfectMatch        bool
	BadSlotIndices      []int
	BadImageKeys        []string
	Suitability         map[string]Suitability
}

// ValidateOutfit sends the provided slot images plus the user's body
// profile to the reasoning model and parses its critique. The model is
// asked to first reject non-fashion images, then judge per-slot
// suitability for the occasion.
func (s *Stylist) ValidateOutfit(ctx context.Context, images [4]SlotImage, occasion string, profile models.BodyProfile) (*ValidationResult, error) {
	prompt := validationPrompt(occasion, profile)

	parts := []genai.Part{genai.Text(prompt)}
	for _, img := range images {
		if img.Present() {
			parts = append(parts, genai.ImageData("jpeg", img.Data))
		}
	}

	resp, err := s.Model.Generate(ctx, ReasoningModel, &GenConfig{Temperature: 0.1, TopP: 0.8, TopK: 40}, parts...)
	if err != nil {
		return nil, fmt.Errorf("outfit validation call failed: %w", err)
	}

	text := firstText(resp)
	result := parseValidationResponse(text, images)

	if !result.Valid {
		// Cleanup of wasted storage. Each key is deleted exactly once.
		s.deleteUploaded(ctx, images)
	}
	return result, nil
}

func (s *Stylist) deleteUploaded(ctx context.Context, images [4]SlotImage) {
	for _, img := range images {
		if img.Present() && img.Key != "" {
			if err := s.Store.Delete(ctx, img.Key); err != nil {
				log.Printf("Failed to delete rejected image %s: %v", img.Key, err)
			}
		}
	}
}

// parseValidationResponse turns the model's semi-structured text into
// a uniform result. Parsing is defensive throughout: the invalid-items
// marker short-circuits, the JSON block is located by balanced braces,
// and missing or broken JSON falls back to a safe default.
func parseValidationResponse(text string, images [4]SlotImage) *ValidationResult {
	if strings.Contains(text, invalidItemsMarker) {
		invalidItems := "Unknown items"
		if m := invalidItemsRe.FindStringSubmatch(text); m != nil {
			invalidItems = m[1]
		}
		return &ValidationResult{
			Valid:               false,
			InvalidItemsMessage: fmt.Sprintf("The following items are not valid fashion items: %s", invalidItems),
		}
	}

	result := &ValidationResult{
		Valid:        true,
		Critique:     text,
		PerfectMatch: strings.Contains(text, perfectMatchMarker),
	}

	jsonBlock, found := ExtractBalancedJSON(text)
	if found {
		var details map[string]Suitability
		if err := json.Unmarshal([]byte(jsonBlock), &details); err != nil {
			log.Printf("Failed to parse suitability JSON: %v", err)
		} else {
			result.Suitability = details
			if !result.PerfectMatch {
				for i, label := range SlotLabels {
					if images[i].Present() {
						if d, ok := details[label]; ok && d.Status == "not suitable" {
							result.BadSlotIndices = append(result.BadSlotIndices, i)
							result.BadImageKeys = append(result.BadImageKeys, images[i].Key)
						}
					}
				}
			}
			return result
		}
	}

	if result.PerfectMatch {
		// No JSON but a perfect match: synthesize an all-suitable
		// structure so downstream consumers see a uniform shape.
		result.Suitability = make(map[string]Suitability)
		for i, label := range SlotLabels {
			if images[i].Present() {
				result.Suitability[label] = Suitability{
					Status:    "suitable",
					Reasoning: "Perfect match for the occasion and your profile",
				}
			}
		}
		return result
	}

	// JSON missing or broken and not a perfect match: conservatively
	// treat every provided slot as bad.
	for i := range SlotLabels {
		if images[i].Present() {
			result.BadSlotIndices = append(result.BadSlotIndices, i)
			result.BadImageKeys = append(result.BadImageKeys, images[i].Key)
		}
	}
	return result
}

// ExtractBalancedJSON locates the first top-level JSON object in text
// by matching balanced braces. A regex would misfire on the nested
// objects the critique JSON always contains.
func ExtractBalancedJSON(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func validationPrompt(occasion string, profile models.BodyProfile) string {
	height := profile.EffectiveHeight()
	heightString := fmt.Sprintf("%d'%d\"", height.Feet, height.Inches)

	bodyShape := profile.BodyShape
	if bodyShape == "" {
		bodyShape = "Not specified"
	}
	undertone := profile.Undertone
	if undertone == "" {
		undertone = "Not specified"
	}

	userProfile := fmt.Sprintf(`
**USER PROFILE:**
- Body Shape: %s
- Undertone: %s
- Height: %s`, bodyShape, undertone, heightString)

	return fmt.Sprintf(`You are a professional fashion stylist and image validation assistant. The user has uploaded 1 to 4 items labeled as: Topwear, Bottomwear, Accessory, and Footwear. The occasion is: %s.
%s
Your tasks:
**STEP 1: FASHION ITEM VALIDATION**
First, validate each uploaded image to ensure it contains a valid fashion item (clothing, footwear, or accessories). If ANY item is not a fashion item, respond with:
❌ INVALID FASHION ITEMS: [List the non-fashion items by their labels]
**STEP 2: OUTFIT CRITIQUE** (Only if all items are valid fashion items)
If all items are valid fashion items, provide:
1. A personalized fashion critique (within 60 words) considering the user's body shape, height, and how well the items work together for the given occasion.
2. Conclude with either:
   ✅ Perfect Match
   ❌ Not Suitable
3. **ALWAYS** provide a JSON object mapping each provided item label to {"status": "suitable" | "not suitable", "reasoning": "Brief one-line explanation"}.
⚠️ Rules:
- ALWAYS do fashion validation first according to the occasion
- Consider the user's body profile for personalized advice
- Only include keys in JSON for items that are provided
- The critique must come **before** the JSON
- **ALWAYS include the JSON structure for ALL items, whether Perfect Match or Not Suitable**
- Do not include any extra commentary outside the JSON
- The JSON must be valid and appear exactly as shown
Respond strictly in this structure.`, occasion, userProfile)
}
