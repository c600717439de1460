package stylist

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/zuriwear/zuri-backend/models"
	"golang.org/x/sync/errgroup"
)

// Result sources for generated imagery.
const (
	SourceWardrobe  = "wardrobe"
	SourceGenerated = "generated"
	SourceComposed  = "composed"
)

// ImageResult is the uniform record every synthesis path produces. A
// nil ImageURL marks a soft failure for that slot; the aggregate
// response carries it without aborting.
type ImageResult struct {
	Source   string  `json:"source"`
	ImageURL *string `json:"imageUrl"`
}

var bodyShapeGuidelines = map[string]string{
	"pear":              "Focus on balancing proportions by highlighting the upper body, using A-line silhouettes, and choosing tops that draw attention upward",
	"apple":             "Emphasize the legs and neckline, use empire waists, flowing fabrics, and avoid tight-fitting tops around the midsection",
	"hourglass":         "Highlight the natural waistline with fitted silhouettes, wrap styles, and tailored pieces that showcase the balanced proportions",
	"rectangle":         "Create curves and definition with layering, belted waists, peplum styles, and pieces that add volume to hips and bust",
	"inverted triangle": "Balance broad shoulders with wider bottom silhouettes, bootcut pants, A-line skirts, and softer shoulder lines",
}

var undertoneColorGuidelines = map[string]string{
	"warm":    "Use warm colors like coral, peach, golden yellow, warm reds, olive green, and cream. Avoid cool-toned colors like icy blues or stark whites",
	"cool":    "Use cool colors like navy blue, emerald green, royal purple, true red, and crisp whites. Avoid warm yellows, oranges, or golden tones",
	"neutral": "Can wear both warm and cool colors effectively. Focus on colors that complement the occasion and outfit aesthetic",
}

var occasionGuidelines = map[string]string{
	"casual":       "Relaxed, comfortable styling with trendy accessories",
	"business":     "Professional, polished look with sophisticated accessories",
	"formal":       "Elegant, refined styling with luxury accessories",
	"party":        "Glamorous, eye-catching styling with statement accessories",
	"date":         "Chic, attractive styling with romantic touches",
	"vacation":     "Comfortable, stylish travel-appropriate styling",
	"workout":      "Athletic, functional styling with sporty accessories",
	"diwali":       "Focus on rich, festive colors like deep reds, golds, royal blues, or jewel tones. Include traditional jewelry, ethnic footwear, and celebratory elements",
	"wedding":      "Create an elegant, formal look with rich fabrics and traditional jewelry. Avoid white unless specifically requested",
	"karva chauth": "Style with traditional elements, rich colors (especially red, maroon, or pink), and appropriate jewelry",
	"navratri":     "Incorporate vibrant colors, traditional jewelry, and comfortable styling for dancing",
	"holi":         "Light, comfortable fabrics in white or light colors that can handle color play. Minimal jewelry, practical footwear",
	"durga puja":   "Traditional Bengali influences if appropriate, elegant styling with cultural elements and festive colors",
	"travel":       "Comfortable, practical styling with minimal accessories. Focus on comfort and versatility",
	"religious":    "Modest, culturally appropriate styling with traditional elements. Focus on respectful, conservative approach",
}

var ethnicOccasionHints = []string{
	"festival", "wedding", "diwali", "holi", "navratri",
	"durga puja", "karva chauth", "indian", "ethnic", "traditional",
}

func bodyShapeGuideline(shape string) string {
	if g, ok := bodyShapeGuidelines[strings.ToLower(shape)]; ok {
		return g
	}
	return "Focus on creating flattering, well-fitted silhouettes that enhance natural proportions"
}

func undertoneGuideline(undertone string) string {
	if g, ok := undertoneColorGuidelines[strings.ToLower(undertone)]; ok {
		return g
	}
	return "Choose colors that complement the skin tone and enhance the overall look"
}

func occasionGuideline(occasion string) string {
	if g, ok := occasionGuidelines[strings.ToLower(occasion)]; ok {
		return g
	}
	return "Versatile, well-coordinated styling"
}

func isEthnicOccasion(occasion string) bool {
	lower := strings.ToLower(occasion)
	for _, hint := range ethnicOccasionHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func heightString(profile models.BodyProfile) string {
	h := profile.EffectiveHeight()
	return fmt.Sprintf("%d'%d\"", h.Feet, h.Inches)
}

// GenerateSuggestions produces count AI-styled outfit images for the
// occasion. The calls are independent, so they run in parallel; one
// failing yields a null-image result without cancelling the others.
func (s *Stylist) GenerateSuggestions(ctx context.Context, occasion string, count int, description string, profile models.BodyProfile, userID string) []ImageResult {
	if count < 1 {
		count = 1
	}
	if count > 3 {
		count = 3
	}

	results := make([]ImageResult, count)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			prompt := suggestionPrompt(occasion, description, profile, i+1, count)
			resp, err := s.Model.Generate(gctx, ImageGenModel, &GenConfig{Temperature: 0.7, TopP: 0.9},
				genai.Text(prompt))
			if err != nil {
				log.Printf("AI suggestion %d failed: %v", i+1, err)
				results[i] = ImageResult{Source: SourceGenerated}
				return nil
			}
			results[i] = s.storeGenerated(gctx, SourceGenerated, firstImage(resp), userID)
			return nil
		})
	}
	g.Wait()
	return results
}

// StyleWardrobeItem generates a full look built around one garment
// from the user's wardrobe.
func (s *Stylist) StyleWardrobeItem(ctx context.Context, garment models.GarmentRef, occasion, description string, profile models.BodyProfile, userID string) ImageResult {
	imageURL := garment.ImageURL
	if imageURL == "" && garment.ImageKey != "" {
		if url, err := s.Store.PresignURL(ctx, garment.ImageKey); err == nil {
			imageURL = url
		}
	}

	imgData, err := FetchImage(ctx, imageURL)
	if err != nil {
		log.Printf("Failed to fetch wardrobe image for %s: %v", garment.ItemName, err)
		return ImageResult{Source: SourceWardrobe}
	}

	prompt := wardrobePrompt(occasion, description, profile)
	resp, err := s.Model.Generate(ctx, ImageGenModel, &GenConfig{Temperature: 0.7, TopP: 0.9},
		genai.Text(prompt), genai.ImageData("jpeg", imgData))
	if err != nil {
		log.Printf("Wardrobe styling failed: %v", err)
		return ImageResult{Source: SourceWardrobe}
	}
	return s.storeGenerated(ctx, SourceWardrobe, firstImage(resp), userID)
}

// ComposeModelImage renders the user's uploaded slot items onto a
// model, generating only the missing or rejected slots. Reference
// items are padded onto a square canvas before they are sent.
func (s *Stylist) ComposeModelImage(ctx context.Context, images [4]SlotImage, badSlots []int, occasion, description string, profile models.BodyProfile, userID string) ImageResult {
	bad := make(map[int]bool, len(badSlots))
	for _, idx := range badSlots {
		bad[idx] = true
	}

	has := [4]bool{}
	var parts []genai.Part
	for i, img := range images {
		if !img.Present() || bad[i] {
			continue
		}
		has[i] = true
		padded, err := PadToCanvas(img.Data)
		if err != nil {
			log.Printf("Failed to pad %s reference image: %v", SlotLabels[i], err)
			padded = img.Data
		}
		parts = append(parts, genai.ImageData("png", padded))
	}
	if len(parts) == 0 {
		return ImageResult{Source: SourceComposed}
	}

	prompt := composePrompt(occasion, description, profile, has)
	parts = append([]genai.Part{genai.Text(prompt)}, parts...)

	resp, err := s.Model.Generate(ctx, VisionModel, &GenConfig{Temperature: 0.7, TopP: 0.9}, parts...)
	if err != nil {
		log.Printf("Model image composition failed: %v", err)
		return ImageResult{Source: SourceComposed}
	}
	return s.storeGenerated(ctx, SourceComposed, firstImage(resp), userID)
}

// storeGenerated uploads generated image bytes and returns the result
// record. Nil or failed uploads yield a null-image result.
func (s *Stylist) storeGenerated(ctx context.Context, source string, data []byte, userID string) ImageResult {
	if len(data) == 0 {
		log.Printf("No image data returned from AI model for %s", source)
		return ImageResult{Source: source}
	}

	key := fmt.Sprintf("generated/%s/%d-%s.png", userID, time.Now().UnixNano(), uuid.NewString())
	if _, err := s.Store.UploadBytes(ctx, data, key, "image/png"); err != nil {
		log.Printf("Failed to upload generated image: %v", err)
		return ImageResult{Source: source}
	}

	url, err := s.Store.PresignURL(ctx, key)
	if err != nil {
		// The object exists; fall back to the raw key so callers can
		// still presign it later.
		url = key
	}
	return ImageResult{Source: source, ImageURL: &url}
}

func personalizationSection(profile models.BodyProfile) string {
	var b strings.Builder
	b.WriteString("\nUSER PERSONALIZATION (CRITICAL - Apply to ALL outfits):\n")
	if profile.BodyShape != "" {
		fmt.Fprintf(&b, "- Body Shape: %s - %s\n", profile.BodyShape, bodyShapeGuideline(profile.BodyShape))
	}
	if profile.Undertone != "" {
		fmt.Fprintf(&b, "- Skin Undertone: %s - %s\n", profile.Undertone, undertoneGuideline(profile.Undertone))
	}
	fmt.Fprintf(&b, "- Height: %s - Choose proportions and lengths that flatter this height\n", heightString(profile))
	b.WriteString("- All styling choices must consider these physical characteristics for maximum flattery\n")
	return b.String()
}

func descriptionSection(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}
	return fmt.Sprintf("\nADDITIONAL STYLING REQUIREMENTS:\n- %s\n- Incorporate these specific preferences while maintaining occasion appropriateness\n", description)
}

func outfitStructureSection(occasion string) string {
	if isEthnicOccasion(occasion) {
		return `
**For Indian Festive/Traditional Occasions:**
- Include EXACTLY ONE complete ethnic outfit with:
  - One main garment: Saree with blouse, Lehenga choli, Anarkali suit, Sharara set, Palazzo suit, Indo-western fusion wear, or Churidar kurta set
  - Traditional footwear: Juttis, kolhapuris, wedges, or embellished heels
  - 2-4 traditional accessories: Statement jewelry, potli bag or clutch, dupatta if applicable, maang tikka, or traditional hair accessories
- Focus on rich fabrics: silk, brocade, chiffon, georgette, velvet, or cotton with traditional prints
- Incorporate traditional Indian colors: deep jewel tones, metallics, vibrant festival colors, or elegant pastels
- Ensure proper draping and fit for traditional garments
`
	}
	return `
**For Contemporary/Western Occasions:**
- Include EXACTLY ONE complete outfit with:
  - One topwear (shirt, blouse, t-shirt, sweater, etc.)
  - One bottomwear (pants, skirt, shorts, etc.) OR a dress (if dress, no separate top/bottom needed)
  - One pair of shoes
  - 2-3 accessories (bag, hat, jewelry, belt, scarf - choose what fits the occasion)
`
}

func suggestionPrompt(occasion, description string, profile models.BodyProfile, index, total int) string {
	return fmt.Sprintf(`ROLE: You are a professional fashion stylist creating complete, full-body styled outfits for a personalized fashion editorial campaign, with expertise in both contemporary and traditional Indian ethnic wear.

OBJECTIVE:
Design one distinct cohesive outfit (look %d of %d) perfect for a **%s** setting, specifically tailored for the user's body characteristics.
%s%s
OUTFIT STRUCTURE:%s
STYLING FOCUS:
- The outfit must be appropriate and stylish for **%s**
- %s
- All silhouettes and fits must be optimized for the user's body shape and coloring

MODEL APPEARANCE REQUIREMENTS:
- Generate a photorealistic female model representing the user's height, body shape, and undertone
- Model should have a natural, approachable appearance

VISUAL OUTPUT FORMAT:
- FULL-SIZE, HIGH-RESOLUTION full-body fashion editorial image, head to toe
- Professional editorial photography look with studio-quality lighting
- Clean and neutral background (white, cream, or subtle gradient)
- No text overlays or descriptions on the image

Generate exactly one complete outfit look.`,
		index, total, occasion,
		descriptionSection(description), personalizationSection(profile),
		outfitStructureSection(occasion),
		occasion, occasionGuideline(occasion))
}

func wardrobePrompt(occasion, description string, profile models.BodyProfile) string {
	return fmt.Sprintf(`ROLE: You are a professional fashion stylist and AI image generator specializing in both contemporary and traditional Indian fashion, creating personalized styled outfit visualizations.

OBJECTIVE:
Create a complete, professionally styled outfit for a **%s** occasion, featuring the clothing item shown in the provided image as the main piece.
%s%s
STYLING REQUIREMENTS:
- Use the provided clothing item as the CENTRAL piece of the outfit
- Complete the look with complementary pieces based on garment type (if it's a top, add bottom; if it's a bottom, add top; if it's a dress, minimal layering only)
- Include suitable footwear and 2-3 accessories that enhance the overall look
- Ensure the entire outfit is perfect and appropriate for **%s**
- %s

VISUAL OUTPUT REQUIREMENTS:
- Generate a realistic female model matching the user's body shape and height proportions
- FULL-SIZE, COMPLETE OUTFIT VISUALIZATION from head to toe
- Full-body shot with clean, neutral background
- High-quality fashion photography style with professional lighting`,
		occasion,
		personalizationSection(profile), descriptionSection(description),
		occasion, occasionGuideline(occasion))
}

func composePrompt(occasion, description string, profile models.BodyProfile, has [4]bool) string {
	var items strings.Builder
	items.WriteString("OUTFIT COMPOSITION:\n")
	for i, label := range SlotLabels {
		if has[i] {
			fmt.Fprintf(&items, "- %s: USE the exact %s shown in the reference image - match its style, color, and design precisely\n", label, strings.ToLower(label))
		} else {
			fmt.Fprintf(&items, "- %s: GENERATE appropriate %s for %s that complements the provided items\n", label, strings.ToLower(label), occasion)
		}
	}

	return fmt.Sprintf(`You are an expert fashion stylist AI and professional image generator specializing in creating sophisticated, occasion-appropriate outfits with realistic model representation.

Generate a high-quality, full-body image of a female model styled for: %s.
%s
%s%s
CRITICAL INSTRUCTIONS:
- For items with reference images: REPLICATE them exactly as shown (colors, patterns, style, fit)
- For missing items: CREATE complementary pieces that work harmoniously with the provided items
- Ensure all generated items are appropriate for the specified occasion: %s
- Maintain color coordination and style consistency across all items

VISUAL SPECIFICATIONS:
- Generate a realistic female model matching the user's body shape and height proportions
- Model pose: confident, natural stance that showcases the outfit
- Background: clean, minimalist backdrop in neutral tones
- Lighting: professional studio lighting with soft shadows
- Image quality: high-resolution, sharp focus on clothing details`,
		occasion,
		personalizationSection(profile),
		items.String(), descriptionSection(description),
		occasion)
}
