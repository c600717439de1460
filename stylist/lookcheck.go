package stylist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
)

const fullBodyPrompt = `Please analyze the image and tell me if it shows a full-body image of a person. ` +
	`Only return true if the image clearly shows the **entire human body from head to feet**. ` +
	`If the image is of an object, animal, a random photo, or only a partial view of a human, return false. ` +
	`Respond strictly with a JSON object in this format: { "isFullBody": true/false}.`

// CheckFullBody classifies whether an image shows a full-body human
// photo. Backs the standalone check the body-info flow uses before a
// photo analysis.
func (s *Stylist) CheckFullBody(ctx context.Context, imageData []byte) (bool, error) {
	resp, err := s.Model.Generate(ctx, VisionModel, &GenConfig{Temperature: 0.3},
		genai.Text(fullBodyPrompt), genai.ImageData("jpeg", imageData))
	if err != nil {
		return false, fmt.Errorf("full body check call failed: %w", err)
	}

	var result struct {
		IsFullBody bool `json:"isFullBody"`
	}
	text := StripCodeFences(firstText(resp))
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return false, fmt.Errorf("failed to parse full body response: %w", err)
	}
	return result.IsFullBody, nil
}

// LookCheck is the classifier verdict for an uploaded look. FullBody
// gates saving the look; FashionItem gates the wardrobe ingestion side
// effect; Title is a 3-4 word caption derived from the user's query.
type LookCheck struct {
	FashionItem bool   `json:"containsFashionItem"`
	FullBody    bool   `json:"containsFullBodyHuman"`
	Title       string `json:"generatedTitle"`
}

func lookCheckPrompt(userQuery string) string {
	titleGuidance := `Since no user query is provided, create a title that is exactly 3-4 words long based on the main clothing items visible.`
	if userQuery != "" {
		titleGuidance = fmt.Sprintf(`Use the user query "%s" as the primary basis for the title. The title should be exactly 3-4 words long and directly reflect what the user is asking about. Expand or condense the query as needed to make it 3-4 words.`, userQuery)
	}

	return fmt.Sprintf(`You are a professional fashion AI analyst. Analyze this image carefully and provide the following information:

ANALYSIS CRITERIA:
1. Fashion Items: Look for any clothing, footwear, accessories, or fashion-related items (including bags, jewelry, hats, etc.)
2. Full-Body Human: Determine if there's a complete human figure visible from head to toe (or head to feet if wearing shoes)
3. Fashion Title: If a full-body human is present, generate a title based on the user's query

RESPONSE FORMAT:
Respond ONLY with valid JSON. Do not include any markdown formatting, code blocks, or additional text. Return exactly this structure:
{
    "containsFashionItem": boolean,
    "containsFullBodyHuman": boolean,
    "generatedTitle": string or null
}

GUIDELINES:
- Set "containsFashionItem" to true if ANY fashion-related item is visible
- Set "containsFullBodyHuman" to true only if you can see a person's complete silhouette from head to feet
- Only provide "generatedTitle" if "containsFullBodyHuman" is true
- If no full-body human, set "generatedTitle" to null
- %s

IMPORTANT: Your response must be ONLY valid JSON with no additional formatting or text.`, titleGuidance)
}

// ClassifyLook runs the uploaded-look classifier. Any call or parse
// failure returns the zero verdict, so a broken response reads as
// "nothing recognized" and the upload is rejected rather than erroring.
func (s *Stylist) ClassifyLook(ctx context.Context, imageData []byte, userQuery string) LookCheck {
	resp, err := s.Model.Generate(ctx, ReasoningModel, &GenConfig{Temperature: 0.1, TopP: 0.8, TopK: 40},
		genai.Text(lookCheckPrompt(userQuery)), genai.ImageData("jpeg", imageData))
	if err != nil {
		log.Printf("Look classification call failed: %v", err)
		return LookCheck{}
	}

	jsonBlock, found := ExtractBalancedJSON(StripCodeFences(firstText(resp)))
	if !found {
		log.Printf("No JSON object in look classification response")
		return LookCheck{}
	}
	var result LookCheck
	if err := json.Unmarshal([]byte(jsonBlock), &result); err != nil {
		log.Printf("Failed to parse look classification response: %v", err)
		return LookCheck{}
	}
	return result
}
