package stylist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Model names for the three kinds of calls the pipeline makes.
const (
	ReasoningModel = "gemini-2.0-flash-thinking-exp"
	ImageGenModel  = "gemini-2.0-flash-preview-image-generation"
	VisionModel    = "gemini-2.0-flash-exp"
)

// Per-call timeout for AI provider requests. The upstream has no
// latency bound of its own, so every call gets one here.
const modelCallTimeout = 120 * time.Second

// GenConfig carries the generation parameters a stage wants to apply.
// Zero-valued fields are left at the model's defaults.
type GenConfig struct {
	Temperature float32
	TopP        float32
	TopK        int32
}

// ModelClient is the single seam between the pipeline and the AI
// provider. Handlers construct one GeminiClient at startup; tests
// substitute a scripted implementation.
type ModelClient interface {
	Generate(ctx context.Context, model string, cfg *GenConfig, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	Close() error
}

// GeminiClient wraps the genai SDK client.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates the provider client. Called once at process
// start; the client is shared across requests.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}
	return &GeminiClient{client: client}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, model string, cfg *GenConfig, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, modelCallTimeout)
	defer cancel()

	m := g.client.GenerativeModel(model)
	if cfg != nil {
		if cfg.Temperature > 0 {
			m.SetTemperature(cfg.Temperature)
		}
		if cfg.TopP > 0 {
			m.SetTopP(cfg.TopP)
		}
		if cfg.TopK > 0 {
			m.SetTopK(cfg.TopK)
		}
	}
	return m.GenerateContent(ctx, parts...)
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// ImageStore abstracts the hosted image storage the pipeline reads
// from and writes to.
type ImageStore interface {
	UploadBytes(ctx context.Context, data []byte, objectKey, contentType string) (string, error)
	Delete(ctx context.Context, objectKey string) error
	PresignURL(ctx context.Context, objectKey string) (string, error)
}

// FetchImage downloads image bytes from a public or presigned URL.
func FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image, status: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// firstText returns the concatenated text parts of the first candidate.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			out += string(t)
		}
	}
	return out
}

// firstImage returns the first inline image payload of the first
// candidate, or nil if the model produced no image.
func firstImage(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
			return blob.Data
		}
	}
	return nil
}
