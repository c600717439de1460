package stylist

import (
	"context"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zuriwear/zuri-backend/models"
)

// stageModel answers each call based on which stage's prompt it sees,
// recording the stage order. Calls whose prompt contains failOn error.
type stageModel struct {
	mu       sync.Mutex
	tags     []string
	validate string
	analysis string
	failOn   string
}

func (m *stageModel) Generate(ctx context.Context, model string, cfg *GenConfig, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	var prompt strings.Builder
	for _, p := range parts {
		if t, ok := p.(genai.Text); ok {
			prompt.WriteString(string(t))
		}
	}
	text := prompt.String()

	tag := "other"
	switch {
	case strings.Contains(text, "image validation assistant"):
		tag = "validate"
	case strings.Contains(text, "CENTRAL piece"):
		tag = "wardrobe"
	case strings.Contains(text, "OUTFIT COMPOSITION"):
		tag = "compose"
	case strings.Contains(text, "fashion editorial campaign"):
		tag = "suggest"
	case strings.Contains(text, "IMAGE ORDER EXPLANATION"):
		tag = "analyze"
	}
	m.mu.Lock()
	m.tags = append(m.tags, tag)
	m.mu.Unlock()

	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return nil, errors.New("model unavailable")
	}
	switch tag {
	case "validate":
		return textResponse(m.validate), nil
	case "analyze":
		return textResponse(m.analysis), nil
	default:
		return imageResponse([]byte("png-bytes")), nil
	}
}

func (m *stageModel) Close() error { return nil }

func imageResponse(data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png", Data: data}}},
		}},
	}
}

// hostedStore presigns against a reachable test server so the analyzer
// can fetch what the earlier stages stored.
type hostedStore struct {
	fakeStore
	base string
}

func newHostedStore(base string) *hostedStore {
	return &hostedStore{fakeStore: fakeStore{uploads: make(map[string][]byte)}, base: base}
}

func (h *hostedStore) PresignURL(ctx context.Context, objectKey string) (string, error) {
	return h.base + "/" + objectKey, nil
}

const perfectValidation = `Great pairing for the occasion. ✅ Perfect Match
{"Topwear": {"status": "suitable", "reasoning": "Works well"}}`

const threeLookAnalysis = "```json\n" + `{
  "goodImageWithDescription": [
    {"image": "stale-url", "description": "First look"},
    {"image": "stale-url", "description": "Second look"},
    {"image": "stale-url", "description": "Third look"}
  ],
  "badImageWithDescription": [],
  "goodImagesKeywords": ["midi dress", "block heels"],
  "badImagesKeywords": []
}` + "\n```"

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("img"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRecommendStageOrder(t *testing.T) {
	srv := imageServer(t)
	model := &stageModel{validate: perfectValidation, analysis: threeLookAnalysis}
	store := newHostedStore(srv.URL)
	s := newTestStylist(model, store, time.Unix(100, 0))

	var images [4]SlotImage
	images[0] = SlotImage{Data: solidJPEG(t, 40, 40, color.RGBA{R: 255, A: 255}), Key: "slots/top"}

	resp, err := s.Recommend(context.Background(), RecommendRequest{
		UserID:   "u1",
		Occasion: "brunch",
		Images:   images,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"validate", "compose", "suggest", "suggest", "analyze"}, model.tags)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, SourceComposed, resp.Results[0].Source)
	assert.Equal(t, SourceGenerated, resp.Results[1].Source)
	assert.Equal(t, SourceGenerated, resp.Results[2].Source)
	assert.True(t, resp.PerfectMatch)

	require.NotNil(t, resp.ImageAnalysis)
	require.Len(t, resp.ImageAnalysis.GoodImageWithDescription, 3)
	// Echoed URLs are remapped to the ones actually attached.
	assert.Equal(t, *resp.Results[0].ImageURL, resp.ImageAnalysis.GoodImageWithDescription[0].Image)
}

func TestRecommendForOccasionGeneratesThree(t *testing.T) {
	model := &fakeModel{}
	s := newTestStylist(model, newFakeStore(), time.Unix(100, 0))

	resp, err := s.RecommendForOccasion(context.Background(), RecommendRequest{Occasion: "party"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)

	// An empty wardrobe means three fresh generations, nothing else.
	assert.Equal(t, 3, model.calls)
	assert.Equal(t, []string{ImageGenModel, ImageGenModel, ImageGenModel}, model.models)
}

func TestRecommendForOccasionWardrobeContribution(t *testing.T) {
	srv := imageServer(t)
	model := &stageModel{analysis: threeLookAnalysis}
	store := newHostedStore(srv.URL)
	s := newTestStylist(model, store, time.Unix(100, 0))

	items := []models.GarmentRef{{
		ItemName: "Silk Saree",
		Occasion: []string{"party"},
		ImageURL: srv.URL + "/wardrobe/u1/a",
	}}
	resp, err := s.RecommendForOccasion(context.Background(), RecommendRequest{
		UserID:        "u1",
		Occasion:      "party",
		WardrobeItems: items,
	})
	require.NoError(t, err)

	// A wardrobe contribution drops the fresh generations to two.
	assert.Equal(t, []string{"wardrobe", "suggest", "suggest", "analyze"}, model.tags)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, SourceWardrobe, resp.Results[0].Source)
}

func TestGenerateSuggestionsIsolatesFailures(t *testing.T) {
	model := &stageModel{failOn: "look 2 of 3"}
	store := newFakeStore()
	s := newTestStylist(model, store, time.Unix(0, 0))

	results := s.GenerateSuggestions(context.Background(), "party", 3, "", models.BodyProfile{}, "u1")

	require.Len(t, results, 3)
	assert.NotNil(t, results[0].ImageURL)
	assert.Nil(t, results[1].ImageURL)
	assert.NotNil(t, results[2].ImageURL)
	assert.Len(t, store.uploads, 2)
}
