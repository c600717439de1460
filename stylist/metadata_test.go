package stylist

import (
	"context"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metadataResponse = "```json\n" + `[
  {
    "itemName": "  Floral Midi Dress ",
    "category": "Dresses",
    "color": {"name": "Coral", "hex": "#FF6F61"},
    "fabric": "Chiffon",
    "occasion": ["Party", "Brunch", "Date", "Vacation"],
    "season": ["Summer", "Spring", "Autumn"]
  },
  {
    "itemName": "",
    "category": "Tops",
    "color": {"name": "White", "hex": "#FFFFFF"},
    "fabric": "Cotton",
    "occasion": [],
    "season": []
  }
]` + "\n```"

func TestExtractGarmentMetadata(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse(metadataResponse),
	}}
	s := newTestStylist(model, newFakeStore(), time.Unix(0, 0))

	garments, err := s.ExtractGarmentMetadata(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	// The nameless second item is dropped.
	require.Len(t, garments, 1)

	g := garments[0]
	assert.Equal(t, "Floral Midi Dress", g.ItemName)
	assert.Equal(t, "Dresses", g.Category)
	assert.Equal(t, "#FF6F61", g.Color.Hex)
	assert.Len(t, g.Occasion, 3)
	assert.Len(t, g.Season, 2)
}

func TestExtractGarmentMetadataAllInvalid(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse(`[{"itemName": "Top", "category": "Tops", "color": {"name": "Red", "hex": "red"}, "fabric": "Cotton"}]`),
	}}
	s := newTestStylist(model, newFakeStore(), time.Unix(0, 0))

	_, err := s.ExtractGarmentMetadata(context.Background(), []byte("img"), "image/png")
	assert.Error(t, err)
}

func TestExtractGarmentMetadataEmptyResponse(t *testing.T) {
	model := &fakeModel{}
	s := newTestStylist(model, newFakeStore(), time.Unix(0, 0))

	_, err := s.ExtractGarmentMetadata(context.Background(), []byte("img"), "image/jpeg")
	assert.Error(t, err)
}
