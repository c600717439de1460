package stylist

import (
	"context"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zuriwear/zuri-backend/models"
)

func slotImages(keys ...string) [4]SlotImage {
	var images [4]SlotImage
	for i, key := range keys {
		if key == "" {
			continue
		}
		images[i] = SlotImage{Data: []byte("img-" + key), Key: key}
	}
	return images
}

func TestValidateOutfitInvalidItems(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse("❌ INVALID FASHION ITEMS: [Topwear, Accessory]"),
	}}
	store := newFakeStore()
	s := newTestStylist(model, store, time.Unix(0, 0))

	images := slotImages("up/top", "up/bottom")
	result, err := s.ValidateOutfit(context.Background(), images, "party", models.BodyProfile{})
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Contains(t, result.InvalidItemsMessage, "Topwear, Accessory")
	// Every uploaded key is deleted exactly once.
	assert.ElementsMatch(t, []string{"up/top", "up/bottom"}, store.deletes)
}

func TestValidateOutfitPerfectMatchWithoutJSON(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse("Great outfit for the party. ✅ Perfect Match"),
	}}
	store := newFakeStore()
	s := newTestStylist(model, store, time.Unix(0, 0))

	images := slotImages("up/top", "up/bottom")
	result, err := s.ValidateOutfit(context.Background(), images, "party", models.BodyProfile{})
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.True(t, result.PerfectMatch)
	assert.Empty(t, result.BadSlotIndices)
	assert.Empty(t, store.deletes)

	require.Len(t, result.Suitability, 2)
	for _, label := range []string{"Topwear", "Bottomwear"} {
		d, ok := result.Suitability[label]
		require.True(t, ok, label)
		assert.Equal(t, "suitable", d.Status)
		assert.Equal(t, "Perfect match for the occasion and your profile", d.Reasoning)
	}
}

func TestValidateOutfitPerSlotVerdicts(t *testing.T) {
	critique := `The top works well but the bottom clashes. ❌ Not Suitable
{"Topwear": {"status": "suitable", "reasoning": "flatters the shape"}, "Bottomwear": {"status": "not suitable", "reasoning": "wrong formality"}}`
	model := &fakeModel{responses: []*genai.GenerateContentResponse{textResponse(critique)}}
	store := newFakeStore()
	s := newTestStylist(model, store, time.Unix(0, 0))

	images := slotImages("up/top", "up/bottom")
	result, err := s.ValidateOutfit(context.Background(), images, "work", models.BodyProfile{})
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.False(t, result.PerfectMatch)
	assert.Equal(t, []int{1}, result.BadSlotIndices)
	assert.Equal(t, []string{"up/bottom"}, result.BadImageKeys)
	assert.Empty(t, store.deletes)
}

func TestValidateOutfitNoJSONNotPerfect(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse("The colors fight each other. ❌ Not Suitable"),
	}}
	store := newFakeStore()
	s := newTestStylist(model, store, time.Unix(0, 0))

	images := slotImages("up/top", "", "up/acc")
	result, err := s.ValidateOutfit(context.Background(), images, "date night", models.BodyProfile{})
	require.NoError(t, err)

	assert.True(t, result.Valid)
	// All provided slots are conservatively marked bad.
	assert.Equal(t, []int{0, 2}, result.BadSlotIndices)
	assert.Equal(t, []string{"up/top", "up/acc"}, result.BadImageKeys)
}

func TestExtractBalancedJSON(t *testing.T) {
	block, found := ExtractBalancedJSON(`critique text {"a": {"b": 1}, "c": [2]} trailing`)
	require.True(t, found)
	assert.Equal(t, `{"a": {"b": 1}, "c": [2]}`, block)

	_, found = ExtractBalancedJSON("no json here")
	assert.False(t, found)

	_, found = ExtractBalancedJSON(`{"unclosed": {"inner": 1}`)
	assert.False(t, found)
}
