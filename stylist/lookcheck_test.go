package stylist

import (
	"context"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFullBody(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse("```json\n{ \"isFullBody\": true}\n```"),
	}}
	s := newTestStylist(model, newFakeStore(), time.Unix(0, 0))

	ok, err := s.CheckFullBody(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{VisionModel}, model.models)
}

func TestCheckFullBodyFalse(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse(`{"isFullBody": false}`),
	}}
	s := newTestStylist(model, newFakeStore(), time.Unix(0, 0))

	ok, err := s.CheckFullBody(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckFullBodyBadResponse(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse("the image shows a full body"),
	}}
	s := newTestStylist(model, newFakeStore(), time.Unix(0, 0))

	_, err := s.CheckFullBody(context.Background(), []byte("img"))
	assert.Error(t, err)
}

func TestClassifyLook(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse("```json\n{\"containsFashionItem\": true, \"containsFullBodyHuman\": true, \"generatedTitle\": \"Red Festive Saree\"}\n```"),
	}}
	s := newTestStylist(model, newFakeStore(), time.Unix(0, 0))

	check := s.ClassifyLook(context.Background(), []byte("img"), "red saree")
	assert.True(t, check.FashionItem)
	assert.True(t, check.FullBody)
	assert.Equal(t, "Red Festive Saree", check.Title)
	assert.Equal(t, []string{ReasoningModel}, model.models)
}

func TestClassifyLookNoFullBody(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse(`{"containsFashionItem": true, "containsFullBodyHuman": false, "generatedTitle": null}`),
	}}
	s := newTestStylist(model, newFakeStore(), time.Unix(0, 0))

	check := s.ClassifyLook(context.Background(), []byte("img"), "")
	assert.True(t, check.FashionItem)
	assert.False(t, check.FullBody)
	assert.Empty(t, check.Title)
}

func TestClassifyLookDefaultsOnGarbage(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse("a lovely outfit indeed"),
	}}
	s := newTestStylist(model, newFakeStore(), time.Unix(0, 0))

	// Unparseable output reads as "nothing recognized", not an error.
	assert.Equal(t, LookCheck{}, s.ClassifyLook(context.Background(), []byte("img"), ""))
}

func TestClassifyLookDefaultsOnModelError(t *testing.T) {
	model := &fakeModel{errs: []error{assert.AnError}}
	s := newTestStylist(model, newFakeStore(), time.Unix(0, 0))

	assert.Equal(t, LookCheck{}, s.ClassifyLook(context.Background(), []byte("img"), ""))
}
