package stylist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeImagesNoInputs(t *testing.T) {
	model := &fakeModel{}
	s := newTestStylist(model, newFakeStore(), time.Unix(0, 0))

	analysis, err := s.AnalyzeImages(context.Background(), nil, nil, "party")
	require.NoError(t, err)
	require.NotNil(t, analysis)

	assert.Empty(t, analysis.GoodImageWithDescription)
	assert.Empty(t, analysis.BadImageWithDescription)
	assert.Empty(t, analysis.GoodImagesKeywords)
	assert.Empty(t, analysis.BadImagesKeywords)
	// Nothing to review means no model call at all.
	assert.Zero(t, model.calls)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, StripCodeFences("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, StripCodeFences("```\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, StripCodeFences(`{"a": 1}`))
	assert.Equal(t, "", StripCodeFences("  \n"))
}
