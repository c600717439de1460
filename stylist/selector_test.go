package stylist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zuriwear/zuri-backend/models"
)

func refsWithOccasions(occasions ...[]string) []models.GarmentRef {
	refs := make([]models.GarmentRef, len(occasions))
	for i, occ := range occasions {
		refs[i] = models.GarmentRef{ItemName: string(rune('a' + i)), Occasion: occ}
	}
	return refs
}

func TestFilterByOccasion(t *testing.T) {
	refs := refsWithOccasions(
		[]string{"party", "work"},
		[]string{"travel"},
		[]string{"party"},
	)

	matched := FilterByOccasion(refs, "party")
	require.Len(t, matched, 2)
	assert.Equal(t, refs[0].ItemName, matched[0].ItemName)
	assert.Equal(t, refs[2].ItemName, matched[1].ItemName)

	assert.Empty(t, FilterByOccasion(refs, "beach"))
	assert.Empty(t, FilterByOccasion(refs, ""))
}

func TestFilterByOccasionCaseSensitive(t *testing.T) {
	refs := refsWithOccasions([]string{"party"})
	assert.Empty(t, FilterByOccasion(refs, "Party"))
	assert.Len(t, FilterByOccasion(refs, "party"), 1)
}

func TestSelectWardrobeItem(t *testing.T) {
	now := func() time.Time { return time.Unix(7, 0) }

	assert.Nil(t, SelectWardrobeItem(nil, now))

	single := refsWithOccasions([]string{"party"})
	got := SelectWardrobeItem(single, now)
	require.NotNil(t, got)
	assert.Equal(t, single[0].ItemName, got.ItemName)

	// 7 % 3 == 1
	many := refsWithOccasions([]string{"party"}, []string{"party"}, []string{"party"})
	got = SelectWardrobeItem(many, now)
	require.NotNil(t, got)
	assert.Equal(t, many[1].ItemName, got.ItemName)
}

func TestSelectWardrobeItemStableWithinSecond(t *testing.T) {
	now := func() time.Time { return time.Unix(100, 500) }
	many := refsWithOccasions([]string{"work"}, []string{"work"}, []string{"work"}, []string{"work"})

	first := SelectWardrobeItem(many, now)
	second := SelectWardrobeItem(many, now)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.ItemName, second.ItemName)
}
