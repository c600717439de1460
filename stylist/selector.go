package stylist

import (
	"time"

	"github.com/zuriwear/zuri-backend/models"
)

// FilterByOccasion returns the garments whose occasion tags contain
// the requested occasion. The match is a case-sensitive exact match.
func FilterByOccasion(items []models.GarmentRef, occasion string) []models.GarmentRef {
	if occasion == "" {
		return nil
	}
	var matched []models.GarmentRef
	for _, item := range items {
		for _, tag := range item.Occasion {
			if tag == occasion {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}

// SelectWardrobeItem picks one garment from the matches. A single
// match is returned directly; multiple matches rotate on the current
// epoch second, so repeated calls within one second pick the same
// item. now is injected so the rotation is testable.
func SelectWardrobeItem(matches []models.GarmentRef, now func() time.Time) *models.GarmentRef {
	if len(matches) == 0 {
		return nil
	}
	if len(matches) == 1 {
		return &matches[0]
	}
	index := int(now().Unix() % int64(len(matches)))
	return &matches[index]
}
