package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGarmentNormalize(t *testing.T) {
	g := Garment{
		ItemName: "  Silk Saree ",
		Color:    GarmentColor{Name: " Emerald ", Hex: " #0A6847 "},
		Occasion: []string{"Wedding", " ", "Festive", "Party", "Brunch"},
		Season:   []string{"Summer", "Winter", "Monsoon"},
	}
	g.Normalize()

	assert.Equal(t, "Silk Saree", g.ItemName)
	assert.Equal(t, "Emerald", g.Color.Name)
	assert.Equal(t, "#0A6847", g.Color.Hex)
	assert.Equal(t, []string{"Wedding", "Festive", "Party"}, g.Occasion)
	assert.Equal(t, []string{"Summer", "Winter"}, g.Season)
}

func TestGarmentValid(t *testing.T) {
	g := Garment{
		ItemName: "Silk Saree",
		Category: "Ethnic",
		Color:    GarmentColor{Name: "Emerald", Hex: "#0A6847"},
		Fabric:   "Silk",
	}
	assert.True(t, g.Valid())

	bad := g
	bad.Color.Hex = "green"
	assert.False(t, bad.Valid())

	bad = g
	bad.Color.Hex = "#0A68"
	assert.False(t, bad.Valid())

	bad = g
	bad.ItemName = ""
	assert.False(t, bad.Valid())

	bad = g
	bad.Fabric = ""
	assert.False(t, bad.Valid())
}

func TestGarmentValidEnums(t *testing.T) {
	g := Garment{
		ItemName: "Silk Saree",
		Category: "Ethnic",
		Color:    GarmentColor{Name: "Emerald", Hex: "#0A6847"},
		Fabric:   "Silk",
		Season:   []string{"Winter", "All Season"},
	}
	assert.True(t, g.Valid())

	// Values outside the declared enums are rejected, not stored.
	bad := g
	bad.Category = "Hats"
	assert.False(t, bad.Valid())

	bad = g
	bad.Fabric = "Leather"
	assert.False(t, bad.Valid())

	bad = g
	bad.Season = []string{"Summer", "Sprinter"}
	assert.False(t, bad.Valid())

	bad = g
	bad.Category = "ethnic"
	assert.False(t, bad.Valid())
}
