package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveHeight(t *testing.T) {
	assert.Equal(t, Height{Feet: 5, Inches: 4}, BodyProfile{}.EffectiveHeight())
	assert.Equal(t, Height{Feet: 5, Inches: 9},
		BodyProfile{Height: Height{Feet: 5, Inches: 9}}.EffectiveHeight())
	assert.Equal(t, Height{Feet: 6},
		BodyProfile{Height: Height{Feet: 6}}.EffectiveHeight())
}

func TestHeightIsZero(t *testing.T) {
	assert.True(t, Height{}.IsZero())
	assert.False(t, Height{Feet: 5}.IsZero())
	assert.False(t, Height{Inches: 3}.IsZero())
}

func TestValidBodyShape(t *testing.T) {
	assert.True(t, ValidBodyShape("pear"))
	assert.True(t, ValidBodyShape("inverted triangle"))
	assert.False(t, ValidBodyShape("Pear"))
	assert.False(t, ValidBodyShape(""))
}

func TestValidUndertone(t *testing.T) {
	assert.True(t, ValidUndertone("neutral"))
	assert.False(t, ValidUndertone("Neutral"))
}
