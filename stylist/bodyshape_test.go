package stylist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBodyShape(t *testing.T) {
	assert.Equal(t, "inverted triangle", NormalizeBodyShape("Inverted Triangle"))
	assert.Equal(t, "inverted triangle", NormalizeBodyShape("triangle-ish"))
	assert.Equal(t, "pear", NormalizeBodyShape(" Pear "))
	assert.Equal(t, "hourglass", NormalizeBodyShape("hourglass"))
	assert.Equal(t, "", NormalizeBodyShape("banana"))
	assert.Equal(t, "", NormalizeBodyShape(""))
}

func TestNormalizeUndertone(t *testing.T) {
	assert.Equal(t, "warm", NormalizeUndertone("Warm"))
	assert.Equal(t, "cool", NormalizeUndertone(" cool "))
	assert.Equal(t, "neutral", NormalizeUndertone("neutral"))
	assert.Equal(t, "", NormalizeUndertone("olive"))
}
