package stylist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterministic(t *testing.T) {
	a, err := Fingerprint([]byte("image-bytes"))
	require.NoError(t, err)
	b, err := Fingerprint([]byte("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprintDistinct(t *testing.T) {
	a, err := Fingerprint([]byte("one"))
	require.NoError(t, err)
	b, err := Fingerprint([]byte("two"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestFingerprintEmpty(t *testing.T) {
	_, err := Fingerprint(nil)
	assert.Error(t, err)
	_, err = Fingerprint([]byte{})
	assert.Error(t, err)
}
