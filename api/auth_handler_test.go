package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecoveryCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := generateRecoveryCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, ch := range code {
			assert.True(t, ch >= '0' && ch <= '9', "code %q has non-digit %q", code, ch)
		}
		seen[code] = true
	}
	// 50 draws from a million codes should not all collide.
	assert.Greater(t, len(seen), 1)
}
