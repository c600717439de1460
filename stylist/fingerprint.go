package stylist

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Fingerprint returns the hex SHA-256 digest of image bytes. The
// digest is what enforces per-user wardrobe de-duplication.
func Fingerprint(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image data")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
