package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the SHA256 hash of data as a hex string.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
