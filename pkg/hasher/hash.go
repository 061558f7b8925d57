package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex-encoded SHA-256 of s. Used for storing refresh token
// fingerprints server-side instead of the tokens themselves.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Verify compares s against a previously computed Hash value.
func Verify(s, hash string) bool {
	return Hash(s) == hash
}
