package revocation

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken hashes a token value before it is used as a store key. Keys stay
// a fixed, short length and a leaked store never exposes raw tokens.
func HashToken(tokenValue string) string {
	sum := sha256.Sum256([]byte(tokenValue))
	return hex.EncodeToString(sum[:])
}
