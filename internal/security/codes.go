package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateHandoffCode returns a random 6-digit numeric code. The codes are
// opaque shared secrets exchanged out-of-band at pickup/return; nothing in
// this service validates them beyond their format.
func GenerateHandoffCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate handoff code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
