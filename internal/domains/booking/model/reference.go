package model

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewReference returns prefix followed by length random uppercase letters and digits.
func NewReference(prefix string, length int) (string, error) {
	out := make([]byte, length)
	limit := big.NewInt(int64(len(referenceAlphabet)))

	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random reference: %w", err)
		}

		out[i] = referenceAlphabet[n.Int64()]
	}

	return prefix + string(out), nil
}
