package security

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
)

// GenerateNumericCode returns a zero padded random decimal code, used for the
// verification tokens users type in after receiving an email.
func GenerateNumericCode(digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", fmt.Errorf("digits must be between 1 and 18")
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}

// CodesEqual compares two codes in constant time, ignoring surrounding space.
func CodesEqual(expected, provided string) bool {
	a := []byte(strings.TrimSpace(expected))
	b := []byte(strings.TrimSpace(provided))
	return subtle.ConstantTimeCompare(a, b) == 1
}
