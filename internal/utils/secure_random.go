package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const controlNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ControlNumberSuffixLength is the number of random characters after the year.
const ControlNumberSuffixLength = 6

// GenerateSecureRandomString returns length characters drawn uniformly from alphabet
// using a cryptographically secure source.
func GenerateSecureRandomString(length int, alphabet string) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	if alphabet == "" {
		return "", fmt.Errorf("alphabet must not be empty")
	}
	limit := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}

// GenerateControlNumber returns a voucher control number of the form DV-<year>-XXXXXX.
func GenerateControlNumber(now time.Time) (string, error) {
	suffix, err := GenerateSecureRandomString(ControlNumberSuffixLength, controlNumberAlphabet)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("DV-%d-%s", now.Year(), suffix), nil
}
