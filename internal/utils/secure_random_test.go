package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var controlNumberPattern = regexp.MustCompile(`^DV-2025-[A-Z0-9]{6}$`)

func TestGenerateControlNumber(t *testing.T) {
	now := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		cn, err := GenerateControlNumber(now)
		require.NoError(t, err)
		assert.Regexp(t, controlNumberPattern, cn)
		seen[cn] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestGenerateSecureRandomString_Errors(t *testing.T) {
	_, err := GenerateSecureRandomString(0, "AB")
	assert.Error(t, err)
	_, err = GenerateSecureRandomString(4, "")
	assert.Error(t, err)

	s, err := GenerateSecureRandomString(8, "X")
	require.NoError(t, err)
	assert.Equal(t, "XXXXXXXX", s)
}
