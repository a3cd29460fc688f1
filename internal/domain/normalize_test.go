package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"trims edges", "  서울치과  ", "서울치과"},
		{"collapses internal runs", "서울  치과\t의원", "서울 치과 의원"},
		{"collapses newlines", "서울\n치과", "서울 치과"},
		{"empty stays empty", "   ", ""},
		{"single space preserved", "A B", "A B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, NormalizeName(tt.raw))
		})
	}
}

func TestNormalizeNameComposesNFC(t *testing.T) {
	composed := "\ud55c\uc0b4\ub9bc\uce58\uacfc"
	decomposed := "\u1112\u1161\u11ab\uc0b4\ub9bc\uce58\uacfc"
	require.NotEqual(t, composed, decomposed)
	require.Equal(t, NormalizeName(composed), NormalizeName(decomposed))
}

func TestSlugName(t *testing.T) {
	require.Equal(t, "seoul-dental", SlugName("Seoul Dental"))
	require.Equal(t, "clinic", SlugName("★☆★"))
	require.LessOrEqual(t, len(SlugName(strings.Repeat("dental-", 20))), 40)
	require.False(t, strings.HasSuffix(SlugName(strings.Repeat("ab-", 14)), "-"))
}

func TestParseStatus(t *testing.T) {
	for raw, expected := range map[string]Status{
		"ACTIVE":   StatusActive,
		"active":   StatusActive,
		" Active ": StatusActive,
		"INACTIVE": StatusInactive,
		"inactive": StatusInactive,
	} {
		status, ok := ParseStatus(raw)
		require.True(t, ok, "raw=%q", raw)
		require.Equal(t, expected, status)
	}

	for _, raw := range []string{"", "unknown", "ACTIV"} {
		_, ok := ParseStatus(raw)
		require.False(t, ok, "raw=%q", raw)
	}
}
