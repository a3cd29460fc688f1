package domain

import (
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims the raw clinic name and collapses internal whitespace
// runs to a single space. The result is the identity key for clinic_id
// resolution, so this exact function must be applied everywhere a name enters
// the system; any inconsistency corrupts identity matching.
//
// Names are also NFC-composed: Korean input sometimes arrives decomposed
// (Jamo sequences) depending on the spreadsheet's origin, and the two forms
// must resolve to the same key.
func NormalizeName(raw string) string {
	composed := norm.NFC.String(raw)
	return strings.Join(strings.Fields(composed), " ")
}

// SlugName converts a clinic name into a stable ASCII slug for file and
// directory names (delivery packages, outbox ZIPs). Falls back to "clinic"
// for names with no transliterable characters.
func SlugName(name string) string {
	const maxLen = 40
	s := slug.Make(name)
	if len(s) > maxLen {
		s = strings.Trim(s[:maxLen], "-")
	}
	if s == "" {
		return "clinic"
	}
	return s
}
