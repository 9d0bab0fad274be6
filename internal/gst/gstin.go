package gst

import (
	"regexp"
	"strings"
)

var gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// NormalizeGSTIN trims and upper-cases a GSTIN as printed on vouchers.
func NormalizeGSTIN(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidGSTIN checks the 15-character structure and that the leading two
// digits are a known state code.
func ValidGSTIN(gstin string) bool {
	gstin = NormalizeGSTIN(gstin)
	if !gstinPattern.MatchString(gstin) {
		return false
	}
	_, ok := stateCodes[gstin[:2]]
	return ok
}

// GSTINStateCode returns the state code embedded in a GSTIN.
func GSTINStateCode(gstin string) (string, bool) {
	gstin = NormalizeGSTIN(gstin)
	if len(gstin) < 2 {
		return "", false
	}
	if _, ok := stateCodes[gstin[:2]]; !ok {
		return "", false
	}
	return gstin[:2], true
}
