package ocr

import (
	"regexp"
	"strings"

	"github.com/vburojevic/platescan/internal/domain"
)

var (
	nonPlateChars = regexp.MustCompile(`[^A-Z0-9]`)
	nonDigits     = regexp.MustCompile(`[^0-9]`)
)

// Plate length bounds; covers the usual European formats
const (
	minPlateLen = 4
	maxPlateLen = 10
	// odometers above 999999 km are treated as misreads
	maxOdometerDigits = 6
)

// CleanPlate uppercases and strips everything but A-Z and 0-9.
// Returns "" when the result is not 4 to 10 characters long.
func CleanPlate(s string) string {
	s = nonPlateChars.ReplaceAllString(strings.ToUpper(s), "")
	if len(s) < minPlateLen || len(s) > maxPlateLen {
		return ""
	}
	return s
}

// CleanOdometer keeps digits only and drops leading zeros, leaving at least
// one digit. Returns "" when no digits remain or there are more than six.
func CleanOdometer(s string) string {
	s = nonDigits.ReplaceAllString(s, "")
	if s == "" || len(s) > maxOdometerDigits {
		return ""
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}

// Clean applies the cleanup matching kind
func Clean(kind domain.ReadingKind, s string) string {
	if kind == domain.ReadingPlate {
		return CleanPlate(s)
	}
	return CleanOdometer(s)
}
