package domain

import (
	"fmt"
	"strings"
)

// ReadingKind identifies what a captured image shows
type ReadingKind string

const (
	ReadingPlate    ReadingKind = "plate"
	ReadingOdometer ReadingKind = "odometer"
)

// ParseReadingKind converts a string to ReadingKind.
// The Spanish names used by the first front-end are accepted as aliases.
func ParseReadingKind(s string) (ReadingKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plate", "matricula", "matrícula":
		return ReadingPlate, nil
	case "odometer", "cuentakilometros", "cuentakilómetros", "km":
		return ReadingOdometer, nil
	default:
		return "", fmt.Errorf("unknown reading kind %q (want plate or odometer)", s)
	}
}

// String returns the kind name
func (k ReadingKind) String() string { return string(k) }

// Label returns a human-readable label
func (k ReadingKind) Label() string {
	switch k {
	case ReadingPlate:
		return "license plate"
	case ReadingOdometer:
		return "odometer"
	default:
		return string(k)
	}
}
