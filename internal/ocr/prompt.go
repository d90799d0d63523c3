package ocr

import "github.com/vburojevic/platescan/internal/domain"

const platePrompt = `Analyze this image of a European vehicle license plate.
Extract ONLY the characters of the plate (letters and digits).
Answer with the characters only, without spaces or dashes.
If no clear license plate is visible, answer 'NOT_DETECTED'.`

const odometerPrompt = `Analyze this image of a vehicle odometer.
Extract ONLY the digits of the main odometer (total kilometers).
Ignore any other number (speed, rpm, fuel, trip meters, etc.).
Answer with the digits only, without spaces, dots or commas.
If no clear odometer digits are visible, answer 'NOT_DETECTED'.`

// Prompt returns the fixed instruction sent to language-model engines
func Prompt(kind domain.ReadingKind) string {
	if kind == domain.ReadingPlate {
		return platePrompt
	}
	return odometerPrompt
}

// Whitelist returns the characters a classic OCR engine should restrict
// itself to for the given kind.
func Whitelist(kind domain.ReadingKind) string {
	if kind == domain.ReadingPlate {
		return "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	}
	return "0123456789"
}
