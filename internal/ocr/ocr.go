// Package ocr turns a captured plate or odometer image into cleaned text.
//
// Recognition itself is delegated to pluggable engines (Gemini, OCR.space,
// Tesseract). A Processor tries them in configured order and applies the
// kind-specific cleanup to whatever comes back.
package ocr

import (
	"context"

	"github.com/vburojevic/platescan/internal/domain"
)

// NotDetected is the sentinel the prompts ask engines to answer with when
// nothing readable is in frame.
const NotDetected = "NOT_DETECTED"

// Input is a single image submitted for recognition
type Input struct {
	Kind     domain.ReadingKind
	Image    []byte
	MIMEType string
}

// Result is the raw, uncleaned answer of an engine
type Result struct {
	Text       string
	Confidence float64
	Engine     string
}

// Engine is a text-recognition backend: one image in, one result out
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}
