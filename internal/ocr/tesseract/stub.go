//go:build !tesseract

package tesseract

import (
	"context"

	"github.com/vburojevic/platescan/internal/ocr"
)

// Engine is a placeholder in builds without Tesseract
type Engine struct{}

// Available reports whether this build carries the Tesseract binding
func Available() bool { return false }

// New always fails in builds without Tesseract
func New(languages []string) (*Engine, error) {
	return nil, ErrUnavailable
}

// Name returns the engine name
func (e *Engine) Name() string { return "tesseract" }

// Recognize always fails in builds without Tesseract
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	return ocr.Result{}, ErrUnavailable
}
