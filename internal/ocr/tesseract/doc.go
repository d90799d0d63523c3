// Package tesseract implements a local OCR engine using Tesseract through
// gosseract. The binding needs cgo and libtesseract, so it is only compiled
// with the "tesseract" build tag; other builds get a stub whose New reports
// ErrUnavailable.
package tesseract

import "errors"

// ErrUnavailable is returned when the binary was built without Tesseract
var ErrUnavailable = errors.New("tesseract support not compiled in (rebuild with -tags tesseract)")
