//go:build tesseract

package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/vburojevic/platescan/internal/ocr"
)

// Engine runs Tesseract in-process
type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// Available reports whether this build carries the Tesseract binding
func Available() bool { return true }

// New constructs a Tesseract-backed OCR engine
func New(languages []string) (*Engine, error) {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Engine{
		languages:     append([]string(nil), languages...),
		clientFactory: gosseract.NewClient,
	}, nil
}

// Name returns the engine name
func (e *Engine) Name() string { return "tesseract" }

// Recognize reads a single line of plate or odometer characters
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	if err := c.SetLanguage(e.languages...); err != nil {
		return ocr.Result{}, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return ocr.Result{}, fmt.Errorf("set page segmentation: %w", err)
	}
	if err := c.SetWhitelist(ocr.Whitelist(in.Kind)); err != nil {
		return ocr.Result{}, fmt.Errorf("set whitelist: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}

	return ocr.Result{
		Text:       strings.TrimSpace(text),
		Confidence: meanConfidence(c),
		Engine:     e.Name(),
	}, nil
}

func meanConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes)) / 100.0
}
