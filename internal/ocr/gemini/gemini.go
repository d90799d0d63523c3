// Package gemini implements an OCR engine on top of Google's Gemini vision models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/vburojevic/platescan/internal/ocr"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.0-flash"

// confidence reported for every Gemini answer; the API gives no score
const confidence = 0.95

// ErrMissingAPIKey is returned by New when no key is configured
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// generator is the subset of *genai.Models the engine needs
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Engine sends the capture plus a fixed prompt to a Gemini model
type Engine struct {
	models generator
	model  string
}

// New creates a Gemini engine
func New(ctx context.Context, apiKey, model string) (*Engine, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Engine{models: client.Models, model: model}, nil
}

// Name returns the engine name
func (e *Engine) Name() string { return "gemini" }

// Model returns the configured model name
func (e *Engine) Model() string { return e.model }

// Recognize asks the model to read the plate or odometer in the image
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if len(in.Image) == 0 {
		return ocr.Result{}, errors.New("gemini: empty image")
	}
	mimeType := in.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(ocr.Prompt(in.Kind)),
			genai.NewPartFromBytes(in.Image, mimeType),
		}, genai.RoleUser),
	}

	resp, err := e.models.GenerateContent(ctx, e.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return ocr.Result{}, fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return ocr.Result{}, errors.New("gemini: empty response")
	}

	return ocr.Result{
		Text:       strings.TrimSpace(resp.Text()),
		Confidence: confidence,
		Engine:     e.Name(),
	}, nil
}
