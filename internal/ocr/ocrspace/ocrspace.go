// Package ocrspace implements an OCR engine backed by the hosted OCR.space API.
package ocrspace

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/vburojevic/platescan/internal/ocr"
)

// DefaultEndpoint is the public OCR.space parse endpoint
const DefaultEndpoint = "https://api.ocr.space/parse/image"

// The API only returns per-word confidence with overlays enabled; a fixed
// value keeps results comparable with the other engines.
const confidence = 0.80

// max bytes of an error body quoted back to the caller
const maxErrorBody = 512

// ErrMissingAPIKey is returned by New when no key is configured
var ErrMissingAPIKey = errors.New("OCRSPACE_API_KEY is not set")

// Options configures the engine
type Options struct {
	APIKey   string
	Endpoint string
	Language string
	// OCREngine selects the OCR.space engine (1, 2 or 3)
	OCREngine  int
	HTTPClient *http.Client
}

// Engine posts captures to OCR.space
type Engine struct {
	apiKey   string
	endpoint string
	language string
	engine   int
	client   *http.Client
}

// New creates an OCR.space engine
func New(opts Options) (*Engine, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	e := &Engine{
		apiKey:   opts.APIKey,
		endpoint: opts.Endpoint,
		language: opts.Language,
		engine:   opts.OCREngine,
		client:   opts.HTTPClient,
	}
	if e.endpoint == "" {
		e.endpoint = DefaultEndpoint
	}
	if e.language == "" {
		e.language = "eng"
	}
	if e.engine == 0 {
		e.engine = 2
	}
	if e.client == nil {
		e.client = http.DefaultClient
	}
	return e, nil
}

// Name returns the engine name
func (e *Engine) Name() string { return "ocrspace" }

// Recognize uploads the image and returns the parsed text
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if len(in.Image) == 0 {
		return ocr.Result{}, errors.New("ocrspace: empty image")
	}

	body, contentType, err := e.form(in)
	if err != nil {
		return ocr.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, body)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("ocrspace request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := e.client.Do(req)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("ocrspace call: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("ocrspace read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ocr.Result{}, fmt.Errorf("ocrspace: HTTP %d: %s", resp.StatusCode, snippet(payload))
	}

	text, err := parseResponse(payload)
	if err != nil {
		return ocr.Result{}, err
	}
	return ocr.Result{Text: text, Confidence: confidence, Engine: e.Name()}, nil
}

func (e *Engine) form(in ocr.Input) (*bytes.Buffer, string, error) {
	mimeType := in.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"apikey", e.apiKey},
		{"language", e.language},
		{"OCREngine", strconv.Itoa(e.engine)},
		{"scale", "true"},
		{"isOverlayRequired", "false"},
		{"base64Image", "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(in.Image)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("ocrspace form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("ocrspace form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// parseResponse extracts the recognized text from an OCR.space JSON reply
func parseResponse(payload []byte) (string, error) {
	if !gjson.ValidBytes(payload) {
		return "", fmt.Errorf("ocrspace: invalid JSON response: %s", snippet(payload))
	}
	doc := gjson.ParseBytes(payload)

	if doc.Get("IsErroredOnProcessing").Bool() {
		return "", fmt.Errorf("ocrspace: %s", errorMessage(doc))
	}

	var parts []string
	for _, r := range doc.Get("ParsedResults").Array() {
		if t := strings.TrimSpace(r.Get("ParsedText").String()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}

// errorMessage flattens ErrorMessage, which is either a string or an array
func errorMessage(doc gjson.Result) string {
	msg := doc.Get("ErrorMessage")
	if msg.IsArray() {
		var msgs []string
		for _, m := range msg.Array() {
			msgs = append(msgs, m.String())
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	} else if s := msg.String(); s != "" {
		return s
	}
	if d := doc.Get("ErrorDetails").String(); d != "" {
		return d
	}
	return "processing failed"
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
