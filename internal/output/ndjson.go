package output

import (
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/vburojevic/platescan/internal/ocr"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NDJSONWriter writes one JSON record per line
type NDJSONWriter struct {
	w       io.Writer
	encoder *jsoniter.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// ErrorOutput is emitted for command failures
type ErrorOutput struct {
	Type          string `json:"type"` // Always "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// WarningOutput represents a warning message
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// InfoOutput represents an informational message
type InfoOutput struct {
	Type          string `json:"type"` // Always "info"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// VersionOutput describes the running build
type VersionOutput struct {
	Type          string `json:"type"` // Always "version"
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
}

// AttemptOutput is one engine call inside a RecognitionOutput
type AttemptOutput struct {
	Engine     string `json:"engine"`
	Raw        string `json:"raw,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// RecognitionOutput is the result of running the OCR chain on one file
type RecognitionOutput struct {
	Type          string          `json:"type"` // Always "recognition"
	SchemaVersion int             `json:"schemaVersion"`
	File          string          `json:"file"`
	Kind          string          `json:"kind"`
	Success       bool            `json:"success"`
	Text          string          `json:"text,omitempty"`
	Confidence    float64         `json:"confidence"`
	Engine        string          `json:"engine,omitempty"`
	Error         string          `json:"error,omitempty"`
	Attempts      []AttemptOutput `json:"attempts,omitempty"`
}

// NewRecognitionOutput converts a processor outcome for file
func NewRecognitionOutput(file string, out ocr.Outcome) *RecognitionOutput {
	rec := &RecognitionOutput{
		Type:          "recognition",
		SchemaVersion: SchemaVersion,
		File:          file,
		Kind:          out.Kind.String(),
		Success:       out.Success,
		Text:          out.Text,
		Confidence:    out.Confidence,
		Engine:        out.Engine,
		Error:         out.Error,
	}
	for _, a := range out.Attempts {
		rec.Attempts = append(rec.Attempts, AttemptOutput{
			Engine:     a.Engine,
			Raw:        a.Raw,
			Error:      a.Error,
			DurationMS: a.Duration.Round(time.Millisecond).Milliseconds(),
		})
	}
	return rec
}

// ServerReadyOutput announces the listening addresses of `serve`
type ServerReadyOutput struct {
	Type          string   `json:"type"` // Always "server_ready"
	SchemaVersion int      `json:"schemaVersion"`
	Addr          string   `json:"addr"`
	URLs          []string `json:"urls"`
	TLS           bool     `json:"tls"`
	Engines       []string `json:"engines"`
	Users         []string `json:"users"`
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	out := &ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	return w.encoder.Encode(out)
}

// WriteWarning outputs a warning message
func (w *NDJSONWriter) WriteWarning(message string) error {
	return w.encoder.Encode(&WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteInfo outputs an informational message
func (w *NDJSONWriter) WriteInfo(message string) error {
	return w.encoder.Encode(&InfoOutput{
		Type:          "info",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteVersion outputs build information
func (w *NDJSONWriter) WriteVersion(version, commit string) error {
	return w.encoder.Encode(&VersionOutput{
		Type:          "version",
		SchemaVersion: SchemaVersion,
		Version:       version,
		Commit:        commit,
	})
}

// WriteRecognition outputs a recognition result
func (w *NDJSONWriter) WriteRecognition(rec *RecognitionOutput) error {
	rec.Type = "recognition"
	rec.SchemaVersion = SchemaVersion
	return w.encoder.Encode(rec)
}

// WriteServerReady outputs the server_ready record
func (w *NDJSONWriter) WriteServerReady(ready *ServerReadyOutput) error {
	ready.Type = "server_ready"
	ready.SchemaVersion = SchemaVersion
	return w.encoder.Encode(ready)
}

// WriteRaw outputs raw JSON data
func (w *NDJSONWriter) WriteRaw(v interface{}) error {
	return w.encoder.Encode(v)
}
