package ocr

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vburojevic/platescan/internal/domain"
)

var (
	// ErrNoEngines is returned when a Processor is built without engines
	ErrNoEngines = errors.New("no OCR engines configured")
	// ErrNotDetected means an engine answered but nothing usable survived cleanup
	ErrNotDetected = errors.New("no valid text detected")
)

// Attempt records one engine call made while processing an input
type Attempt struct {
	Engine   string        `json:"engine"`
	Raw      string        `json:"raw,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Outcome is the cleaned, final answer for an input
type Outcome struct {
	Success    bool               `json:"success"`
	Kind       domain.ReadingKind `json:"kind"`
	Text       string             `json:"text,omitempty"`
	Confidence float64            `json:"confidence"`
	Engine     string             `json:"engine"`
	Error      string             `json:"error,omitempty"`
	Attempts   []Attempt          `json:"attempts,omitempty"`
}

// Processor runs engines as a fallback chain
type Processor struct {
	engines []Engine
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Processor
type Option func(*Processor)

// WithTimeout bounds each individual engine call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Processor) { p.timeout = d }
}

// WithLogger sets the logger used for per-attempt diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProcessor builds a Processor trying engines in the given order
func NewProcessor(engines []Engine, opts ...Option) (*Processor, error) {
	if len(engines) == 0 {
		return nil, ErrNoEngines
	}
	p := &Processor{
		engines: append([]Engine(nil), engines...),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Engines returns engine names in fallback order
func (p *Processor) Engines() []string {
	names := make([]string, len(p.engines))
	for i, e := range p.engines {
		names[i] = e.Name()
	}
	return names
}

// Process recognizes in, falling through to the next engine whenever one
// errors, answers NOT_DETECTED, or returns text that cleans to nothing.
func (p *Processor) Process(ctx context.Context, in Input) Outcome {
	out := Outcome{Kind: in.Kind}
	var lastErr error

	for _, engine := range p.engines {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		out.Engine = engine.Name()
		attempt, cleaned, confidence, err := p.try(ctx, engine, in)
		out.Attempts = append(out.Attempts, attempt)
		if err != nil {
			lastErr = err
			p.logger.Warn("OCR engine failed",
				zap.String("engine", engine.Name()),
				zap.String("kind", in.Kind.String()),
				zap.Error(err))
			continue
		}

		out.Success = true
		out.Text = cleaned
		out.Confidence = confidence
		p.logger.Info("OCR recognized text",
			zap.String("engine", engine.Name()),
			zap.String("kind", in.Kind.String()),
			zap.String("text", cleaned),
			zap.Duration("duration", attempt.Duration))
		return out
	}

	if lastErr == nil {
		lastErr = ErrNotDetected
	}
	out.Error = lastErr.Error()
	return out
}

func (p *Processor) try(ctx context.Context, engine Engine, in Input) (Attempt, string, float64, error) {
	attemptCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := engine.Recognize(attemptCtx, in)
	attempt := Attempt{Engine: engine.Name(), Duration: time.Since(start)}
	if err != nil {
		attempt.Error = err.Error()
		return attempt, "", 0, err
	}

	raw := strings.TrimSpace(res.Text)
	attempt.Raw = raw
	if raw == "" || strings.EqualFold(raw, NotDetected) {
		attempt.Error = ErrNotDetected.Error()
		return attempt, "", 0, ErrNotDetected
	}

	cleaned := Clean(in.Kind, raw)
	if cleaned == "" {
		attempt.Error = ErrNotDetected.Error()
		return attempt, "", 0, ErrNotDetected
	}
	return attempt, cleaned, res.Confidence, nil
}
