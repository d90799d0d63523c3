// Package engines builds the configured OCR fallback chain.
package engines

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/vburojevic/platescan/internal/config"
	"github.com/vburojevic/platescan/internal/ocr"
	"github.com/vburojevic/platescan/internal/ocr/gemini"
	"github.com/vburojevic/platescan/internal/ocr/ocrspace"
	"github.com/vburojevic/platescan/internal/ocr/tesseract"
)

// Factory creates one engine from configuration
type Factory func(ctx context.Context, cfg config.OCRConfig) (ocr.Engine, error)

// Builder resolves engine names to factories
type Builder struct {
	factories map[string]Factory
	logger    *zap.Logger
}

// NewBuilder returns a Builder wired to the real backends
func NewBuilder(httpClient *http.Client, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		logger: logger,
		factories: map[string]Factory{
			config.EngineGemini: func(ctx context.Context, cfg config.OCRConfig) (ocr.Engine, error) {
				e, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
				if err != nil {
					return nil, err
				}
				logger.Debug("Gemini engine ready", zap.String("model", e.Model()))
				return e, nil
			},
			config.EngineOCRSpace: func(ctx context.Context, cfg config.OCRConfig) (ocr.Engine, error) {
				return ocrspace.New(ocrspace.Options{
					APIKey:     cfg.OCRSpace.APIKey,
					Endpoint:   cfg.OCRSpace.Endpoint,
					Language:   cfg.OCRSpace.Language,
					OCREngine:  cfg.OCRSpace.Engine,
					HTTPClient: httpClient,
				})
			},
			config.EngineTesseract: func(ctx context.Context, cfg config.OCRConfig) (ocr.Engine, error) {
				return tesseract.New(cfg.Tesseract.Languages)
			},
		},
	}
}

// Register adds or replaces a factory
func (b *Builder) Register(name string, f Factory) {
	b.factories[name] = f
}

// Build creates every engine listed in cfg.Engines, in order.
// Engines that fail to initialize are skipped with a warning so that a missing
// optional fallback does not take the service down; it is an error only when
// none could be built.
func (b *Builder) Build(ctx context.Context, cfg config.OCRConfig) ([]ocr.Engine, error) {
	var (
		built   []ocr.Engine
		lastErr error
	)
	for _, name := range cfg.Engines {
		f, ok := b.factories[name]
		if !ok {
			lastErr = fmt.Errorf("unknown OCR engine %q", name)
			b.logger.Warn("Skipping OCR engine", zap.String("engine", name), zap.Error(lastErr))
			continue
		}
		e, err := f(ctx, cfg)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", name, err)
			b.logger.Warn("Skipping OCR engine", zap.String("engine", name), zap.Error(err))
			continue
		}
		built = append(built, e)
	}
	if len(built) == 0 {
		if lastErr == nil {
			return nil, ocr.ErrNoEngines
		}
		return nil, fmt.Errorf("%w: %v", ocr.ErrNoEngines, lastErr)
	}
	return built, nil
}

// NewProcessor builds the engines and wraps them in a Processor
func NewProcessor(ctx context.Context, cfg *config.Config, httpClient *http.Client, logger *zap.Logger) (*ocr.Processor, error) {
	timeout, err := cfg.OCRTimeout()
	if err != nil {
		return nil, err
	}
	list, err := NewBuilder(httpClient, logger).Build(ctx, cfg.OCR)
	if err != nil {
		return nil, err
	}
	return ocr.NewProcessor(list, ocr.WithTimeout(timeout), ocr.WithLogger(logger))
}
