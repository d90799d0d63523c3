package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vburojevic/platescan/internal/domain"
	"github.com/vburojevic/platescan/internal/imagedata"
	"github.com/vburojevic/platescan/internal/ocr"
	"github.com/vburojevic/platescan/internal/ocr/engines"
	"github.com/vburojevic/platescan/internal/output"
	"github.com/vburojevic/platescan/internal/server"
)

// RecognizeCmd runs the OCR chain on local image files
type RecognizeCmd struct {
	Kind    string   `arg:"" help:"What the images show: plate or odometer"`
	Files   []string `arg:"" type:"existingfile" help:"Image files (jpeg, png, gif, webp, bmp)"`
	Engines []string `help:"OCR engines in fallback order (overrides ocr.engines)" sep:","`

	// recognizer replaces the configured engine chain in tests
	recognizer server.Recognizer
}

// Run executes the recognize command
func (c *RecognizeCmd) Run(globals *Globals) error {
	kind, err := domain.ParseReadingKind(c.Kind)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_KIND", err.Error(), "use `plate` or `odometer`")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := c.recognizer
	if rec == nil {
		serve := ServeCmd{Engines: c.Engines}
		cfg := serve.effectiveConfig(globals.Config)
		if err := cfg.Validate(); err != nil {
			return outputErrorCommon(globals, "CONFIG_INVALID", err.Error(), "run `platescan doctor` to inspect the configuration")
		}
		proc, err := engines.NewProcessor(ctx, cfg, &http.Client{}, globals.logger().Named("ocr"))
		if err != nil {
			return outputErrorCommon(globals, "NO_OCR_ENGINE", err.Error(), "set GEMINI_API_KEY or OCRSPACE_API_KEY, or build with -tags tesseract")
		}
		rec = proc
	}

	failed := 0
	for _, file := range c.Files {
		img, err := imagedata.Load(file)
		if err != nil {
			failed++
			emitCLIError(globals, &CLIError{Code: "IMAGE_INVALID", Message: fmt.Sprintf("%s: %v", file, err)})
			continue
		}

		globals.logger().Debug("Recognizing image",
			zap.String("file", file),
			zap.String("kind", kind.String()),
			zap.String("format", img.Format))

		out := rec.Process(ctx, ocr.Input{Kind: kind, Image: img.Data, MIMEType: img.MIMEType()})
		if !out.Success {
			failed++
		}
		if err := c.write(globals, output.NewRecognitionOutput(file, out)); err != nil {
			return err
		}
		if ctx.Err() != nil {
			break
		}
	}

	if failed > 0 {
		return outputErrorCommon(globals, "NOT_RECOGNIZED", fmt.Sprintf("%d of %d images not recognized", failed, len(c.Files)))
	}
	return nil
}

func (c *RecognizeCmd) write(globals *Globals, rec *output.RecognitionOutput) error {
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRecognition(rec)
	}
	return output.NewTextWriter(globals.Stdout).WriteRecognition(rec)
}
