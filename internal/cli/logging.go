package cli

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vburojevic/platescan/internal/output"
)

// NewLogger builds the process logger. Output is JSON in production and a
// colored console encoding when w is a terminal; verbose forces debug level.
func NewLogger(level string, verbose bool, w io.Writer) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()

	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		lvl = parsed
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	encCfg := cfg.EncoderConfig
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)
	if output.IsTerminal(w) {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		encoder = zapcore.NewConsoleEncoder(consoleCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), cfg.Level)
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.AddSync(w))), nil
}
