package cli

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vburojevic/platescan/internal/config"
	"github.com/vburojevic/platescan/internal/ocr/engines"
	"github.com/vburojevic/platescan/internal/ocr/tesseract"
	"github.com/vburojevic/platescan/internal/output"
	"github.com/vburojevic/platescan/internal/server"
)

// DoctorCmd checks API keys, users and OCR engines
type DoctorCmd struct{}

// checkResult represents a single diagnostic check
type checkResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// doctorReport is the complete diagnostic report
type doctorReport struct {
	Type       string        `json:"type"`
	Timestamp  string        `json:"timestamp"`
	Checks     []checkResult `json:"checks"`
	AllPassed  bool          `json:"all_passed"`
	ErrorCount int           `json:"error_count"`
	WarnCount  int           `json:"warn_count"`
}

// Run executes the doctor command
func (c *DoctorCmd) Run(globals *Globals) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	checks := []checkResult{
		c.checkConfig(cfg),
		c.checkUsers(cfg),
		c.checkGemini(cfg),
		c.checkOCRSpace(cfg),
		c.checkTesseract(cfg),
		c.checkTLS(cfg),
		c.checkEngines(ctx, cfg),
	}

	report := newDoctorReport(checks, time.Now())

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(report)
	}

	s := output.StylesFor(globals.Stdout)
	fmt.Fprintln(globals.Stdout, s.Title.Render("platescan Doctor"))
	fmt.Fprintln(globals.Stdout, "================")
	fmt.Fprintln(globals.Stdout)

	for _, check := range report.Checks {
		fmt.Fprintf(globals.Stdout, "%s %s\n", s.StatusIcon(check.Status), check.Name)
		if check.Message != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Message)
		}
		if check.Details != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", s.Muted.Render(check.Details))
		}
	}

	fmt.Fprintln(globals.Stdout)
	if report.ErrorCount == 0 && report.WarnCount == 0 {
		fmt.Fprintln(globals.Stdout, "All checks passed!")
	} else {
		fmt.Fprintf(globals.Stdout, "Errors: %d, Warnings: %d\n", report.ErrorCount, report.WarnCount)
	}

	return nil
}

func newDoctorReport(checks []checkResult, now time.Time) doctorReport {
	report := doctorReport{
		Type:      "doctor",
		Timestamp: now.Format(time.RFC3339),
		Checks:    checks,
	}
	for _, check := range checks {
		switch check.Status {
		case "error":
			report.ErrorCount++
		case "warning":
			report.WarnCount++
		}
	}
	report.AllPassed = report.ErrorCount == 0
	return report
}

func (c *DoctorCmd) checkConfig(cfg *config.Config) checkResult {
	configPath := config.ConfigFile()
	if configPath == "" {
		return checkResult{
			Name:    "Config",
			Status:  "ok",
			Message: "Using defaults (no config file)",
			Details: "Create with: platescan config generate > platescan.yaml",
		}
	}

	if err := cfg.Validate(); err != nil {
		return checkResult{
			Name:    "Config",
			Status:  "error",
			Message: "Config file has errors",
			Details: err.Error(),
		}
	}

	absPath, _ := filepath.Abs(configPath)
	return checkResult{
		Name:    "Config",
		Status:  "ok",
		Message: fmt.Sprintf("Loaded from: %s", absPath),
		Details: fmt.Sprintf("Format: %s, Level: %s", cfg.Format, cfg.Level),
	}
}

func (c *DoctorCmd) checkUsers(cfg *config.Config) checkResult {
	names := cfg.UserNames()
	if len(names) == 0 {
		return checkResult{
			Name:    "Users",
			Status:  "error",
			Message: "No user:password pairs configured",
			Details: "Set LOGIN_USERS=admin:secret",
		}
	}
	if cfg.Auth.Users == config.Default().Auth.Users {
		return checkResult{
			Name:    "Users",
			Status:  "warning",
			Message: "Built-in demo accounts in use: " + strings.Join(names, ", "),
			Details: "Set LOGIN_USERS before exposing the server",
		}
	}
	return checkResult{
		Name:    "Users",
		Status:  "ok",
		Message: fmt.Sprintf("%d configured: %s", len(names), strings.Join(names, ", ")),
	}
}

// keyCheck reports a missing key as an error only when the engine is enabled
func keyCheck(name, key, envVar string, enabled bool) checkResult {
	switch {
	case key != "":
		return checkResult{Name: name, Status: "ok", Message: "API key set (" + maskSecret(key) + ")"}
	case enabled:
		return checkResult{Name: name, Status: "error", Message: "Engine enabled but API key missing", Details: "Set " + envVar}
	default:
		return checkResult{Name: name, Status: "ok", Message: "Not enabled"}
	}
}

func (c *DoctorCmd) checkGemini(cfg *config.Config) checkResult {
	res := keyCheck("Gemini", cfg.OCR.Gemini.APIKey, "GEMINI_API_KEY", slices.Contains(cfg.OCR.Engines, config.EngineGemini))
	if res.Status == "ok" && cfg.OCR.Gemini.APIKey != "" {
		res.Details = "Model: " + cfg.OCR.Gemini.Model
	}
	return res
}

func (c *DoctorCmd) checkOCRSpace(cfg *config.Config) checkResult {
	return keyCheck("OCR.space", cfg.OCR.OCRSpace.APIKey, "OCRSPACE_API_KEY", slices.Contains(cfg.OCR.Engines, config.EngineOCRSpace))
}

func (c *DoctorCmd) checkTesseract(cfg *config.Config) checkResult {
	enabled := slices.Contains(cfg.OCR.Engines, config.EngineTesseract)
	switch {
	case tesseract.Available():
		return checkResult{Name: "Tesseract", Status: "ok", Message: "Compiled in", Details: "Languages: " + strings.Join(cfg.OCR.Tesseract.Languages, ", ")}
	case enabled:
		return checkResult{Name: "Tesseract", Status: "error", Message: "Engine enabled but not compiled in", Details: "Rebuild with: go build -tags tesseract"}
	default:
		return checkResult{Name: "Tesseract", Status: "ok", Message: "Not compiled in (optional)"}
	}
}

func (c *DoctorCmd) checkTLS(cfg *config.Config) checkResult {
	if server.TLSAvailable(cfg.Server) {
		return checkResult{Name: "TLS", Status: "ok", Message: "HTTPS enabled", Details: cfg.Server.TLSCert + ", " + cfg.Server.TLSKey}
	}
	return checkResult{
		Name:    "TLS",
		Status:  "warning",
		Message: "Serving plain HTTP",
		Details: "Browsers only allow camera access over HTTPS or on localhost",
	}
}

func (c *DoctorCmd) checkEngines(ctx context.Context, cfg *config.Config) checkResult {
	if err := cfg.Validate(); err != nil {
		return checkResult{Name: "OCR chain", Status: "error", Message: "Invalid configuration", Details: err.Error()}
	}
	built, err := engines.NewBuilder(&http.Client{}, zap.NewNop()).Build(ctx, cfg.OCR)
	if err != nil {
		return checkResult{Name: "OCR chain", Status: "error", Message: "No engine could be initialized", Details: err.Error()}
	}

	names := make([]string, 0, len(built))
	for _, e := range built {
		names = append(names, e.Name())
	}
	if len(names) < len(cfg.OCR.Engines) {
		return checkResult{
			Name:    "OCR chain",
			Status:  "warning",
			Message: strings.Join(names, " → "),
			Details: fmt.Sprintf("%d of %d configured engines unavailable", len(cfg.OCR.Engines)-len(names), len(cfg.OCR.Engines)),
		}
	}
	return checkResult{Name: "OCR chain", Status: "ok", Message: strings.Join(names, " → ")}
}
