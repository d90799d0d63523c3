package cli

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vburojevic/platescan/internal/config"
	"github.com/vburojevic/platescan/internal/output"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show current configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration file path"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := redacted(globals.Config)

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type":   "config",
			"file":   config.ConfigFile(),
			"config": cfg,
		})
	}

	rows := [][2]string{
		{"format", cfg.Format},
		{"level", cfg.Level},
		{"quiet", strconv.FormatBool(cfg.Quiet)},
		{"verbose", strconv.FormatBool(cfg.Verbose)},
		{"server.addr", cfg.Server.Addr},
		{"server.tls_cert", cfg.Server.TLSCert},
		{"server.tls_key", cfg.Server.TLSKey},
		{"server.max_body_bytes", strconv.FormatInt(cfg.Server.MaxBodyBytes, 10)},
		{"server.session_ttl", cfg.Server.SessionTTL},
		{"server.shutdown_timeout", cfg.Server.ShutdownTimeout},
		{"server.cookie_secure", strconv.FormatBool(cfg.Server.CookieSecure)},
		{"auth.users", strings.Join(cfg.UserNames(), ", ")},
		{"ocr.engines", strings.Join(cfg.OCR.Engines, ", ")},
		{"ocr.timeout", cfg.OCR.Timeout},
		{"ocr.gemini.api_key", cfg.OCR.Gemini.APIKey},
		{"ocr.gemini.model", cfg.OCR.Gemini.Model},
		{"ocr.ocrspace.api_key", cfg.OCR.OCRSpace.APIKey},
		{"ocr.ocrspace.endpoint", cfg.OCR.OCRSpace.Endpoint},
		{"ocr.ocrspace.language", cfg.OCR.OCRSpace.Language},
		{"ocr.ocrspace.engine", strconv.Itoa(cfg.OCR.OCRSpace.Engine)},
		{"ocr.tesseract.languages", strings.Join(cfg.OCR.Tesseract.Languages, ", ")},
	}
	if err := output.NewTextWriter(globals.Stdout).WriteKeyValues("Current Configuration", rows); err != nil {
		return err
	}

	if path := config.ConfigFile(); path != "" {
		fmt.Fprintf(globals.Stdout, "\nLoaded from: %s\n", path)
	}
	return nil
}

// redacted copies cfg with secrets masked
func redacted(cfg *config.Config) config.Config {
	if cfg == nil {
		cfg = config.Default()
	}
	out := *cfg
	out.OCR.Gemini.APIKey = maskSecret(out.OCR.Gemini.APIKey)
	out.OCR.OCRSpace.APIKey = maskSecret(out.OCR.OCRSpace.APIKey)

	users := config.ParseUsers(out.Auth.Users)
	pairs := make([]string, 0, len(users))
	for _, name := range out.UserNames() {
		pairs = append(pairs, name+":"+maskSecret(users[name]))
	}
	out.Auth.Users = strings.Join(pairs, ",")
	return out
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return "****"
	default:
		return s[:4] + "****"
	}
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type": "config_path",
			"path": path,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./platescan.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.platescan.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.config/platescan/config.yaml")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}

	return nil
}

// ConfigGenerateCmd generates a sample configuration file
type ConfigGenerateCmd struct{}

const generateHeader = `# platescan configuration file
# Place this file at ./platescan.yaml, ~/.platescan.yaml or
# ~/.config/platescan/config.yaml.
#
# Secrets are better kept in the environment:
#   LOGIN_USERS=admin:secret,operator:secret2
#   GEMINI_API_KEY=...
#   OCRSPACE_API_KEY=...
#
# ocr.engines are tried in order; "tesseract" needs a build with -tags tesseract.

`

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	body, err := yaml.Marshal(config.Default())
	if err != nil {
		return outputErrorCommon(globals, "CONFIG_GENERATE_FAILED", err.Error())
	}
	_, err = fmt.Fprint(globals.Stdout, generateHeader+string(body))
	return err
}
