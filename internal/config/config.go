package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Known OCR engine names
const (
	EngineGemini    = "gemini"
	EngineOCRSpace  = "ocrspace"
	EngineTesseract = "tesseract"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format" yaml:"format" json:"format"`
	Level   string `mapstructure:"level" yaml:"level" json:"level"`
	Quiet   bool   `mapstructure:"quiet" yaml:"quiet" json:"quiet"`
	Verbose bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
	Auth   AuthConfig   `mapstructure:"auth" yaml:"auth" json:"auth"`
	OCR    OCRConfig    `mapstructure:"ocr" yaml:"ocr" json:"ocr"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string `mapstructure:"addr" yaml:"addr" json:"addr"`
	TLSCert         string `mapstructure:"tls_cert" yaml:"tls_cert" json:"tls_cert"`
	TLSKey          string `mapstructure:"tls_key" yaml:"tls_key" json:"tls_key"`
	MaxBodyBytes    int64  `mapstructure:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes"`
	SessionTTL      string `mapstructure:"session_ttl" yaml:"session_ttl" json:"session_ttl"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	// CookieSecure forces the Secure cookie flag even when serving plain HTTP
	// behind a TLS-terminating proxy.
	CookieSecure bool `mapstructure:"cookie_secure" yaml:"cookie_secure" json:"cookie_secure"`
}

// AuthConfig holds login settings
type AuthConfig struct {
	// Users is a comma separated list of user:password pairs
	Users string `mapstructure:"users" yaml:"users" json:"users"`
}

// OCRConfig holds text recognition backends, tried in Engines order
type OCRConfig struct {
	Engines   []string        `mapstructure:"engines" yaml:"engines" json:"engines"`
	Timeout   string          `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	Gemini    GeminiConfig    `mapstructure:"gemini" yaml:"gemini" json:"gemini"`
	OCRSpace  OCRSpaceConfig  `mapstructure:"ocrspace" yaml:"ocrspace" json:"ocrspace"`
	Tesseract TesseractConfig `mapstructure:"tesseract" yaml:"tesseract" json:"tesseract"`
}

// GeminiConfig configures the Gemini vision backend
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key" json:"api_key"`
	Model  string `mapstructure:"model" yaml:"model" json:"model"`
}

// OCRSpaceConfig configures the hosted OCR.space backend
type OCRSpaceConfig struct {
	APIKey   string `mapstructure:"api_key" yaml:"api_key" json:"api_key"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
	Language string `mapstructure:"language" yaml:"language" json:"language"`
	Engine   int    `mapstructure:"engine" yaml:"engine" json:"engine"`
}

// TesseractConfig configures the local Tesseract backend
type TesseractConfig struct {
	Languages []string `mapstructure:"languages" yaml:"languages" json:"languages"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "text",
		Level:   "info",
		Quiet:   false,
		Verbose: false,
		Server: ServerConfig{
			Addr:            "0.0.0.0:5000",
			TLSCert:         "cert.pem",
			TLSKey:          "key.pem",
			MaxBodyBytes:    16 << 20,
			SessionTTL:      "12h",
			ShutdownTimeout: "10s",
		},
		Auth: AuthConfig{
			Users: "admin:admin123,user:user123",
		},
		OCR: OCRConfig{
			Engines: []string{EngineGemini},
			Timeout: "30s",
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
			OCRSpace: OCRSpaceConfig{
				Endpoint: "https://api.ocr.space/parse/image",
				Language: "eng",
				Engine:   2,
			},
			Tesseract: TesseractConfig{
				Languages: []string{"eng"},
			},
		},
	}
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.platescan.yaml or ./platescan.yaml
// 2. ~/.platescan.yaml or ~/platescan.yaml
// 3. $XDG_CONFIG_HOME/platescan/config.yaml (or ~/.config/platescan/config.yaml)
// 4. /etc/platescan/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		if err := readInto(configFile, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := readInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readInto(path string, cfg *Config) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".platescan.yaml", ".platescan.yml", "platescan.yaml", "platescan.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string

	// 1. Current directory
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}

	// 2. Home directory
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}

	// 3. Config directory (e.g., ~/.config/platescan/)
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "platescan"))
	}

	// 4. System config
	searchPaths = append(searchPaths, "/etc/platescan")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		// Only the dedicated directories may hold a bare config.yaml
		if filepath.Base(dir) == "platescan" {
			path := filepath.Join(dir, "config.yaml")
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLATESCAN_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("PLATESCAN_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("PLATESCAN_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("PLATESCAN_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("PLATESCAN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PLATESCAN_OCR_ENGINES"); v != "" {
		cfg.OCR.Engines = splitList(v)
	}
	// Deployment-level names, shared with the previous tooling
	if v := os.Getenv("LOGIN_USERS"); v != "" {
		cfg.Auth.Users = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.OCR.Gemini.APIKey = v
	}
	if v := os.Getenv("OCRSPACE_API_KEY"); v != "" {
		cfg.OCR.OCRSpace.APIKey = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

// ParseUsers parses "user:pass,user2:pass2" into a map.
// Pairs without a colon are skipped; the password may itself contain colons.
func ParseUsers(s string) map[string]string {
	users := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		name, password, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		users[name] = password
	}
	return users
}

// UserNames returns the configured user names, sorted
func (c *Config) UserNames() []string {
	users := ParseUsers(c.Auth.Users)
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SessionTTL returns the parsed session idle timeout
func (c *Config) SessionTTL() (time.Duration, error) {
	return parsePositiveDuration("server.session_ttl", c.Server.SessionTTL)
}

// ShutdownTimeout returns the parsed graceful shutdown timeout
func (c *Config) ShutdownTimeout() (time.Duration, error) {
	return parsePositiveDuration("server.shutdown_timeout", c.Server.ShutdownTimeout)
}

// OCRTimeout returns the parsed per-engine timeout
func (c *Config) OCRTimeout() (time.Duration, error) {
	return parsePositiveDuration("ocr.timeout", c.OCR.Timeout)
}

func parsePositiveDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, value)
	}
	return d, nil
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid server.max_body_bytes %d: must be positive", c.Server.MaxBodyBytes)
	}
	if _, err := c.SessionTTL(); err != nil {
		return err
	}
	if _, err := c.ShutdownTimeout(); err != nil {
		return err
	}
	if _, err := c.OCRTimeout(); err != nil {
		return err
	}
	if len(c.OCR.Engines) == 0 {
		return fmt.Errorf("ocr.engines must list at least one engine")
	}
	for _, name := range c.OCR.Engines {
		switch name {
		case EngineGemini, EngineOCRSpace, EngineTesseract:
		default:
			return fmt.Errorf("unknown OCR engine %q (want %s, %s or %s)", name, EngineGemini, EngineOCRSpace, EngineTesseract)
		}
	}
	if len(ParseUsers(c.Auth.Users)) == 0 {
		return fmt.Errorf("auth.users must define at least one user:password pair")
	}
	return nil
}
