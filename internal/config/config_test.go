package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp switches into a fresh temp dir for the duration of the test
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(origDir))
	})
	return tmpDir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "info", cfg.Level)
	assert.False(t, cfg.Quiet)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr)
	assert.Equal(t, int64(16*1024*1024), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "cert.pem", cfg.Server.TLSCert)
	assert.Equal(t, "key.pem", cfg.Server.TLSKey)
	assert.Equal(t, []string{EngineGemini}, cfg.OCR.Engines)
	assert.Equal(t, "https://api.ocr.space/parse/image", cfg.OCR.OCRSpace.Endpoint)
	assert.Equal(t, []string{"admin", "user"}, cfg.UserNames())
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("returns defaults when no config file exists", func(t *testing.T) {
		chdirTemp(t)

		cfg, err := Load()
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr)
	})

	t.Run("loads config from file", func(t *testing.T) {
		tmpDir := t.TempDir()

		configContent := `
format: ndjson
level: debug
quiet: true
server:
  addr: "127.0.0.1:8443"
  session_ttl: 30m
ocr:
  engines: [gemini, ocrspace, tesseract]
  gemini:
    model: gemini-2.5-flash
  tesseract:
    languages: [eng, spa]
`
		configPath := filepath.Join(tmpDir, "platescan.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

		cfg, err := LoadFromFile(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "ndjson", cfg.Format)
		assert.Equal(t, "debug", cfg.Level)
		assert.True(t, cfg.Quiet)
		assert.Equal(t, "127.0.0.1:8443", cfg.Server.Addr)
		assert.Equal(t, "30m", cfg.Server.SessionTTL)
		assert.Equal(t, []string{"gemini", "ocrspace", "tesseract"}, cfg.OCR.Engines)
		assert.Equal(t, "gemini-2.5-flash", cfg.OCR.Gemini.Model)
		assert.Equal(t, []string{"eng", "spa"}, cfg.OCR.Tesseract.Languages)

		// Unset keys keep their defaults
		assert.Equal(t, "10s", cfg.Server.ShutdownTimeout)
		assert.Equal(t, 2, cfg.OCR.OCRSpace.Engine)
	})
}

func TestLoadFromFile(t *testing.T) {
	t.Run("returns error for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromFile("/nonexistent/path/config.yaml")
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644))

		cfg, err := LoadFromFile(configPath)
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Run("finds .platescan.yaml in current directory", func(t *testing.T) {
		tmpDir := chdirTemp(t)

		configPath := filepath.Join(tmpDir, ".platescan.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("format: text"), 0644))

		found := findConfigFile()
		// Resolve symlinks for comparison (macOS /var -> /private/var)
		expectedPath, err := filepath.EvalSymlinks(configPath)
		require.NoError(t, err)
		foundPath, err := filepath.EvalSymlinks(found)
		require.NoError(t, err)
		assert.Equal(t, expectedPath, foundPath)
	})

	t.Run("prefers .platescan.yaml over .platescan.yml", func(t *testing.T) {
		tmpDir := chdirTemp(t)

		yamlPath := filepath.Join(tmpDir, ".platescan.yaml")
		ymlPath := filepath.Join(tmpDir, ".platescan.yml")
		require.NoError(t, os.WriteFile(yamlPath, []byte("format: text"), 0644))
		require.NoError(t, os.WriteFile(ymlPath, []byte("format: ndjson"), 0644))

		found := findConfigFile()
		expectedPath, err := filepath.EvalSymlinks(yamlPath)
		require.NoError(t, err)
		foundPath, err := filepath.EvalSymlinks(found)
		require.NoError(t, err)
		assert.Equal(t, expectedPath, foundPath)
	})

	t.Run("ignores a bare config.yaml outside the platescan directory", func(t *testing.T) {
		tmpDir := chdirTemp(t)
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("format: text"), 0644))

		found := findConfigFile()
		if found != "" {
			foundDir, err := filepath.EvalSymlinks(filepath.Dir(found))
			require.NoError(t, err)
			cwd, err := filepath.EvalSymlinks(tmpDir)
			require.NoError(t, err)
			assert.NotEqual(t, cwd, foundDir)
		}
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("format and addr", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("PLATESCAN_FORMAT", "ndjson")
		t.Setenv("PLATESCAN_ADDR", ":9000")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "ndjson", cfg.Format)
		assert.Equal(t, ":9000", cfg.Server.Addr)
	})

	t.Run("engine list is split and lowercased", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("PLATESCAN_OCR_ENGINES", "Gemini, ocrspace ,,tesseract")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"gemini", "ocrspace", "tesseract"}, cfg.OCR.Engines)
	})

	t.Run("deployment variables", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("LOGIN_USERS", "op:secret")
		t.Setenv("GEMINI_API_KEY", "gem-key")
		t.Setenv("OCRSPACE_API_KEY", "space-key")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"op"}, cfg.UserNames())
		assert.Equal(t, "gem-key", cfg.OCR.Gemini.APIKey)
		assert.Equal(t, "space-key", cfg.OCR.OCRSpace.APIKey)
	})

	t.Run("quiet accepts 1", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("PLATESCAN_QUIET", "1")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Quiet)
	})
}

func TestParseUsers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{"default pair list", "admin:admin123,user:user123", map[string]string{"admin": "admin123", "user": "user123"}},
		{"whitespace around pairs", " admin:a , user:b ", map[string]string{"admin": "a", "user": "b"}},
		{"password keeps later colons", "admin:a:b:c", map[string]string{"admin": "a:b:c"}},
		{"pairs without colon are skipped", "admin,user:x", map[string]string{"user": "x"}},
		{"empty", "", map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseUsers(tt.in))
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := Default()

	ttl, err := cfg.SessionTTL()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, ttl)

	timeout, err := cfg.OCRTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)

	cfg.Server.ShutdownTimeout = "-1s"
	_, err = cfg.ShutdownTimeout()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown engine", func(c *Config) { c.OCR.Engines = []string{"easyocr"} }},
		{"no engines", func(c *Config) { c.OCR.Engines = nil }},
		{"bad ttl", func(c *Config) { c.Server.SessionTTL = "soon" }},
		{"zero body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
		{"no users", func(c *Config) { c.Auth.Users = "nobody" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
