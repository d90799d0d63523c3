package cli

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/vburojevic/platescan/internal/config"
	"github.com/vburojevic/platescan/internal/output"
)

// CLI is the root command structure for platescan
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"${config_format}" enum:"ndjson,text" help:"Output format"`
	Level   string `short:"l" default:"${config_level}" enum:"debug,info,warn,error" help:"Minimum log level"`
	Quiet   bool   `short:"q" help:"Suppress banners and warnings"`
	Verbose bool   `short:"v" help:"Debug logging (engine attempts, requests)"`

	// Commands
	Serve      ServeCmd      `cmd:"" help:"Run the capture API server"`
	Recognize  RecognizeCmd  `cmd:"" help:"Read a plate or odometer from image files"`
	Config     ConfigCmd     `cmd:"" help:"Show or manage configuration"`
	Doctor     DoctorCmd     `cmd:"" help:"Check API keys, users and OCR engines"`
	Version    VersionCmd    `cmd:"" help:"Show version information"`
	Completion CompletionCmd `cmd:"" help:"Generate shell completions"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Level   string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Logger  *zap.Logger
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) (*Globals, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Globals{
		Format:  cli.Format,
		Level:   cli.Level,
		Quiet:   cli.Quiet || cfg.Quiet,
		Verbose: cli.Verbose || cfg.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}

	logger, err := NewLogger(g.Level, g.Verbose, g.Stderr)
	if err != nil {
		return nil, err
	}
	g.Logger = logger
	return g, nil
}

func (g *Globals) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteVersion(Version, Commit)
	}
	_, err := io.WriteString(globals.Stdout, "platescan version "+Version+" ("+Commit+")\n")
	return err
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
