package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/vburojevic/platescan/internal/cli"
	"github.com/vburojevic/platescan/internal/config"
)

const quickStart = `platescan - read license plates and odometers from phone photos

START HERE:
  GEMINI_API_KEY=... LOGIN_USERS=admin:secret platescan serve

Then open the printed URL on the phone and log in.

Other useful commands:
  platescan doctor                          Check keys, users and engines
  platescan recognize plate photo.jpg       Run OCR on a local file
  platescan config generate > platescan.yaml
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Config values become flag defaults; explicit flags still win
	vars := kong.Vars{
		"config_format": cfg.Format,
		"config_level":  cfg.Level,
	}

	ctx := kong.Parse(&c,
		kong.Name("platescan"),
		kong.Description("platescan: license plate and odometer capture with OCR\n\nSTART HERE: platescan serve"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals, err := cli.NewGlobalsWithConfig(&c, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = globals.Logger.Sync() }()

	if err := ctx.Run(globals); err != nil {
		// CLIErrors have already been written in the selected format
		var cliErr *cli.CLIError
		if !errors.As(err, &cliErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		_ = globals.Logger.Sync()
		os.Exit(1)
	}
}
