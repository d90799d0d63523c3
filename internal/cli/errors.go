package cli

import (
	"github.com/vburojevic/platescan/internal/output"
)

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so scripts always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	cliErr := &CLIError{Code: code, Message: message}
	if len(hint) > 0 {
		cliErr.Hint = hint[0]
	}
	if globals != nil {
		emitCLIError(globals, cliErr)
	}
	return cliErr
}

func emitCLIError(globals *Globals, e *CLIError) {
	if globals.Format == "ndjson" {
		_ = output.NewNDJSONWriter(globals.Stdout).WriteError(e.Code, e.Message, e.Hint)
		return
	}
	_ = output.NewTextWriter(globals.Stderr).WriteError(e.Code, e.Message, e.Hint)
}

// emitWarning respects format/quiet.
func emitWarning(globals *Globals, msg string) {
	if globals.Quiet {
		return
	}
	if globals.Format == "ndjson" {
		_ = output.NewNDJSONWriter(globals.Stdout).WriteWarning(msg)
		return
	}
	_ = output.NewTextWriter(globals.Stderr).WriteWarning(msg)
}
