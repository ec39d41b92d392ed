package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/mdlgraph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("mdlgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
mdlgraph - imports a block-diagram document into the internal graph model.

Usage:
  mdlgraph [options] [FILE]

Arguments:
  FILE
    Path to the diagram document to import.

Options:
`)
		flagSet.PrintDefaults()
	}

	fileFlag := flagSet.String("f", "", "Path to the diagram document (shorthand for the positional argument).")
	catalogFlag := flagSet.String("catalog", "", "Path to a directory of .hcl block-type catalog manifests. Empty uses the built-in catalog.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *fileFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return &app.Config{
		FilePath:    path,
		CatalogPath: *catalogFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	}, false, nil
}
