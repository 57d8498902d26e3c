package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/flowsheetgo/internal/app"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("flowsheetgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
FlowsheetGo - A declarative steady-state process flowsheet solver.

Usage:
  flowsheetgo [options] [FLOWSHEET_PATH]

Arguments:
  FLOWSHEET_PATH
    Path to a single .fs.hcl file or a directory containing .fs.hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	flowsheetFlag := flagSet.String("flowsheet", "", "Path to the flowsheet file or directory.")
	fFlag := flagSet.String("f", "", "Path to the flowsheet file or directory (shorthand).")
	outputFlag := flagSet.String("output", "table", "Report format. Options: 'table' or 'yaml'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	maxIterFlag := flagSet.Int("max-iterations", 0, "Override the solver iteration cap. 0 keeps the default.")
	toleranceFlag := flagSet.Float64("tolerance", 0, "Override the solver convergence tolerance. 0 keeps the default.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *flowsheetFlag != "" {
		path = *flowsheetFlag
	} else if *fFlag != "" {
		path = *fFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Flowsheet path determined.", "path", path)

	if path == "" {
		slog.Debug("No flowsheet path provided, printing usage and exiting.")
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

	outputFormat := strings.ToLower(*outputFlag)
	if outputFormat != "table" && outputFormat != "yaml" {
		return nil, false, &ExitError{Code: 2, Message: "invalid output: must be 'table' or 'yaml'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		FlowsheetPath:   path,
		Output:          outputFormat,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		MaxIterations:   *maxIterFlag,
		Tolerance:       *toleranceFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
