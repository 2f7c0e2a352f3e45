package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/cellgridgo/internal/app"
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
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("cellgridgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
CellGridGo - compiles code, prompt, and code-generation cells into
invocable operation nodes and runs them.

Usage:
  cellgridgo [options] [CELLS_PATH]

Arguments:
  CELLS_PATH
    Path to a single .hcl cell file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	cellsFlag := flagSet.String("cells", "", "Path to the cell file or directory.")
	configFlag := flagSet.String("config", "", "Path to the engine configuration file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cellsPath := *cellsFlag
	if cellsPath == "" && flagSet.NArg() > 0 {
		cellsPath = flagSet.Arg(0)
	}
	if cellsPath == "" {
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "a cells path is required"}
	}

	cfg, err := app.NewConfig(app.Config{
		CellsPath:  cellsPath,
		ConfigPath: *configFlag,
		LogFormat:  *logFormatFlag,
		LogLevel:   *logLevelFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, false, nil
}
