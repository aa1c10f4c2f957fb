// Fieldkit-demo is an interactive signup form built from the fieldkit
// components.
//
// It starts an in-process backend unless --endpoint points at another
// one, then runs the form full screen. Logs go to a file given with
// --log-file or FIELDKIT_LOG_FILE since the terminal belongs to the UI.
//
// Usage:
//
//	fieldkit-demo [command] [flags]
//
// Running without arguments launches the form.
// See 'fieldkit-demo --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/fieldkit/internal/logging"
	"github.com/muurk/fieldkit/internal/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fieldkit-demo",
	Short: "Fieldkit interactive form demo",
	Long: `An interactive signup form exercising the fieldkit components.

Shows text fields with validation, a city combobox searching an HTTP
backend, a multiple choice combobox, a select, a pager with a jump menu
and a submit that maps server errors back onto the fields.

If no command is specified, the form will launch automatically.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeWithOptions(logging.Options{Level: logLevel, OutputPath: logFile})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the form when no subcommand provided
		return runForm(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fieldkit-demo %s\n", version.Get())
	},
}
