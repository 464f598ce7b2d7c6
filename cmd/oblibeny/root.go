package main

import (
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/Hyperpolymath/boinc-boinc/internal/config"
)

var (
	flagInput   string
	flagJSON    bool
	flagPretty  bool
	flagVerbose bool
	flagFormat  string

	// flagFormatSet records whether --format was given explicitly, so
	// an env var or .oblibeny.yaml format is not masked by its default.
	flagFormatSet bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oblibeny",
		Short:         "Static analyzer for the Oblibeny embedded-deployment language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagInput, "input", "", "path to an Oblibeny source file (default: stdin)")
	root.PersistentFlags().BoolVar(&flagJSON, "json", false, "render output as JSON")
	root.PersistentFlags().BoolVar(&flagPretty, "pretty", false, "pretty-print the parsed AST")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable verbose diagnostic logging")
	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format for call-graph: text|dot")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		flagFormatSet = cmd.Flags().Changed("format")
		return validateFlags()
	}

	root.AddCommand(
		newParseCmd(),
		newAnalyzeCmd(),
		newCheckPhasesCmd(),
		newCheckTerminationCmd(),
		newResourcesCmd(),
		newCallGraphCmd(),
	)
	return root
}

// validateFlags collects every CLI-level configuration warning (as
// opposed to the four core analyses' single-error Result contracts)
// into one aggregate via go-multierror, so a user fixing conflicting
// flags sees every problem at once instead of one-at-a-time.
func validateFlags() error {
	var warnings *multierror.Error

	if flagJSON && flagPretty {
		warnings = multierror.Append(warnings, fmt.Errorf("--json and --pretty are mutually exclusive; --json output is always machine-parseable and ignores --pretty"))
	}
	switch flagFormat {
	case "text", "dot":
	default:
		warnings = multierror.Append(warnings, fmt.Errorf("--format %q is not one of text|dot", flagFormat))
	}

	return warnings.ErrorOrNil()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if err != errAnalysisFailed {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// setupLogging wires the charmbracelet/log diagnostic channel behind
// --verbose, matching SPEC_FULL.md §1.2's split between this channel
// and the report's own plain-text output.
func setupLogging() {
	level := charmlog.WarnLevel
	if flagVerbose {
		level = charmlog.DebugLevel
	}
	charmlog.SetLevel(level)
}

func loadConfig() (*config.Config, error) {
	format := ""
	if flagFormatSet {
		format = flagFormat
	}
	return config.Load(format, flagJSON, flagPretty, flagVerbose)
}

func openInput() (*os.File, string, error) {
	if flagInput == "" {
		return os.Stdin, "<stdin>", nil
	}
	f, err := os.Open(flagInput)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", flagInput, err)
	}
	return f, flagInput, nil
}
