// Package globals provides the flags shared by every command.
package globals

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/bookmap/internal/cmd/output"
)

// Flags holds the persistent root flags.
type Flags struct {
	Output  string
	Quiet   bool
	Verbose bool
	NoColor bool
}

// AddFlags registers the persistent flags on the root command.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", "",
		"Output format: table, json, yaml, wide")
	cmd.PersistentFlags().StringVar(&flags.Output, "format", "", "")
	_ = cmd.PersistentFlags().MarkHidden("format")

	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false,
		"Suppress toasts and status messages")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false,
		"Verbose output")
	cmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false,
		"Disable colored output")

	return flags
}

// Parse reads the persistent flags from the root of cmd's hierarchy.
func Parse(cmd *cobra.Command) *Flags {
	root := cmd.Root()
	output, _ := root.PersistentFlags().GetString("output")
	quiet, _ := root.PersistentFlags().GetBool("quiet")
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	noColor, _ := root.PersistentFlags().GetBool("no-color")

	return &Flags{
		Output:  output,
		Quiet:   quiet,
		Verbose: verbose,
		NoColor: noColor,
	}
}

// Format returns the output format, detecting it when not given.
func (f *Flags) Format() output.Format {
	return output.DetectFormat(f.Output)
}

// Structured reports whether output is machine-readable.
func (f *Flags) Structured() bool {
	format := f.Format()
	return format == output.FormatJSON || format == output.FormatYAML
}
