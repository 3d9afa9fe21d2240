package cmd

import (
	"os"

	"github.com/Digital-Shane/rlz-tidy/internal/tui/theme"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	logLevel   string
	dictionary string
	noEnrich   bool
	jsonOutput bool
	ascii      bool
}

// theme returns the output theme selected by the flags.
func (o *rootOptions) theme() theme.Theme {
	if o.ascii {
		return theme.New(theme.WithASCIIIcons())
	}
	return theme.Default()
}

// NewRootCommand builds the command tree of rlz-tidy.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "rlz-tidy",
		Short: "A tool for describing media releases",
		Long: `rlz-tidy turns a release name and its MediaInfo report into a structured
description of the release: title, year, source, picture format, codecs and
audio languages.

The description can be enriched with OMDb metadata, rendered through a
configurable template, or exported as a tracker upload form.`,
		SilenceUsage: true,
	}

	// Global flags for all commands
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Diagnostic log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.dictionary, "dictionary", "", "MediaInfo dictionary file to parse reports with")
	rootCmd.PersistentFlags().BoolVar(&opts.noEnrich, "no-enrich", false, "Skip OMDb enrichment even when configured")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print records as JSON instead of a summary")
	rootCmd.PersistentFlags().BoolVar(&opts.ascii, "ascii", false, "Use ASCII icons instead of emoji")

	rootCmd.AddCommand(
		newNameCommand(opts),
		newParseCommand(opts),
		newProbeCommand(opts),
		newRenderCommand(opts),
		newFormCommand(opts),
		newConfigCommand(),
		newHistoryCommand(opts),
	)

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		os.Exit(1)
	}
}
