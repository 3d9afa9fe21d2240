package cmd

import (
	"fmt"

	"github.com/Digital-Shane/rlz-tidy/internal/core"
	"github.com/Digital-Shane/rlz-tidy/internal/log"
	"github.com/Digital-Shane/rlz-tidy/internal/media"
	"github.com/Digital-Shane/rlz-tidy/internal/mediainfo"
	"github.com/Digital-Shane/rlz-tidy/internal/provider/ffprobe"
	"github.com/spf13/cobra"
)

func newNameCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "name <release>...",
		Short: "Describe releases from their names only",
		Long: `Tokenize and normalize release names without any MediaInfo report.

Only what the name tells is known: picture measurements stay empty.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := &environment{opts: opts, out: cmd.OutOrStdout()}
			for _, name := range args {
				if err := env.printRecord(core.FromName(name)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newParseCommand(opts *rootOptions) *cobra.Command {
	var (
		release string
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "parse <report>...",
		Short: "Describe releases from MediaInfo reports",
		Long: `Parse MediaInfo text reports, in any interface language of the dictionary,
and merge them with the release name found in the report.

Use "-" to read a report from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts, args)
			if err != nil {
				return err
			}
			defer env.close()

			if raw {
				return env.printDocuments(cmd, args)
			}

			failed := 0
			for _, path := range args {
				rec, err := env.processReport(cmd, path, release)
				log.LogParse(path, releaseOf(rec), err)
				if err != nil {
					env.logger.Error().Err(err).Str("report", path).Msg("cmd: parse failed")
					failed++
					continue
				}
				if err := env.printRecord(rec); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d reports failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&release, "release", "", "Release name to use when a report has no complete name")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the parsed report sections instead of a record")
	return cmd
}

// processReport runs the pipeline on the report stored at path. The release
// name falls back to fallback, then to the report file name.
func (e *environment) processReport(cmd *cobra.Command, path, fallback string) (*media.Record, error) {
	report, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	if fallback == "" {
		fallback = releaseFromPath(path)
	}

	p, err := e.pipeline(core.WithFallbackName(fallback))
	if err != nil {
		return nil, err
	}
	return p.Process(cmd.Context(), report)
}

// printDocuments prints the pivot-language sections of every report.
func (e *environment) printDocuments(cmd *cobra.Command, paths []string) error {
	dict, err := e.cfg.Dictionary()
	if err != nil {
		return err
	}
	for _, path := range paths {
		report, err := readInput(cmd, path)
		if err != nil {
			return err
		}
		doc, err := mediainfo.Parse(report, dict)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := writeJSON(e.out, doc); err != nil {
			return err
		}
	}
	return nil
}

func newProbeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <media-file>...",
		Short: "Describe media files by probing them with ffprobe",
		Long: `Measure media files with ffprobe instead of reading a MediaInfo report.

The release name is taken from the file name. ffprobe must be installed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts, args)
			if err != nil {
				return err
			}
			defer env.close()

			source := ffprobe.New()
			failed := 0
			for _, path := range args {
				rec, err := env.probe(cmd, source, path)
				log.LogProbe(path, releaseOf(rec), err)
				if err != nil {
					env.logger.Error().Err(err).Str("file", path).Msg("cmd: probe failed")
					failed++
					continue
				}
				if err := env.printRecord(rec); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func (e *environment) probe(cmd *cobra.Command, source *ffprobe.Source, path string) (*media.Record, error) {
	doc, err := source.Probe(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	p, err := e.pipeline(core.WithFallbackName(releaseFromPath(path)))
	if err != nil {
		return nil, err
	}
	return p.ProcessDocument(cmd.Context(), doc)
}
