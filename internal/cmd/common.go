package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/rlz-tidy/internal/config"
	"github.com/Digital-Shane/rlz-tidy/internal/core"
	"github.com/Digital-Shane/rlz-tidy/internal/log"
	"github.com/Digital-Shane/rlz-tidy/internal/media"
	"github.com/Digital-Shane/rlz-tidy/internal/provider/omdb"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// environment is what a command needs once flags and config are resolved.
type environment struct {
	cfg      *config.Config
	opts     *rootOptions
	logger   zerolog.Logger
	registry *config.TemplateRegistry
	enricher *omdb.Enricher
	out      io.Writer
}

// setup loads the configuration, builds the logger and opens a journal
// session for cmd. Callers must defer env.close().
func setup(cmd *cobra.Command, opts *rootOptions, args []string) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger, err := log.NewLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return nil, err
	}

	if opts.dictionary != "" {
		cfg.DictionaryPath = opts.dictionary
	}

	env := &environment{
		cfg:      cfg,
		opts:     opts,
		logger:   logger,
		registry: config.NewTemplateRegistry(),
		out:      cmd.OutOrStdout(),
	}

	if !opts.noEnrich && cfg.EnableOMDBLookup && cfg.OMDBAPIKey != "" {
		enricher, err := omdb.New(cfg.OMDBAPIKey, omdb.WithPlot(cfg.OMDBPlot))
		if err != nil {
			return nil, fmt.Errorf("failed to create OMDb enricher: %w", err)
		}
		if err := env.registry.RegisterProvider(enricher); err != nil {
			return nil, err
		}
		env.enricher = enricher
	} else if cfg.NeedsMetadata() {
		logger.Debug().Msg("cmd: template uses OMDb variables but enrichment is disabled")
	}

	log.Initialize(cfg.EnableLogging, cfg.LogRetentionDays, logger)
	if err := log.StartSession(cmd.Name(), args); err != nil {
		logger.Warn().Err(err).Msg("cmd: failed to start session journal")
	}

	return env, nil
}

// close writes the journal session.
func (e *environment) close() {
	if err := log.EndSession(); err != nil {
		e.logger.Warn().Err(err).Msg("cmd: failed to write session journal")
	}
}

// pipeline returns a pipeline wired with the configured dictionary and
// enricher, plus opts.
func (e *environment) pipeline(opts ...core.PipelineOption) (*core.Pipeline, error) {
	dict, err := e.cfg.Dictionary()
	if err != nil {
		return nil, err
	}

	base := []core.PipelineOption{
		core.WithDictionary(dict),
		core.WithLogger(e.logger),
	}
	if e.enricher != nil {
		base = append(base, core.WithEnricher(e.enricher))
	}
	return core.NewPipeline(append(base, opts...)...), nil
}

// renderWith renders template instead of the configured description.
func (e *environment) renderWith(template string) func(*media.Record) (string, error) {
	return func(rec *media.Record) (string, error) {
		return e.registry.Render(template, rec)
	}
}

// printRecord writes rec as JSON or as a themed summary.
func (e *environment) printRecord(rec *media.Record) error {
	if e.opts.jsonOutput {
		return writeJSON(e.out, rec)
	}
	_, err := fmt.Fprintln(e.out, e.opts.theme().Summary(rec))
	return err
}

func releaseOf(rec *media.Record) string {
	if rec == nil {
		return ""
	}
	return rec.General.ReleaseName
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput returns the decoded report stored at path, or read from stdin
// when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read report: %w", err)
	}
	return decodeReport(data)
}

// releaseFromPath guesses a release name from a report or media file name.
func releaseFromPath(path string) string {
	if path == "-" {
		return ""
	}
	base := filepath.Base(path)
	for _, suffix := range []string{".mediainfo.txt", ".txt", ".nfo"} {
		if strings.HasSuffix(strings.ToLower(base), suffix) {
			return base[:len(base)-len(suffix)]
		}
	}
	return base
}
