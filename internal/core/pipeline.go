package core

import (
	"context"
	"fmt"

	"github.com/Digital-Shane/rlz-tidy/internal/media"
	"github.com/Digital-Shane/rlz-tidy/internal/mediainfo"
	"github.com/Digital-Shane/rlz-tidy/internal/provider"
	"github.com/moistari/rls"
	"github.com/rs/zerolog"
)

// Pipeline turns a MediaInfo report into a final record: the release name is
// read from the report, tokenized, merged with the measured video properties,
// then handed to the enrichers and sinks.
type Pipeline struct {
	dict         *mediainfo.Dictionary
	enrichers    []provider.Enricher
	sinks        []provider.Sink
	fallbackName string
	logger       zerolog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithDictionary replaces the embedded MediaInfo dictionary.
func WithDictionary(d *mediainfo.Dictionary) PipelineOption {
	return func(p *Pipeline) { p.dict = d }
}

// WithEnricher appends an enricher. Enrichers run in registration order.
func WithEnricher(e provider.Enricher) PipelineOption {
	return func(p *Pipeline) {
		if e != nil {
			p.enrichers = append(p.enrichers, e)
		}
	}
}

// WithSink appends a sink. Sinks run in registration order.
func WithSink(s provider.Sink) PipelineOption {
	return func(p *Pipeline) {
		if s != nil {
			p.sinks = append(p.sinks, s)
		}
	}
}

// WithFallbackName sets the release name used when the report has no
// General/CompleteName field, typically the report's own file name.
func WithFallbackName(name string) PipelineOption {
	return func(p *Pipeline) { p.fallbackName = name }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline constructs a pipeline. Without options it parses with the
// embedded dictionary and neither enriches nor emits the record.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	if p.dict == nil {
		p.dict = mediainfo.DefaultDictionary()
	}
	return p
}

// Process parses a MediaInfo text report and runs the rest of the pipeline.
func (p *Pipeline) Process(ctx context.Context, report string) (*media.Record, error) {
	doc, err := mediainfo.Parse(report, p.dict)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	p.logger.Debug().
		Str("language", doc.Language).
		Int("sections", len(doc.Sections)).
		Msg("pipeline: parsed metadata")
	return p.ProcessDocument(ctx, doc)
}

// ProcessDocument runs the pipeline on an already parsed document, such as
// one built by the ffprobe source.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc *mediainfo.Document) (*media.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := p.fallbackName
	if general := doc.First(mediainfo.SectionGeneral); general != nil {
		if complete := general.Raw(mediainfo.FieldCompleteName); complete != "" {
			name = complete
		}
	}

	rec, err := Merge(FromName(name), doc)
	if err != nil {
		return nil, fmt.Errorf("failed to merge metadata for %q: %w", name, err)
	}
	p.logger.Debug().
		Str("release", rec.General.ReleaseName).
		Str("format", media.Value(rec.Video.Format)).
		Str("codec", media.Value(rec.Video.Codec)).
		Msg("pipeline: merged record")

	for _, e := range p.enrichers {
		if err := e.Enrich(ctx, rec); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// Enrichment only fills presentation fields; the record stays valid.
			p.logger.Warn().Err(err).Str("enricher", e.Name()).Str("title", rec.General.Title).Msg("pipeline: enrichment failed")
		}
	}

	for i, s := range p.sinks {
		if err := s.Accept(ctx, rec); err != nil {
			return nil, fmt.Errorf("sink %d rejected record: %w", i, err)
		}
	}
	return rec, nil
}

// FromName tokenizes and normalizes a release name and fills in the release
// group.
func FromName(name string) *media.Record {
	rec := media.TokenizeAndNormalize(name)
	rec.General.Group = ReleaseGroup(rec.General.ReleaseName)
	return rec
}

// ReleaseGroup returns the scene group of a release name, or "".
func ReleaseGroup(releaseName string) string {
	if releaseName == "" {
		return ""
	}
	return rls.ParseString(releaseName).Group
}
