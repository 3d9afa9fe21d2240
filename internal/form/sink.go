package form

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Digital-Shane/rlz-tidy/internal/media"
	"github.com/Digital-Shane/rlz-tidy/internal/provider"
)

// JSONSink implements provider.Sink by writing the upload form of every
// accepted record as one JSON document.
type JSONSink struct {
	w        io.Writer
	renderer provider.Renderer
	template string
}

// SinkOption configures a JSONSink.
type SinkOption func(*JSONSink)

// WithDescription fills the form description by rendering template.
func WithDescription(r provider.Renderer, template string) SinkOption {
	return func(s *JSONSink) {
		s.renderer = r
		s.template = template
	}
}

// NewJSONSink returns a sink writing to w.
func NewJSONSink(w io.Writer, opts ...SinkOption) *JSONSink {
	s := &JSONSink{w: w}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Accept writes the form for rec.
func (s *JSONSink) Accept(ctx context.Context, rec *media.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := Build(rec)
	if s.renderer != nil && s.template != "" {
		desc, err := s.renderer.Render(s.template, rec)
		if err != nil {
			return fmt.Errorf("failed to render description: %w", err)
		}
		f.Description = desc
	}

	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to write form: %w", err)
	}
	return nil
}
