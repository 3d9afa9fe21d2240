package provider

import (
	"context"

	"github.com/Digital-Shane/rlz-tidy/internal/media"
)

// Enricher fills the presentation fields of a record (poster, plot, genres,
// rating) from an external catalog. Fields extracted from the release name or
// the MediaInfo report are never modified.
type Enricher interface {
	// Identification
	Name() string

	// Template variables this enricher makes meaningful
	SupportedVariables() []TemplateVariable

	Enrich(ctx context.Context, rec *media.Record) error
}

// Sink receives the final record, e.g. to populate an upload form.
type Sink interface {
	Accept(ctx context.Context, rec *media.Record) error
}

// Renderer expands a description template with the values of a record.
type Renderer interface {
	Render(template string, rec *media.Record) (string, error)
}

// TemplateVariable describes a template variable that a provider can supply
type TemplateVariable struct {
	Name        string // Variable name (without braces), e.g., "plot"
	DisplayName string // Human-readable name
	Description string // Description of what this variable contains
	Example     string // Example value
	Provider    string // Provider that supplies this variable
	Category    string // Category for grouping (e.g., "release", "media", "catalog")
}

// Error codes used by ProviderError.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeAuthFailed     = "AUTH_FAILED"
	CodeNotFound       = "NOT_FOUND"
	CodeRateLimited    = "RATE_LIMITED"
	CodeUnknown        = "UNKNOWN"
)

// ProviderError represents an error from a provider
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	Retry      bool
	RetryAfter int // Seconds to wait before retry
}

func (e *ProviderError) Error() string {
	return e.Message
}
