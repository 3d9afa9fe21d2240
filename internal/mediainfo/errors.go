package mediainfo

import (
	"errors"
	"fmt"
)

// ErrMalformedMetadata is matched by every MalformedMetadataError.
var ErrMalformedMetadata = errors.New("malformed metadata")

// MalformedMetadataError reports a numeric field of a Video section that is
// missing or cannot be parsed. MediaInfo always writes these fields, so the
// document is not the report we expect.
type MalformedMetadataError struct {
	Section string // pivot section name
	Index   int    // position of the section in the document
	Field   string // pivot field name
	Value   string // raw value, empty when the field is missing
	Missing bool
}

func (e *MalformedMetadataError) Error() string {
	if e.Missing {
		return fmt.Sprintf("malformed metadata: section %s #%d has no %s field", e.Section, e.Index, e.Field)
	}
	return fmt.Sprintf("malformed metadata: section %s #%d field %s: cannot parse %q", e.Section, e.Index, e.Field, e.Value)
}

// Is makes errors.Is(err, ErrMalformedMetadata) match.
func (e *MalformedMetadataError) Is(target error) bool {
	return target == ErrMalformedMetadata
}
