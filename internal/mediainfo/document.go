package mediainfo

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Pivot section names.
const (
	SectionGeneral = "General"
	SectionVideo   = "Video"
	SectionAudio   = "Audio"
	SectionText    = "Text"
)

// Pivot field names used by the pipeline.
const (
	FieldCompleteName      = "CompleteName"
	FieldFormat            = "Format"
	FieldCodecID           = "CodecID"
	FieldWidth             = "Width"
	FieldHeight            = "Height"
	FieldFrameRate         = "FrameRate"
	FieldBitDepth          = "BitDepth"
	FieldBitsPerPixelFrame = "Bits-(Pixel*Frame)"
	FieldLanguage          = "Language"
)

// Value is a section field: either the raw report string or, for the known
// numeric fields of Video sections, a coerced number.
type Value struct {
	raw   string
	num   float64
	isNum bool
}

// StringValue wraps a raw report string.
func StringValue(s string) Value {
	return Value{raw: s}
}

// NumberValue wraps a coerced number. The raw form is kept for display.
func NumberValue(n float64, raw string) Value {
	return Value{raw: raw, num: n, isNum: true}
}

// IsNumber reports whether the value was coerced.
func (v Value) IsNumber() bool { return v.isNum }

// Number returns the coerced number.
func (v Value) Number() (float64, bool) { return v.num, v.isNum }

// String returns the raw text, or the formatted number when there is none.
func (v Value) String() string {
	if v.isNum && v.raw == "" {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.raw
}

// MarshalJSON emits numbers as JSON numbers and everything else as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.raw)
}

// Section is one named block of the report. Field order follows first
// appearance; a repeated field overwrites the previous value.
type Section struct {
	Name   string
	fields map[string]Value
	keys   []string
}

// NewSection returns an empty section.
func NewSection(name string) *Section {
	return &Section{Name: name, fields: make(map[string]Value)}
}

// Set stores a field value.
func (s *Section) Set(key string, v Value) {
	if _, ok := s.fields[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.fields[key] = v
}

// Get returns a field value.
func (s *Section) Get(key string) (Value, bool) {
	v, ok := s.fields[key]
	return v, ok
}

// Raw returns the text of a field, or "" when it is missing.
func (s *Section) Raw(key string) string {
	return s.fields[key].String()
}

// Number returns a coerced numeric field.
func (s *Section) Number(key string) (float64, bool) {
	v, ok := s.fields[key]
	if !ok {
		return 0, false
	}
	return v.Number()
}

// Keys returns the field names in report order.
func (s *Section) Keys() []string {
	return append([]string(nil), s.keys...)
}

// MarshalJSON emits the section as {"name": ..., "fields": {...}} with the
// fields in report order.
func (s *Section) MarshalJSON() ([]byte, error) {
	name, err := json.Marshal(s.Name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	buf.Write(name)
	buf.WriteString(`,"fields":{`)
	for i, key := range s.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.fields[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// Document is the parsed report: sections in report order. Duplicate names
// are kept (one Audio section per track, for instance).
type Document struct {
	// Language is the detected interface language code, or PivotLanguage.
	Language string     `json:"language"`
	Sections []*Section `json:"sections"`
}

// First returns the first section with the given pivot name, or nil.
func (d *Document) First(name string) *Section {
	if d == nil {
		return nil
	}
	for _, s := range d.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// All returns every section with the given pivot name, in report order.
func (d *Document) All(name string) []*Section {
	if d == nil {
		return nil
	}
	var out []*Section
	for _, s := range d.Sections {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}
