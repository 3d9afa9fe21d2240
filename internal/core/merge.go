package core

import (
	"errors"

	"github.com/Digital-Shane/rlz-tidy/internal/media"
	"github.com/Digital-Shane/rlz-tidy/internal/mediainfo"
)

// ErrMissingVideoSection is returned by Merge when the document describes no
// video stream.
var ErrMissingVideoSection = errors.New("metadata has no Video section")

// formatBreakpoints maps the measured picture height to a video format. The
// thresholds sit below the nominal heights to absorb cropping.
var formatBreakpoints = []struct {
	above  float64
	format string
}{
	{1020, "1080p"},
	{680, "720p"},
	{500, "544p"},
	{400, "480p"},
	{320, "360p"},
}

// formatForHeight returns the format for a picture height, or "" when the
// picture is too small to classify.
func formatForHeight(height float64) string {
	for _, bp := range formatBreakpoints {
		if height > bp.above {
			return bp.format
		}
	}
	return ""
}

// Merge overlays the measured properties of the first Video section of doc
// onto a copy of rec and normalizes the result. The MediaInfo values win over
// whatever the release name claimed. rec itself is never modified, and no
// record is returned on error.
func Merge(rec *media.Record, doc *mediainfo.Document) (*media.Record, error) {
	video := doc.First(mediainfo.SectionVideo)
	if video == nil {
		return nil, ErrMissingVideoSection
	}

	out := rec.Clone()
	if out == nil {
		out = media.NewRecord()
	}

	fps, ok := video.Number(mediainfo.FieldFrameRate)
	if !ok {
		return nil, missingField(doc, video, mediainfo.FieldFrameRate)
	}
	height, ok := video.Number(mediainfo.FieldHeight)
	if !ok {
		return nil, missingField(doc, video, mediainfo.FieldHeight)
	}
	out.Video.Framerate = media.Ptr(fps)
	out.Video.Height = media.Ptr(height)

	codec := video.Raw(mediainfo.FieldCodecID)
	if codec == "" {
		codec = video.Raw(mediainfo.FieldFormat)
	}
	if depth, ok := video.Number(mediainfo.FieldBitDepth); ok && depth == 10 {
		codec = "10bit"
	}
	if codec != "" {
		out.Video.Codec = media.Ptr(codec)
	}

	if format := formatForHeight(height); format != "" {
		out.Video.Format = media.Ptr(format)
	}

	return media.Normalize(out), nil
}

func missingField(doc *mediainfo.Document, s *mediainfo.Section, field string) error {
	index := 0
	for i, candidate := range doc.Sections {
		if candidate == s {
			index = i
			break
		}
	}
	raw, present := s.Get(field)
	return &mediainfo.MalformedMetadataError{
		Section: s.Name,
		Index:   index,
		Field:   field,
		Value:   raw.String(),
		Missing: !present,
	}
}
