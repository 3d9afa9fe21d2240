package ffprobe

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/Digital-Shane/rlz-tidy/internal/mediainfo"
	"github.com/Digital-Shane/rlz-tidy/internal/provider"
	"gopkg.in/vansante/go-ffprobe.v2"
)

const providerName = "ffprobe"

// pixFmtDepthRe reads the component depth of planar formats like yuv420p10le.
var pixFmtDepthRe = regexp.MustCompile(`p(\d+)(?:le|be)$`)

// probeFunc defines the function signature used to execute ffprobe.
type probeFunc func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error)

// Source probes a video file and describes it as a MediaInfo document, so a
// file can stand in for a text report.
type Source struct {
	probe probeFunc
}

// New creates a new ffprobe source with default configuration.
func New() *Source {
	return &Source{
		probe: ffprobe.ProbeURL,
	}
}

// Name returns the provider name.
func (s *Source) Name() string {
	return providerName
}

// Probe runs ffprobe on path and converts its output. Section and field names
// are the pivot keys, and the Video section carries the same coerced numeric
// fields as a parsed report.
func (s *Source) Probe(ctx context.Context, path string) (*mediainfo.Document, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "MISSING_PATH",
			Message:  "ffprobe requires a non-empty file path",
			Retry:    false,
		}
	}

	data, err := s.probe(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     "PROBE_FAILED",
			Message:  fmt.Sprintf("ffprobe failed for %s: %v", path, err),
			Retry:    false,
		}
	}

	return buildDocument(path, data)
}

func buildDocument(path string, data *ffprobe.ProbeData) (*mediainfo.Document, error) {
	doc := &mediainfo.Document{Language: mediainfo.PivotLanguage}

	general := mediainfo.NewSection(mediainfo.SectionGeneral)
	name := path
	if data != nil && data.Format != nil {
		if data.Format.Filename != "" {
			name = data.Format.Filename
		}
		if data.Format.FormatName != "" {
			general.Set(mediainfo.FieldFormat, mediainfo.StringValue(data.Format.FormatName))
		}
	}
	general.Set(mediainfo.FieldCompleteName, mediainfo.StringValue(filepath.Clean(name)))
	doc.Sections = append(doc.Sections, general)

	if data == nil {
		return doc, nil
	}

	for _, stream := range data.Streams {
		if stream == nil {
			continue
		}
		switch stream.CodecType {
		case string(ffprobe.StreamVideo):
			section, err := videoSection(stream, len(doc.Sections))
			if err != nil {
				return nil, err
			}
			doc.Sections = append(doc.Sections, section)
		case string(ffprobe.StreamAudio):
			doc.Sections = append(doc.Sections, trackSection(mediainfo.SectionAudio, stream))
		case string(ffprobe.StreamSubtitle):
			doc.Sections = append(doc.Sections, trackSection(mediainfo.SectionText, stream))
		}
	}
	return doc, nil
}

func videoSection(stream *ffprobe.Stream, index int) (*mediainfo.Section, error) {
	s := mediainfo.NewSection(mediainfo.SectionVideo)
	s.Set("ID", mediainfo.StringValue(strconv.Itoa(stream.Index)))
	if codec := pickCodecName(stream); codec != "" {
		s.Set(mediainfo.FieldFormat, mediainfo.StringValue(strings.ToUpper(codec)))
		s.Set(mediainfo.FieldCodecID, mediainfo.StringValue(codec))
	}

	if stream.Width <= 0 {
		return nil, malformed(index, mediainfo.FieldWidth, strconv.Itoa(stream.Width))
	}
	if stream.Height <= 0 {
		return nil, malformed(index, mediainfo.FieldHeight, strconv.Itoa(stream.Height))
	}
	fps, ok := parseFrameRate(stream.RFrameRate)
	if !ok {
		fps, ok = parseFrameRate(stream.AvgFrameRate)
	}
	if !ok {
		return nil, malformed(index, mediainfo.FieldFrameRate, stream.RFrameRate)
	}
	depth := bitDepth(stream.PixFmt)

	width, height := float64(stream.Width), float64(stream.Height)
	s.Set(mediainfo.FieldBitDepth, mediainfo.NumberValue(depth, fmt.Sprintf("%d bits", int(depth))))
	s.Set(mediainfo.FieldWidth, mediainfo.NumberValue(width, fmt.Sprintf("%d pixels", stream.Width)))
	s.Set(mediainfo.FieldHeight, mediainfo.NumberValue(height, fmt.Sprintf("%d pixels", stream.Height)))
	s.Set(mediainfo.FieldFrameRate, mediainfo.NumberValue(fps, strconv.FormatFloat(fps, 'f', 3, 64)+" fps"))

	bpp := 0.0
	if rate, err := strconv.ParseFloat(stream.BitRate, 64); err == nil && rate > 0 {
		bpp = math.Round(rate/(width*height*fps)*1000) / 1000
	}
	s.Set(mediainfo.FieldBitsPerPixelFrame, mediainfo.NumberValue(bpp, strconv.FormatFloat(bpp, 'f', 3, 64)))
	return s, nil
}

func trackSection(name string, stream *ffprobe.Stream) *mediainfo.Section {
	s := mediainfo.NewSection(name)
	s.Set("ID", mediainfo.StringValue(strconv.Itoa(stream.Index)))
	if codec := pickCodecName(stream); codec != "" {
		s.Set(mediainfo.FieldFormat, mediainfo.StringValue(strings.ToUpper(codec)))
		s.Set(mediainfo.FieldCodecID, mediainfo.StringValue(codec))
	}
	return s
}

func malformed(index int, field, value string) error {
	return &mediainfo.MalformedMetadataError{
		Section: mediainfo.SectionVideo,
		Index:   index,
		Field:   field,
		Value:   value,
		Missing: value == "",
	}
}

// parseFrameRate reads ffprobe rationals such as "24000/1001" and rounds to
// the three decimals MediaInfo prints.
func parseFrameRate(value string) (float64, bool) {
	num, den, found := strings.Cut(value, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	d := 1.0
	if found {
		d, err = strconv.ParseFloat(den, 64)
		if err != nil || d <= 0 {
			return 0, false
		}
	}
	return math.Round(n/d*1000) / 1000, true
}

// bitDepth derives the sample depth from the pixel format, 8 when unstated.
func bitDepth(pixFmt string) float64 {
	if m := pixFmtDepthRe.FindStringSubmatch(pixFmt); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return float64(n)
		}
	}
	return 8
}

func pickCodecName(stream *ffprobe.Stream) string {
	if stream == nil {
		return ""
	}
	if stream.CodecName != "" {
		return stream.CodecName
	}
	return stream.CodecLongName
}
