package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Digital-Shane/rlz-tidy/internal/media"
	"github.com/Digital-Shane/rlz-tidy/internal/mediainfo"
	"github.com/Digital-Shane/rlz-tidy/internal/provider"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

const englishReport = `General
Complete name                            : /media/Hypothermia.2010.FRENCH.720p.BluRay.AC3-ARTEFAC.mkv
Format                                   : Matroska

Video
Format                                   : AVC
Codec ID                                 : V_MPEG4/ISO/AVC
Width                                    : 1 280 pixels
Height                                   : 720 pixels
Frame rate                               : 25.000 fps
Bit depth                                : 8 bits
Bits/(Pixel*Frame)                       : 0.353

Audio
Format                                   : AC-3
Language                                 : French
`

const frenchReport = "Général\r\n" +
	"Nom complet                              : D:\\Films\\Le.Film.2014.MULTi.1080p.BluRay.x264.DTS-GRP.mkv\r\n" +
	"\r\n" +
	"Vidéo\r\n" +
	"Identifiant du codec                     : V_MPEG4/ISO/AVC\r\n" +
	"Largeur                                  : 1 920 pixels\r\n" +
	"Hauteur                                  : 1 088 pixels\r\n" +
	"Fréquence d'images                       : 23,976 i/s\r\n" +
	"Profondeur des bits                      : 10 bits\r\n" +
	"Bits/(Pixel*Image)                       : 0,201\r\n"

type stubEnricher struct {
	err   error
	calls int
}

func (s *stubEnricher) Name() string { return "stub" }

func (s *stubEnricher) SupportedVariables() []provider.TemplateVariable { return nil }

func (s *stubEnricher) Enrich(ctx context.Context, rec *media.Record) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	rec.General.Plot = "plot for " + rec.General.Title
	rec.General.Genres = []string{"Drama"}
	return nil
}

type recordingSink struct {
	got []*media.Record
	err error
}

func (s *recordingSink) Accept(ctx context.Context, rec *media.Record) error {
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, rec)
	return nil
}

func TestPipelineProcessEnglish(t *testing.T) {
	t.Parallel()

	enricher := &stubEnricher{}
	sink := &recordingSink{}
	p := NewPipeline(WithEnricher(enricher), WithSink(sink))

	got, err := p.Process(context.Background(), englishReport)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := media.NewRecord()
	want.General.ReleaseName = "Hypothermia.2010.FRENCH.720p.BluRay.AC3-ARTEFAC"
	want.General.Title = "Hypothermia"
	want.General.Year = media.Ptr(2010)
	want.General.FileExtension = media.Ptr("mkv")
	want.General.OriginalSource = media.Ptr("bluray")
	want.General.Group = "ARTEFAC"
	want.General.Plot = "plot for Hypothermia"
	want.General.Genres = []string{"Drama"}
	want.Video.Format = media.Ptr("720p")
	want.Video.Codec = media.Ptr("h264")
	want.Video.Framerate = media.Ptr(25.0)
	want.Video.Height = media.Ptr(720.0)
	want.Languages.Slots[0] = media.LanguageSlot{Codec: media.Ptr("ac3"), Lang: media.Ptr(media.LangFrCA)}
	want.Languages.Tag = media.TagVFQ
	want.UnrecognizedTrailer = media.Ptr(".....-ARTEFAC")

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Process mismatch (-want +got):\n%s", diff)
	}
	if got.Standard() != "PAL" {
		t.Errorf("Standard() = %q, want PAL", got.Standard())
	}
	if enricher.calls != 1 {
		t.Errorf("enricher called %d times, want 1", enricher.calls)
	}
	if len(sink.got) != 1 || sink.got[0] != got {
		t.Errorf("sink should receive the returned record once, got %d records", len(sink.got))
	}
}

func TestPipelineProcessFrench(t *testing.T) {
	t.Parallel()

	got, err := NewPipeline().Process(context.Background(), frenchReport)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	checks := []struct {
		field string
		got   string
		want  string
	}{
		{"title", got.General.Title, "Le Film"},
		{"group", got.General.Group, "GRP"},
		{"format", media.Value(got.Video.Format), "1080p"},
		{"codec", media.Value(got.Video.Codec), "10bit"},
		{"audio", media.Value(got.Languages.Slots[0].Codec), "dts"},
		{"tag", got.Languages.Tag, "multi"},
		{"standard", got.Standard(), "NTSC"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if *got.Video.Height != 1088 || *got.Video.Framerate != 23.976 {
		t.Errorf("video = %vx%v, want height 1088 at 23.976", *got.Video.Height, *got.Video.Framerate)
	}
}

func TestPipelineFallbackName(t *testing.T) {
	t.Parallel()

	report := "Video\nWidth : 720 pixels\nHeight : 576 pixels\nFrame rate : 25.000 fps\nBit depth : 8 bits\nBits/(Pixel*Frame) : 0.3\nCodec ID : XVID"
	got, err := NewPipeline(WithFallbackName("Some.Movie.2001.DVDRip.XviD-GRP")).Process(context.Background(), report)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got.General.Title != "Some Movie" || media.Value(got.General.OriginalSource) != "dvd" {
		t.Errorf("fallback name not used: %+v", got.General)
	}
	if media.Value(got.Video.Format) != "544p" || media.Value(got.Video.Codec) != "xvid" {
		t.Errorf("video = %+v, want 544p xvid", got.Video)
	}
}

func TestPipelineEnrichmentFailureIsLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enricher := &stubEnricher{err: &provider.ProviderError{Provider: "stub", Code: provider.CodeNotFound, Message: "movie not found"}}
	sink := &recordingSink{}
	p := NewPipeline(
		WithEnricher(enricher),
		WithSink(sink),
		WithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel)),
	)

	got, err := p.Process(context.Background(), englishReport)
	if err != nil {
		t.Fatalf("Process should survive enrichment failures: %v", err)
	}
	if got.General.Plot != "" {
		t.Errorf("Plot = %q, want empty", got.General.Plot)
	}
	if len(sink.got) != 1 {
		t.Errorf("sink received %d records, want 1", len(sink.got))
	}
	if out := buf.String(); !strings.Contains(out, "enrichment failed") || !strings.Contains(out, "movie not found") {
		t.Errorf("log output = %q, want the enrichment failure", out)
	}
}

func TestPipelineErrors(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	sinkErr := errors.New("form closed")

	tests := []struct {
		name   string
		ctx    context.Context
		report string
		opts   []PipelineOption
		want   error
	}{
		{
			name:   "Malformed",
			ctx:    context.Background(),
			report: "Video\nWidth : 1 920 pixels",
			want:   mediainfo.ErrMalformedMetadata,
		},
		{
			name:   "NoVideo",
			ctx:    context.Background(),
			report: "General\nComplete name : Movie.2014.mkv",
			want:   ErrMissingVideoSection,
		},
		{
			name:   "Empty",
			ctx:    context.Background(),
			report: "",
			want:   ErrMissingVideoSection,
		},
		{
			name:   "Canceled",
			ctx:    canceled,
			report: englishReport,
			want:   context.Canceled,
		},
		{
			name:   "SinkRejects",
			ctx:    context.Background(),
			report: englishReport,
			opts:   []PipelineOption{WithSink(&recordingSink{err: sinkErr})},
			want:   sinkErr,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewPipeline(tc.opts...).Process(tc.ctx, tc.report)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Process error = %v, want %v", err, tc.want)
			}
			if got != nil {
				t.Error("Process should not return a record on error")
			}
		})
	}
}

func TestProcessDocumentFromProbe(t *testing.T) {
	t.Parallel()

	general := mediainfo.NewSection(mediainfo.SectionGeneral)
	general.Set(mediainfo.FieldCompleteName, mediainfo.StringValue("/videos/Show.S01E02.WEB-DL.mkv"))
	video := mediainfo.NewSection(mediainfo.SectionVideo)
	video.Set(mediainfo.FieldCodecID, mediainfo.StringValue("hevc"))
	video.Set(mediainfo.FieldBitDepth, mediainfo.NumberValue(8, "8 bits"))
	video.Set(mediainfo.FieldHeight, mediainfo.NumberValue(2160, "2160 pixels"))
	video.Set(mediainfo.FieldFrameRate, mediainfo.NumberValue(23.976, "23.976 fps"))
	doc := &mediainfo.Document{Sections: []*mediainfo.Section{general, video}}

	got, err := NewPipeline().ProcessDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("ProcessDocument: %v", err)
	}
	if got.General.Series == nil || got.General.Series.Season != 1 || got.General.Series.Episode != 2 {
		t.Errorf("Series = %+v, want S01E02", got.General.Series)
	}
	if media.Value(got.General.OriginalSource) != "webdl" || media.Value(got.Video.Codec) != "hevc" {
		t.Errorf("source/codec = %q/%q, want webdl/hevc", media.Value(got.General.OriginalSource), media.Value(got.Video.Codec))
	}
}

func TestReleaseGroup(t *testing.T) {
	t.Parallel()
	tests := []struct{ in, want string }{
		{"Hypothermia.2010.FRENCH.720p.BluRay.AC3-ARTEFAC", "ARTEFAC"},
		{"Show.Name.S02E05.HDTV.x264-GROUP", "GROUP"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := ReleaseGroup(tc.in); got != tc.want {
			t.Errorf("ReleaseGroup(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
