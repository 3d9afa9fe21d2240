package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/Digital-Shane/rlz-tidy/internal/media"
	"github.com/Digital-Shane/rlz-tidy/internal/mediainfo"
	"github.com/google/go-cmp/cmp"
)

// videoReport builds a minimal English report with one Video section.
func videoReport(t *testing.T, fields ...string) *mediainfo.Document {
	t.Helper()
	lines := append([]string{"Video"}, fields...)
	doc, err := mediainfo.Parse(strings.Join(lines, "\n"), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func standardVideo(height, depth string, extra ...string) []string {
	return append([]string{
		"Width : 1 920 pixels",
		"Height : " + height,
		"Frame rate : 25.000 fps",
		"Bit depth : " + depth,
		"Bits/(Pixel*Frame) : 0.200",
	}, extra...)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		release string
		video   []string
		want    func() *media.Record
	}{
		{
			name:    "ReportOverridesName",
			release: "Hypothermia.2010.FRENCH.1080p.BluRay.AC3-ARTEFAC",
			video:   standardVideo("720 pixels", "8 bits", "Codec ID : V_MPEG4/ISO/AVC"),
			want: func() *media.Record {
				r := media.TokenizeAndNormalize("Hypothermia.2010.FRENCH.1080p.BluRay.AC3-ARTEFAC")
				r.Video.Format = media.Ptr("720p")
				r.Video.Codec = media.Ptr("h264")
				r.Video.Height = media.Ptr(720.0)
				r.Video.Framerate = media.Ptr(25.0)
				return r
			},
		},
		{
			name:    "TenBitForcesCodec",
			release: "Movie.2014.1080p.BluRay.x264-GRP",
			video:   standardVideo("1 088 pixels", "10 bits", "Codec ID : V_MPEG4/ISO/AVC"),
			want: func() *media.Record {
				r := media.TokenizeAndNormalize("Movie.2014.1080p.BluRay.x264-GRP")
				r.Video.Format = media.Ptr("1080p")
				r.Video.Codec = media.Ptr("10bit")
				r.Video.Height = media.Ptr(1088.0)
				r.Video.Framerate = media.Ptr(25.0)
				return r
			},
		},
		{
			name:    "FormatFallbackForCodec",
			release: "Movie.2014",
			video:   standardVideo("576 pixels", "8 bits", "Format : AVC"),
			want: func() *media.Record {
				r := media.TokenizeAndNormalize("Movie.2014")
				r.Video.Format = media.Ptr("544p")
				r.Video.Codec = media.Ptr("h264")
				r.Video.Height = media.Ptr(576.0)
				r.Video.Framerate = media.Ptr(25.0)
				return r
			},
		},
		{
			name:    "CodecIDPreferredOverFormat",
			release: "Movie.2014",
			video:   standardVideo("480 pixels", "8 bits", "Format : MPEG-4 Visual", "Codec ID : XVID"),
			want: func() *media.Record {
				r := media.TokenizeAndNormalize("Movie.2014")
				r.Video.Format = media.Ptr("480p")
				r.Video.Codec = media.Ptr("xvid")
				r.Video.Height = media.Ptr(480.0)
				r.Video.Framerate = media.Ptr(25.0)
				return r
			},
		},
		{
			name:    "TinyPictureKeepsNameFormat",
			release: "Clip.2001.720p",
			video:   standardVideo("240 pixels", "8 bits"),
			want: func() *media.Record {
				r := media.TokenizeAndNormalize("Clip.2001.720p")
				r.Video.Height = media.Ptr(240.0)
				r.Video.Framerate = media.Ptr(25.0)
				return r
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := media.TokenizeAndNormalize(tc.release)
			before := rec.Clone()

			got, err := Merge(rec, videoReport(t, tc.video...))
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if diff := cmp.Diff(tc.want(), got); diff != "" {
				t.Errorf("Merge mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(before, rec); diff != "" {
				t.Errorf("Merge modified its input (-before +after):\n%s", diff)
			}
		})
	}
}

func TestMergeIsNormalized(t *testing.T) {
	t.Parallel()
	rec := media.TokenizeAndNormalize("Film.2004.VOSTFR.BRRip.XviD-GRP")
	got, err := Merge(rec, videoReport(t, standardVideo("720 pixels", "8 bits", "Codec ID : XVID")...))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if diff := cmp.Diff(got, media.Normalize(got.Clone())); diff != "" {
		t.Errorf("merged record is not a normalization fixed point (-merged +renormalized):\n%s", diff)
	}
}

func TestMergeMissingVideo(t *testing.T) {
	t.Parallel()

	doc, err := mediainfo.Parse("General\nComplete name : Movie.2014.mkv\n\nAudio\nFormat : AC-3", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		name string
		doc  *mediainfo.Document
	}{
		{"AudioOnly", doc},
		{"Empty", &mediainfo.Document{}},
		{"Nil", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := media.TokenizeAndNormalize("Movie.2014.mkv")
			before := rec.Clone()

			got, err := Merge(rec, tc.doc)
			if !errors.Is(err, ErrMissingVideoSection) {
				t.Fatalf("Merge error = %v, want ErrMissingVideoSection", err)
			}
			if got != nil {
				t.Error("Merge should not return a record on error")
			}
			if diff := cmp.Diff(before, rec); diff != "" {
				t.Errorf("Merge modified its input (-before +after):\n%s", diff)
			}
		})
	}
}

func TestMergeUncoercedDocument(t *testing.T) {
	t.Parallel()
	video := mediainfo.NewSection(mediainfo.SectionVideo)
	video.Set(mediainfo.FieldHeight, mediainfo.NumberValue(720, "720 pixels"))
	doc := &mediainfo.Document{Sections: []*mediainfo.Section{mediainfo.NewSection(mediainfo.SectionGeneral), video}}

	_, err := Merge(media.NewRecord(), doc)
	var mErr *mediainfo.MalformedMetadataError
	if !errors.As(err, &mErr) {
		t.Fatalf("Merge error = %v, want *MalformedMetadataError", err)
	}
	want := mediainfo.MalformedMetadataError{Section: mediainfo.SectionVideo, Index: 1, Field: mediainfo.FieldFrameRate, Missing: true}
	if diff := cmp.Diff(want, *mErr); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeNilRecord(t *testing.T) {
	t.Parallel()
	got, err := Merge(nil, videoReport(t, standardVideo("1 080 pixels", "8 bits", "Codec ID : V_MPEG4/ISO/AVC")...))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if media.Value(got.Video.Format) != "1080p" || media.Value(got.Video.Codec) != "h264" {
		t.Errorf("Merge(nil) = %+v, want a fresh record with measured video", got.Video)
	}
	if len(got.Languages.Slots) != 1 {
		t.Errorf("Merge(nil) should keep the mandatory language slot, got %d", len(got.Languages.Slots))
	}
}

func TestFormatForHeight(t *testing.T) {
	t.Parallel()
	tests := []struct {
		height float64
		want   string
	}{
		{2160, "1080p"},
		{1088, "1080p"},
		{1080, "1080p"},
		{1021, "1080p"},
		{1020, "720p"},
		{720, "720p"},
		{681, "720p"},
		{680, "544p"},
		{576, "544p"},
		{501, "544p"},
		{500, "480p"},
		{480, "480p"},
		{401, "480p"},
		{400, "360p"},
		{360, "360p"},
		{321, "360p"},
		{320, ""},
		{0, ""},
	}
	for _, tc := range tests {
		if got := formatForHeight(tc.height); got != tc.want {
			t.Errorf("formatForHeight(%v) = %q, want %q", tc.height, got, tc.want)
		}
	}
}
