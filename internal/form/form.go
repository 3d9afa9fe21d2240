// Package form maps a release record onto the choices of the tracker upload
// form: quality, language, video standard, season and episode, genres.
package form

import (
	"github.com/Digital-Shane/rlz-tidy/internal/media"
)

// Quality options of the upload form.
const (
	Quality1080    = "1080"
	Quality720     = "720"
	QualityBDrip   = "BDrip"
	QualityTVrip   = "TVrip"
	QualityTVripHD = "TVripHD"
)

// LanguageEnglish is selected for original version releases.
const LanguageEnglish = "Anglais"

// hdCodecs are the codecs that qualify a BluRay, WEB-DL or HDTV release for
// the HD quality options.
var hdCodecs = map[string]bool{
	"h264":  true,
	"h265":  true,
	"10bit": true,
}

// UploadForm holds the selections made on the upload page.
type UploadForm struct {
	ReleaseName string   `json:"release_name"`
	Season      *int     `json:"season,omitempty"`
	Episode     *int     `json:"episode,omitempty"`
	Standard    string   `json:"standard,omitempty"`
	Language    string   `json:"language,omitempty"`
	Quality     string   `json:"quality,omitempty"`
	Genres      []string `json:"genres"`
	Dimension   string   `json:"dimension"`
	Description string   `json:"description,omitempty"`
}

// Build computes the form selections for rec. It only reads the record.
func Build(rec *media.Record) UploadForm {
	f := UploadForm{Genres: []string{}, Dimension: "2D"}
	if rec == nil {
		return f
	}

	f.ReleaseName = rec.General.ReleaseName
	if s := rec.General.Series; s != nil {
		f.Season = media.Ptr(s.Season)
		f.Episode = media.Ptr(s.Episode)
	}
	f.Standard = rec.Standard()
	f.Language = Language(rec.Languages.Tag)
	f.Quality = Quality(
		media.Value(rec.General.OriginalSource),
		media.Value(rec.Video.Codec),
		media.Value(rec.Video.Format),
	)
	f.Genres = append(f.Genres, rec.General.Genres...)
	return f
}

// Language returns the language option for a classification tag.
func Language(tag string) string {
	switch tag {
	case media.TagVO, media.TagVOSTEN:
		return LanguageEnglish
	default:
		return tag
	}
}

// Quality returns the quality option for a source, codec and format
// combination. Sources without a dedicated rule map to themselves.
func Quality(source, codec, format string) string {
	switch source {
	case "bluray", "webdl":
		if hdCodecs[codec] {
			switch format {
			case "1080p":
				return Quality1080
			case "720p":
				return Quality720
			}
		}
		return QualityBDrip
	case "hdtv":
		if hdCodecs[codec] && (format == "720p" || format == "1080p") {
			return QualityTVripHD
		}
		return QualityTVrip
	case "sdtv":
		return QualityTVrip
	default:
		return source
	}
}
