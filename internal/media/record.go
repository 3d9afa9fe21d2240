package media

// Series holds the season and episode numbers of an episodic release.
type Series struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

// General groups the release-wide fields of a Record.
type General struct {
	ReleaseName    string  `json:"release_name"`
	Title          string  `json:"title"`
	Year           *int    `json:"year"`
	FileExtension  *string `json:"file_extension"`
	OriginalSource *string `json:"original_source"`
	Series         *Series `json:"series"`
	Group          string  `json:"group,omitempty"`

	// Presentation fields, filled by enrichers only.
	Poster      string   `json:"poster,omitempty"`
	Plot        string   `json:"plot,omitempty"`
	Genres      []string `json:"genres"`
	Rating      *float64 `json:"rating"`
	RatingCount *int     `json:"rating_count"`
}

// Video groups the picture related fields of a Record.
type Video struct {
	Format    *string  `json:"format"`
	Codec     *string  `json:"codec"`
	Framerate *float64 `json:"framerate"`
	Height    *float64 `json:"height"`
}

// LanguageSlot is one audio or subtitle track description.
type LanguageSlot struct {
	Codec *string `json:"codec"`
	Lang  *string `json:"lang"`
}

// Languages is the ordered list of language slots plus the simplified
// classification tag (vo, vost, vostfr, vosten, vff, vfq, ...).
//
// Slots always holds at least one entry. A second entry only exists once the
// "vost" rule of Normalize added the subtitle track.
type Languages struct {
	Slots []LanguageSlot `json:"slots"`
	Tag   string         `json:"tag"`
}

// Record is the structured description of a release built by the pipeline.
// It is owned by the invocation that created it.
type Record struct {
	General             General   `json:"general"`
	Video               Video     `json:"video"`
	Languages           Languages `json:"languages"`
	UnrecognizedTrailer *string   `json:"unrecognized_trailer"`
}

// NewRecord returns an empty record with its single mandatory language slot.
func NewRecord() *Record {
	return &Record{
		General:   General{Genres: []string{}},
		Languages: Languages{Slots: []LanguageSlot{{}}},
	}
}

// Standard classifies the framerate as PAL (25 or 50 fps) or NTSC. It
// returns an empty string when the framerate is unknown.
func (r *Record) Standard() string {
	if r == nil || r.Video.Framerate == nil || *r.Video.Framerate == 0 {
		return ""
	}
	switch *r.Video.Framerate {
	case 25, 50:
		return "PAL"
	default:
		return "NTSC"
	}
}

// PrimaryLanguage returns the first language slot.
func (r *Record) PrimaryLanguage() *LanguageSlot {
	if len(r.Languages.Slots) == 0 {
		r.Languages.Slots = []LanguageSlot{{}}
	}
	return &r.Languages.Slots[0]
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.General.Year = clonePtr(r.General.Year)
	c.General.FileExtension = clonePtr(r.General.FileExtension)
	c.General.OriginalSource = clonePtr(r.General.OriginalSource)
	c.General.Series = clonePtr(r.General.Series)
	c.General.Rating = clonePtr(r.General.Rating)
	c.General.RatingCount = clonePtr(r.General.RatingCount)
	if r.General.Genres != nil {
		c.General.Genres = append([]string{}, r.General.Genres...)
	}
	c.Video = Video{
		Format:    clonePtr(r.Video.Format),
		Codec:     clonePtr(r.Video.Codec),
		Framerate: clonePtr(r.Video.Framerate),
		Height:    clonePtr(r.Video.Height),
	}
	c.Languages.Slots = make([]LanguageSlot, len(r.Languages.Slots))
	for i, s := range r.Languages.Slots {
		c.Languages.Slots[i] = LanguageSlot{Codec: clonePtr(s.Codec), Lang: clonePtr(s.Lang)}
	}
	c.UnrecognizedTrailer = clonePtr(r.UnrecognizedTrailer)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v. Handy for building records in tests and adapters.
func Ptr[T any](v T) *T {
	return &v
}

// Value dereferences an optional string, returning "" when absent.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
