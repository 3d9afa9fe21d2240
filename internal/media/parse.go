package media

import (
	"strconv"
	"strings"
)

// Release name tokenizer.
//
// A release name follows the community convention of a title followed by
// delimited tags (Title.2010.FRENCH.720p.BluRay.AC3-GROUP). Each tag category
// is searched once, in a fixed precedence, and every literal that matched is
// then cut from the working string so that only the title and an optional
// unrecognized trailer remain.

// tagCategory binds a tag pattern to the record field it feeds.
type tagCategory struct {
	find   func(string) string
	assign func(*Record, string)
}

// categories lists the tag scans in precedence order. The series marker and
// the year are handled separately because they carry numbers.
var categories = []tagCategory{
	{
		find:   firstGroup(sourceRe.FindStringSubmatch),
		assign: func(r *Record, v string) { r.General.OriginalSource = Ptr(v) },
	},
	{
		find:   firstGroup(formatRe.FindStringSubmatch),
		assign: func(r *Record, v string) { r.Video.Format = Ptr(v) },
	},
	{
		find:   firstGroup(videoCodecRe.FindStringSubmatch),
		assign: func(r *Record, v string) { r.Video.Codec = Ptr(v) },
	},
	{
		find:   firstGroup(audioCodecRe.FindStringSubmatch),
		assign: func(r *Record, v string) { r.PrimaryLanguage().Codec = Ptr(v) },
	},
	{
		find:   firstGroup(languageRe.FindStringSubmatch),
		assign: func(r *Record, v string) { r.PrimaryLanguage().Lang = Ptr(v) },
	},
}

func firstGroup(find func(string) []string) func(string) string {
	return func(s string) string {
		if m := find(s); len(m) >= 2 {
			return m[1]
		}
		return ""
	}
}

// TokenizeAndNormalize extracts tags from a release name, file name or path
// and canonicalizes them. It never fails: tags that are not found are left
// nil and an empty input yields a record with an empty title.
func TokenizeAndNormalize(text string) *Record {
	return Normalize(Tokenize(text))
}

// Tokenize extracts the raw tags of a release name without canonicalizing
// them.
func Tokenize(text string) *Record {
	rec := NewRecord()

	name := BaseName(strings.TrimSpace(text))
	if m := extensionRe.FindStringSubmatch(name); len(m) >= 2 {
		rec.General.FileExtension = Ptr(m[1])
		name = name[:len(name)-len(m[0])]
	}
	rec.General.ReleaseName = name
	if name == "" {
		return rec
	}

	// Literals to cut from the title, in removal order.
	var tags []string

	if m := seriesRe.FindStringSubmatch(name); len(m) >= 3 {
		season, err1 := strconv.Atoi(m[1])
		episode, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			rec.General.Series = &Series{Season: season, Episode: episode}
			tags = append(tags, m[0])
		}
	}

	if m := yearRe.FindStringSubmatch(name); len(m) >= 2 {
		if year, err := strconv.Atoi(m[1]); err == nil {
			rec.General.Year = Ptr(year)
			tags = append(tags, m[1])
		}
	}

	for _, c := range categories {
		if v := c.find(name); v != "" {
			c.assign(rec, v)
			tags = append(tags, v)
		}
	}

	working := name
	for _, tag := range tags {
		working = strings.Replace(working, tag, "", 1)
	}

	if loc := trailerRe.FindStringIndex(working); loc != nil {
		rec.UnrecognizedTrailer = Ptr(working[loc[0]:])
		working = working[:loc[0]]
	}

	rec.General.Title = CleanTitle(working)
	return rec
}

// BaseName keeps the final segment of a Windows or POSIX path.
func BaseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i != -1 {
		return path[i+1:]
	}
	return path
}

// CleanTitle turns delimiter runs into single spaces and trims the result.
func CleanTitle(s string) string {
	s = separatorRunRe.ReplaceAllString(s, " ")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
