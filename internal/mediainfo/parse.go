// Package mediainfo parses the text report written by MediaInfo into an
// ordered list of sections with language independent names.
package mediainfo

import (
	"regexp"
	"strconv"
	"strings"
)

// PivotLanguage identifies the untranslated representation. It is used when
// no token of the report belongs to a known language.
const PivotLanguage = ""

var (
	// sectionRe matches a header line: a single token such as "Video".
	sectionRe = regexp.MustCompile(`^\S+$`)

	// entryRe matches "Key name   : value". The key may contain single spaces.
	entryRe = regexp.MustCompile(`^(\S+(?:\s\S+)*)\s+: (.+)$`)

	bitDepthRe   = regexp.MustCompile(`(?i)(\d+).?bits?`)
	dimensionRe  = regexp.MustCompile(`\d+(?:[\s\x{00A0}\x{202F}]\d+)*`)
	decimalRe    = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	separatorsRe = regexp.MustCompile(`[\s\x{00A0}\x{202F}]`)
)

type lineKind int

const (
	lineUnrecognized lineKind = iota
	lineSection
	lineEntry
)

// line is a classified report line.
type line struct {
	kind  lineKind
	token string // section name or entry key
	value string
}

func classify(text []string) []line {
	out := make([]line, 0, len(text))
	for _, raw := range text {
		l := strings.TrimRight(raw, "\r")
		switch m := entryRe.FindStringSubmatch(l); {
		case sectionRe.MatchString(l):
			out = append(out, line{kind: lineSection, token: l})
		case m != nil:
			out = append(out, line{kind: lineEntry, token: m[1], value: m[2]})
		default:
			out = append(out, line{kind: lineUnrecognized})
		}
	}
	return out
}

// Detect returns the language whose vocabulary the report uses most.
//
// Each section name and entry key found in a language's vocabulary is one
// vote for it. The leader only changes when another language gets strictly
// more votes, so on a tie the language that reached the count first wins.
// Tokens known to several languages do not vote; a report made only of them
// goes to the first language that knows its first token. Without any known
// token the pivot language is returned.
func Detect(text string, dict *Dictionary) string {
	if dict == nil {
		dict = DefaultDictionary()
	}
	return detect(classify(strings.Split(text, "\n")), dict)
}

func detect(lines []line, dict *Dictionary) string {
	votes := make(map[string]int)
	leader, best := PivotLanguage, 0
	fallback := PivotLanguage
	for _, l := range lines {
		if l.kind == lineUnrecognized {
			continue
		}
		lang := dict.LanguageOf(l.token)
		if lang == "" {
			continue
		}
		if dict.Shared(l.token) {
			if fallback == PivotLanguage {
				fallback = lang
			}
			continue
		}
		votes[lang]++
		if votes[lang] > best {
			leader, best = lang, votes[lang]
		}
	}
	if best == 0 {
		return fallback
	}
	return leader
}

// Parse converts a MediaInfo text report into a Document.
//
// Section and field names are translated to pivot keys with dict (the
// embedded dictionary when nil). The Width, Height, FrameRate, BitDepth and
// Bits-(Pixel*Frame) fields of every Video section are coerced to numbers; a
// missing or unparsable one fails with a *MalformedMetadataError.
func Parse(text string, dict *Dictionary) (*Document, error) {
	if dict == nil {
		dict = DefaultDictionary()
	}

	lines := classify(strings.Split(text, "\n"))
	lang := detect(lines, dict)

	doc := &Document{Language: lang}
	var current *Section
	for _, l := range lines {
		switch l.kind {
		case lineSection:
			current = NewSection(dict.Translate(lang, l.token))
			doc.Sections = append(doc.Sections, current)
		case lineEntry:
			if current == nil {
				// Entries before the first header have no section to live in.
				continue
			}
			current.Set(dict.Translate(lang, l.token), StringValue(l.value))
		}
	}

	for i, s := range doc.Sections {
		if s.Name != SectionVideo {
			continue
		}
		if err := coerceVideo(s, i); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// videoNumericFields lists the coerced Video fields in coercion order.
var videoNumericFields = []struct {
	name  string
	parse func(string) (float64, bool)
}{
	{FieldBitDepth, parseBitDepth},
	{FieldWidth, parseDimension},
	{FieldHeight, parseDimension},
	{FieldFrameRate, parseDecimal},
	{FieldBitsPerPixelFrame, parseDecimal},
}

func coerceVideo(s *Section, index int) error {
	for _, f := range videoNumericFields {
		v, ok := s.Get(f.name)
		if !ok {
			return &MalformedMetadataError{Section: s.Name, Index: index, Field: f.name, Missing: true}
		}
		raw := v.String()
		n, ok := f.parse(raw)
		if !ok {
			return &MalformedMetadataError{Section: s.Name, Index: index, Field: f.name, Value: raw}
		}
		s.Set(f.name, NumberValue(n, raw))
	}
	return nil
}

// parseBitDepth reads "8 bits" or "10 bits".
func parseBitDepth(s string) (float64, bool) {
	m := bitDepthRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

// parseDimension reads "1 920 pixels", dropping thousands separators.
func parseDimension(s string) (float64, bool) {
	m := dimensionRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(separatorsRe.ReplaceAllString(m, ""))
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

// parseDecimal reads the first decimal number, accepting "," as the decimal
// mark used by the French report.
func parseDecimal(s string) (float64, bool) {
	m := decimalRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
