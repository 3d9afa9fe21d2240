package media

import (
	"regexp"
	"slices"
	"strings"
)

// Canonical language values written by the language chain.
const (
	LangUnknown = "unknown"
	LangFrFR    = "fr-fr"
	LangFrCA    = "fr-ca"
	LangEnUS    = "en-us"
)

// Language classification tags.
const (
	TagVO     = "vo"
	TagVOST   = "vost"
	TagVOSTFR = "vostfr"
	TagVOSTEN = "vosten"
	TagVFF    = "vff"
	TagVFQ    = "vfq"
)

// canonicalLangs are the values the language chain produces. A slot already
// holding one of them has been classified and is not re-examined.
var canonicalLangs = []string{LangUnknown, LangFrFR, LangFrCA, LangEnUS}

// rewrite is one step of an override chain: when the pattern matches the
// original value the result is replaced by to.
type rewrite struct {
	re *regexp.Regexp
	to string
}

// sourceChain maps source spellings to canonical tokens. The checks are not
// exclusive; the last matching step wins.
var sourceChain = []rewrite{
	{blurayRe, "bluray"},
	{bdripRe, "bdrip"},
	{webdlRe, "webdl"},
	{dvdripRe, "dvd"},
	{hdtvRe, "hdtv"},
	{bdscrRe, "bdscr"},
	{dvdscrRe, "dvdscr"},
	{webripRe, "webrip"},
	{hdripRe, "hdrip"},
	{sdtvRe, "sdtv"},
}

// videoCodecChain lets the 10-bit flag win over the h264 family.
var videoCodecChain = []rewrite{
	{h264Re, "h264"},
	{tenBitRe, "10bit"},
}

var audioCodecChain = []rewrite{
	{dd51Re, "dd51"},
}

// applyChain runs every step against the original value and returns the
// lowercased result of the last step that matched.
func applyChain(value string, chain []rewrite) string {
	result := value
	for _, step := range chain {
		if step.re.MatchString(value) {
			result = step.to
		}
	}
	return strings.ToLower(result)
}

// langRule is one step of the language classification chain.
type langRule struct {
	match  func(raw string) bool
	effect func(l *Languages)
}

func matches(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

// langChain refines the classification step by step: vost refines vo, and
// vostfr/vosten refine vost. The vfq rule deliberately ignores vosten.
var langChain = []langRule{
	{
		match: matches(voRe),
		effect: func(l *Languages) {
			l.Slots[0].Lang = Ptr(LangUnknown)
			l.Tag = TagVO
		},
	},
	{
		match: matches(vostRe),
		effect: func(l *Languages) {
			l.Slots[0].Lang = Ptr(LangUnknown)
			if len(l.Slots) < 2 {
				l.Slots = append(l.Slots, LanguageSlot{Lang: Ptr(LangUnknown), Codec: Ptr("srt")})
			}
			l.Tag = TagVOST
		},
	},
	{
		match: matches(vostfrRe),
		effect: func(l *Languages) {
			l.subtitleSlot().Lang = Ptr(LangFrFR)
			l.Tag = TagVOSTFR
		},
	},
	{
		match: matches(vostenRe),
		effect: func(l *Languages) {
			l.subtitleSlot().Lang = Ptr(LangEnUS)
			l.Tag = TagVOSTEN
		},
	},
	{
		match: matches(vffRe),
		effect: func(l *Languages) {
			l.Slots[0].Lang = Ptr(LangFrFR)
			l.Tag = TagVFF
		},
	},
	{
		match: func(raw string) bool { return vfqRe.MatchString(raw) && !vostfrRe.MatchString(raw) },
		effect: func(l *Languages) {
			l.Slots[0].Lang = Ptr(LangFrCA)
			l.Tag = TagVFQ
		},
	},
}

// subtitleSlot returns the second slot, creating it when missing.
func (l *Languages) subtitleSlot() *LanguageSlot {
	for len(l.Slots) < 2 {
		l.Slots = append(l.Slots, LanguageSlot{Lang: Ptr(LangUnknown), Codec: Ptr("srt")})
	}
	return &l.Slots[1]
}

// Normalize canonicalizes the tag fields of r in place and returns it.
// Applying it twice gives the same record as applying it once.
func Normalize(r *Record) *Record {
	if r == nil {
		return nil
	}
	if len(r.Languages.Slots) == 0 {
		r.Languages.Slots = []LanguageSlot{{}}
	}

	if ext := r.General.FileExtension; ext != nil {
		r.General.FileExtension = Ptr(strings.ToLower(*ext))
	}
	if src := r.General.OriginalSource; src != nil {
		r.General.OriginalSource = Ptr(applyChain(*src, sourceChain))
	}
	if codec := r.Video.Codec; codec != nil {
		r.Video.Codec = Ptr(applyChain(*codec, videoCodecChain))
	}
	if codec := r.Languages.Slots[0].Codec; codec != nil {
		r.Languages.Slots[0].Codec = Ptr(applyChain(*codec, audioCodecChain))
	}
	if lang := r.Languages.Slots[0].Lang; lang != nil {
		classifyLanguage(&r.Languages, *lang)
	}
	return r
}

func classifyLanguage(l *Languages, raw string) {
	if slices.Contains(canonicalLangs, raw) {
		if l.Tag == "" {
			l.Tag = raw
		}
		return
	}

	fired := false
	for _, rule := range langChain {
		if rule.match(raw) {
			rule.effect(l)
			fired = true
		}
	}

	lang := strings.ToLower(Value(l.Slots[0].Lang))
	l.Slots[0].Lang = Ptr(lang)
	if !fired && l.Tag == "" {
		l.Tag = lang
	}
}
