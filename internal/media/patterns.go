package media

import "regexp"

// delims is the character class that separates tags in a release name.
const delims = `[ _,.()\[\]\-]`

// tagPattern wraps a tag alternation so that it only matches when bounded by
// delimiters (or the end of the string). The tag itself is capture group 1.
func tagPattern(alternation string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + delims + `+(` + alternation + `)(?:` + delims + `|$)`)
}

// Release name tokenizer patterns.
var (
	// extensionRe matches the container extensions the tokenizer strips.
	extensionRe = regexp.MustCompile(`(?i)\.(avi|mp4|mkv|mov)$`)

	// seriesRe matches S01E02 style episode markers.
	seriesRe = regexp.MustCompile(`S(\d+)E(\d+)`)

	yearRe = tagPattern(`19\d{2}|20\d{2}`)

	sourceRe = tagPattern(`blue?[ .\-]?ray|b[rd][ .\-]?r?ip|dvd[ .\-]?rip|web[ .\-]?dl|(?:hd|sd)?[ .\-]?tv[ .\-]?(?:rip)?|bd[ .\-]?scr|dvd[ .\-]?scr|web[ .\-]?rip|dsr|preair|ppvrip|hd[ .\-]?rip|r5|tc|ts|cam|workprint`)

	formatRe = tagPattern(`1080p|1080i|720p|720i|hr|576p|480p|368p|360p`)

	videoCodecRe = tagPattern(`(?:[xh][ .\-]?264[ _,.()\[\]\-]?)?10[.\-]?bits?(?:[xh][.\-]?264[ _,.()\[\]\-]?)?|[xh][.\-]?264|xvid|divx`)

	// audioCodecRe tolerates a trailing channel layout (AC3.5.1) that is not
	// part of the captured codec.
	audioCodecRe = regexp.MustCompile(`(?i)` + delims + `+(dts|flac|ac3|aac|dd[ _.()\[\]\-]?5.?1|mp3)(?:[ _.()\[\]\-]?[12357]\.[01])?(?:` + delims + `|$)`)

	languageRe = tagPattern(`vo(?:.?st(?:.?(?:fr(?:e?nch)?|eng?))?)?|vf|vff|vfq|fr(?:e(?:nch)?)?|truefrench|multi`)

	// trailerRe captures whatever follows the first run of two or more
	// delimiters left over once the known tags are gone (usually -GROUP).
	trailerRe = regexp.MustCompile(delims + `{2,}.*$`)

	// separatorRunRe matches delimiter runs other than spaces.
	separatorRunRe = regexp.MustCompile(`[_,.()\[\]\-]+`)

	spaceRunRe = regexp.MustCompile(` {2,}`)
)

// Normalizer patterns. Each chain is evaluated in order and later matches
// overwrite earlier ones.
var (
	blurayRe = regexp.MustCompile(`(?i)blue?[ .\-]?ray|bd[ .\-]?rip`)
	bdripRe  = regexp.MustCompile(`(?i)b[rd][ .\-]?r?ip`)
	webdlRe  = regexp.MustCompile(`(?i)web[ .\-]?dl`)
	dvdripRe = regexp.MustCompile(`(?i)dvd[ .\-]?rip`)
	hdtvRe   = regexp.MustCompile(`(?i)hd[ .\-]?tv[ .\-]?(?:rip)?`)
	bdscrRe  = regexp.MustCompile(`(?i)bd[ .\-]?scr`)
	dvdscrRe = regexp.MustCompile(`(?i)dvd[ .\-]?scr`)
	webripRe = regexp.MustCompile(`(?i)web[ .\-]?rip`)
	hdripRe  = regexp.MustCompile(`(?i)hd[ .\-]?rip`)
	sdtvRe   = regexp.MustCompile(`(?i)^(?:sd)?[ .\-]?tv[ .\-]?(?:rip)?$`)
	h264Re   = regexp.MustCompile(`(?i)[xh][ .\-]?264|MPE?G.?4|AVC`)
	tenBitRe = regexp.MustCompile(`(?i)10[.\-]?bits?`)
	dd51Re   = regexp.MustCompile(`(?i)dd[ _.()\[\]\-]?5.?1`)
	voRe     = regexp.MustCompile(`(?i)vo`)
	vostRe   = regexp.MustCompile(`(?i)vo.?st`)
	vostfrRe = regexp.MustCompile(`(?i)vo.?st.?fr(?:e?nch)?`)
	vostenRe = regexp.MustCompile(`(?i)vo.?st.?eng?`)
	vffRe    = regexp.MustCompile(`(?i)VFF|TrueFrench`)
	vfqRe    = regexp.MustCompile(`(?i)VFQ|VF|fr(?:e(?:nch)?)?`)
)
