package theme

import (
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
)

// IconSet represents a collection of icons keyed by semantic usage.
type IconSet map[string]string

// clone returns a copy of the icon set to avoid shared mutation across themes.
func (s IconSet) clone() IconSet {
	if s == nil {
		return nil
	}
	clone := make(IconSet, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Colors holds the shared color palette of the terminal output.
type Colors struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
}

// Borders defines reusable border styles.
type Borders struct {
	Panel lipgloss.Border
}

// Spacing captures commonly used spacing values.
type Spacing struct {
	PanelPadding int
	LabelWidth   int
}

// BadgeKind enumerates supported badge style variants.
type BadgeKind int

const (
	BadgeInfo BadgeKind = iota
	BadgeSuccess
	BadgeError
	BadgeMuted
)

// Theme centralizes palette, border, spacing, and icon configuration.
type Theme struct {
	colors   Colors
	borders  Borders
	spacing  Spacing
	icons    IconSet
	fallback IconSet
}

// Option configures a Theme during construction.
type Option func(*Theme)

// WithIconSet overrides the icon set used by the theme.
func WithIconSet(set IconSet) Option {
	return func(t *Theme) {
		t.icons = set.clone()
	}
}

// WithASCIIIcons forces the ASCII icon set, for terminals and logs that
// cannot display emoji.
func WithASCIIIcons() Option {
	return WithIconSet(asciiIcons)
}

var (
	defaultColors = Colors{
		Primary:    lipgloss.Color("#3a6b4a"),
		Secondary:  lipgloss.Color("#5a8c6a"),
		Accent:     lipgloss.Color("#8fc279"),
		Background: lipgloss.Color("#f8f8f8"),
		Muted:      lipgloss.Color("#9ba8c0"),
		Success:    lipgloss.Color("#5dc796"),
		Error:      lipgloss.Color("#f04c56"),
	}
	defaultSpacing = Spacing{PanelPadding: 1, LabelWidth: 14}
)

// New constructs a Theme with optional overrides applied.
func New(opts ...Option) Theme {
	t := Theme{
		colors:   defaultColors,
		borders:  Borders{Panel: lipgloss.RoundedBorder()},
		spacing:  defaultSpacing,
		icons:    defaultIconSet(),
		fallback: asciiIcons.clone(),
	}

	for _, opt := range opts {
		opt(&t)
	}

	if t.icons == nil {
		t.icons = defaultIconSet()
	}

	return t
}

// Default returns the default Theme configuration.
func Default() Theme {
	return New()
}

// Icon returns a themed icon with ASCII fallback if unavailable.
func (t Theme) Icon(name string) string {
	if icon, ok := t.icons[name]; ok {
		return icon
	}
	if icon, ok := t.fallback[name]; ok {
		return icon
	}
	return ""
}

// HeaderStyle returns the shared style used for primary headers.
func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Background(t.colors.Primary).
		Foreground(t.colors.Background).
		Align(lipgloss.Center)
}

// LabelStyle returns the style of the field labels of a summary.
func (t Theme) LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(t.colors.Secondary).
		Width(t.spacing.LabelWidth)
}

// MutedStyle returns the style used for secondary information.
func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Italic(true).
		Foreground(t.colors.Muted)
}

// PanelStyle returns the shared panel container style.
func (t Theme) PanelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(t.borders.Panel).
		BorderForeground(t.colors.Accent).
		Padding(t.spacing.PanelPadding)
}

// BadgeStyle returns the shared badge style for the requested variant.
func (t Theme) BadgeStyle(kind BadgeKind) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	switch kind {
	case BadgeSuccess:
		return base.Background(t.colors.Success).Foreground(t.colors.Background)
	case BadgeError:
		return base.Background(t.colors.Error).Foreground(t.colors.Background)
	case BadgeMuted:
		return base.Background(t.colors.Muted).Foreground(t.colors.Background)
	default:
		return base.Background(t.colors.Accent).Foreground(t.colors.Background)
	}
}

// defaultIconSet chooses the best icon set for the current terminal.
func defaultIconSet() IconSet {
	if isLimitedTerminal() {
		return asciiIcons.clone()
	}
	return emojiIcons.clone()
}

// isLimitedTerminal detects environments where ASCII icons are preferable.
func isLimitedTerminal() bool {
	if os.Getenv("SSH_CLIENT") != "" || os.Getenv("SSH_TTY") != "" || os.Getenv("SSH_CONNECTION") != "" {
		return true
	}
	return runtime.GOOS == "windows"
}

var emojiIcons = IconSet{
	"release":  "🏷️",
	"title":    "🎬",
	"series":   "📺",
	"calendar": "📅",
	"source":   "💿",
	"video":    "🎥",
	"audio":    "🔊",
	"language": "🌐",
	"group":    "👥",
	"genres":   "🎭",
	"rating":   "⭐",
	"plot":     "📖",
	"poster":   "🖼️",
	"trailer":  "❓",
	"form":     "📋",
	"success":  "✅",
	"error":    "❌",
	"unknown":  "❓",
}

var asciiIcons = IconSet{
	"release":  "[R]",
	"title":    "[T]",
	"series":   "[S]",
	"calendar": "[C]",
	"source":   "[O]",
	"video":    "[V]",
	"audio":    "[A]",
	"language": "[L]",
	"group":    "[G]",
	"genres":   "[#]",
	"rating":   "[*]",
	"plot":     "[P]",
	"poster":   "[I]",
	"trailer":  "[?]",
	"form":     "[F]",
	"success":  "[v]",
	"error":    "[!]",
	"unknown":  "[?]",
}
