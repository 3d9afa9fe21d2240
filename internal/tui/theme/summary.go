package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Digital-Shane/rlz-tidy/internal/media"
	"github.com/charmbracelet/lipgloss"
)

// plotWidth wraps long plots inside the summary panel.
const plotWidth = 60

// Summary renders rec as a panel with one labelled line per known field.
// Unknown fields are left out.
func (t Theme) Summary(rec *media.Record) string {
	if rec == nil {
		rec = media.NewRecord()
	}
	g := rec.General

	var lines []string
	add := func(icon, label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, t.field(icon, label, value))
	}

	add("title", "Title", g.Title)
	if g.Year != nil {
		add("calendar", "Year", strconv.Itoa(*g.Year))
	}
	if g.Series != nil {
		add("series", "Episode", fmt.Sprintf("S%02dE%02d", g.Series.Season, g.Series.Episode))
	}
	add("source", "Source", media.Value(g.OriginalSource))
	add("video", "Video", videoLine(rec))
	add("audio", "Audio", audioLine(rec))
	if rec.Languages.Tag != "" {
		add("language", "Language", t.BadgeStyle(BadgeInfo).Render(rec.Languages.Tag))
	}
	add("group", "Group", g.Group)
	add("genres", "Genres", strings.Join(g.Genres, ", "))
	if g.Rating != nil {
		rating := fmt.Sprintf("%.1f/10", *g.Rating)
		if g.RatingCount != nil {
			rating += t.MutedStyle().Render(fmt.Sprintf(" (%d votes)", *g.RatingCount))
		}
		add("rating", "Rating", rating)
	}
	add("poster", "Poster", g.Poster)
	if g.Plot != "" {
		add("plot", "Plot", lipgloss.NewStyle().Width(plotWidth).Render(g.Plot))
	}
	if rec.UnrecognizedTrailer != nil {
		add("trailer", "Unrecognized", t.MutedStyle().Render(*rec.UnrecognizedTrailer))
	}

	name := g.ReleaseName
	if name == "" {
		name = "unnamed release"
	}
	header := t.HeaderStyle().Padding(0, 1).Render(t.Icon("release") + " " + name)

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return t.PanelStyle().Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
}

// SessionLine renders one entry of the operation history.
func (t Theme) SessionLine(icon, when, command string, succeeded, failed int) string {
	status := t.BadgeStyle(BadgeSuccess).Render(fmt.Sprintf("%d ok", succeeded))
	if failed > 0 {
		status += " " + t.BadgeStyle(BadgeError).Render(fmt.Sprintf("%d failed", failed))
	}
	return fmt.Sprintf("%s %s %s %s", icon, t.LabelStyle().Render(when), command, status)
}

func (t Theme) field(icon, label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		t.Icon(icon)+" ",
		t.LabelStyle().Render(label),
		value,
	)
}

func videoLine(rec *media.Record) string {
	var parts []string
	if f := media.Value(rec.Video.Format); f != "" {
		parts = append(parts, f)
	}
	if c := media.Value(rec.Video.Codec); c != "" {
		parts = append(parts, c)
	}
	if rec.Video.Framerate != nil {
		parts = append(parts, strconv.FormatFloat(*rec.Video.Framerate, 'f', -1, 64)+" fps")
	}
	if std := rec.Standard(); std != "" {
		parts = append(parts, std)
	}
	return strings.Join(parts, " · ")
}

func audioLine(rec *media.Record) string {
	var parts []string
	for _, slot := range rec.Languages.Slots {
		codec, lang := media.Value(slot.Codec), media.Value(slot.Lang)
		switch {
		case codec != "" && lang != "":
			parts = append(parts, codec+" ("+lang+")")
		case codec != "":
			parts = append(parts, codec)
		case lang != "":
			parts = append(parts, lang)
		}
	}
	return strings.Join(parts, ", ")
}
