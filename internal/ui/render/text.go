// Package render provides text rendering utilities for the screens.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Sanitize drops control characters (except tab and newline) and invalid
// UTF-8 from extractor text, and turns non-breaking spaces into spaces.
func Sanitize(s string) string {
	clean := true
	for _, r := range s {
		if r == utf8.RuneError || r == '\u00a0' || (r != '\t' && r != '\n' && unicode.IsControl(r)) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size <= 1:
		case r == '\u00a0':
			b.WriteByte(' ')
		case r != '\t' && r != '\n' && unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Line flattens s to a single sanitized line.
func Line(s string) string {
	return strings.Join(strings.Fields(Sanitize(s)), " ")
}

// Truncate flattens s and shortens it to maxWidth cells with a "…" tail.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(Line(s), maxWidth, "…")
}

// Fit cuts an already styled line to width cells, keeping escape sequences.
func Fit(s string, width int) string {
	return ansi.Truncate(s, max(width, 0), "…")
}

// Wrap sanitizes s and word-wraps it to width, keeping at most maxLines
// lines (0 keeps all).
func Wrap(s string, width, maxLines int) []string {
	if width <= 0 {
		return nil
	}
	text := lipgloss.NewStyle().Width(width).Render(Sanitize(s))
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = Truncate(lines[maxLines-1]+" …", width)
	}
	return lines
}

// Row lays out left and right aligned content over width cells.
func Row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Separator creates a horizontal rule of the given width.
func Separator(width int) string {
	return strings.Repeat("─", max(width, 0))
}
