// Package styles holds the color palette and lipgloss styles of the screens.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	// Brand/accent colors
	Primary   lipgloss.Color // Focused tab, cursor
	Secondary lipgloss.Color // Counts and dates

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	BgCursor lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color // Fullscreen player frame

	// Status colors
	Success lipgloss.Color // Playing
	Error   lipgloss.Color
	Warning lipgloss.Color // Restricted content

	styles *Styles
}

// Styles contains pre-built lipgloss styles for the screens.
type Styles struct {
	Base      lipgloss.Style
	Muted     lipgloss.Style
	Subtle    lipgloss.Style
	Title     lipgloss.Style
	Meta      lipgloss.Style // Uploader, counts, date line
	Tab       lipgloss.Style
	TabActive lipgloss.Style
	Cursor    lipgloss.Style
	Playing   lipgloss.Style
	Spinner   lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Panel     lipgloss.Style
	PanelFull lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#ff5f5f"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	BgCursor: lipgloss.Color("#303030"),

	Border:      lipgloss.Color("#585858"),
	BorderFocus: lipgloss.Color("#ff5f5f"),

	Success: lipgloss.Color("#42b883"),
	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	tab := lipgloss.NewStyle().Foreground(t.FgMuted).Padding(0, 1)
	panel := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)

	return &Styles{
		Base:      base,
		Muted:     lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:    lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:     base.Bold(true),
		Meta:      lipgloss.NewStyle().Foreground(t.Secondary),
		Tab:       tab,
		TabActive: tab.Foreground(t.Primary).Bold(true).Underline(true),
		Cursor: lipgloss.NewStyle().
			Background(t.BgCursor).
			Foreground(t.FgBase),
		Playing: lipgloss.NewStyle().
			Foreground(t.Success).
			Bold(true),
		Spinner:   lipgloss.NewStyle().Foreground(t.Primary),
		Success:   lipgloss.NewStyle().Foreground(t.Success),
		Error:     lipgloss.NewStyle().Foreground(t.Error),
		Warning:   lipgloss.NewStyle().Foreground(t.Warning),
		Panel:     panel,
		PanelFull: panel.BorderForeground(t.BorderFocus),
	}
}

// PanelStyle returns the player panel style.
func PanelStyle(fullscreen bool) lipgloss.Style {
	if fullscreen {
		return T().S().PanelFull
	}
	return T().S().Panel
}
