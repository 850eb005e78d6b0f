//nolint:goconst // test cases intentionally repeat strings for readability
package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionBack, []string{"esc"}, "Back", "global"},
		{ActionRetry, []string{"r"}, "Retry", "detail"},
		{ActionNextTab, []string{"tab"}, "Next tab", "detail"},
		{ActionStop, []string{"s"}, "Stop", "playback"},
		{ActionRetry, []string{"q"}, "Shadowed", "channel"},
	})

	tests := []struct {
		name     string
		key      string
		contexts []string
		expected Action
	}{
		{"global without context", "q", nil, ActionQuit},
		{"global in context", "esc", []string{"detail"}, ActionBack},
		{"context key", "r", []string{"detail"}, ActionRetry},
		{"context key inactive", "r", nil, ""},
		{"second context", "s", []string{"detail", "playback"}, ActionStop},
		{"context wins over global", "q", []string{"channel"}, ActionRetry},
		{"unknown", "x", []string{"detail"}, ""},
		{"empty", "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.key, tt.contexts...); got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestResolver_FirstBindingWins(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionNextTab, []string{"l"}, "Next tab", "detail"},
		{ActionOpenChannel, []string{"l"}, "Other", "detail"},
	})

	if got := r.Resolve("l", "detail"); got != ActionNextTab {
		t.Errorf("Resolve(l) = %q, want %q", got, ActionNextTab)
	}
}

func TestResolver_ResolveKey(t *testing.T) {
	r := NewResolver(All)

	tests := []struct {
		msg      tea.KeyMsg
		expected Action
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, ActionNextTab},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, ActionPrevTab},
		{tea.KeyMsg{Type: tea.KeyEsc}, ActionBack},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, ActionPlayPause},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}, ActionRetry},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, ActionQuit},
	}

	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			if got := r.ResolveKey(tt.msg, "detail", "playback"); got != tt.expected {
				t.Errorf("ResolveKey(%q) = %q, want %q", tt.msg.String(), got, tt.expected)
			}
		})
	}
}
