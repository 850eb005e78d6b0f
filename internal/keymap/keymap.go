package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "detail", "channel", "playback"
}

// Key converts the binding into a bubbles key binding for help rendering.
// The first key is shown.
func (b Binding) Key() key.Binding {
	var help string
	if len(b.Keys) > 0 {
		help = b.Keys[0]
	}
	return key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(help, b.Description))
}

// All contains all key bindings.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionBack, []string{"esc", "backspace"}, "Back", "global"},
	{ActionHelp, []string{"?"}, "Help", "global"},

	// Detail screen
	{ActionNextTab, []string{"tab", "l"}, "Next tab", "detail"},
	{ActionPrevTab, []string{"shift+tab", "h"}, "Previous tab", "detail"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "detail"},
	{ActionMoveUp, []string{"k", "up"}, "Move up", "detail"},
	{ActionSelect, []string{"enter"}, "Open related", "detail"},
	{ActionOpenChannel, []string{"c"}, "Open channel", "detail"},
	{ActionRetry, []string{"r"}, "Retry", "detail"},

	// Channel screen
	{ActionRetry, []string{"r"}, "Retry", "channel"},

	// Playback
	{ActionPlayPause, []string{"space", " "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionNextStream, []string{"n", "pgdown"}, "Next in queue", "playback"},
	{ActionPrevStream, []string{"p", "pgup"}, "Previous in queue", "playback"},
	{ActionFullscreen, []string{"f"}, "Fullscreen", "playback"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Help adapts a set of bindings to help.KeyMap.
type Help struct {
	Short []Binding
	Full  [][]Binding
}

// HelpFor builds the help for a screen: its own context plus the global
// and playback bindings.
func HelpFor(context string) Help {
	screen := ByContext(context)
	global := ByContext("global")
	return Help{
		Short: append(append([]Binding{}, global[:2]...), screen...),
		Full:  [][]Binding{global, screen, ByContext("playback")},
	}
}

// ShortHelp implements help.KeyMap.
func (h Help) ShortHelp() []key.Binding {
	return keys(h.Short)
}

// FullHelp implements help.KeyMap.
func (h Help) FullHelp() [][]key.Binding {
	out := make([][]key.Binding, 0, len(h.Full))
	for _, group := range h.Full {
		out = append(out, keys(group))
	}
	return out
}

func keys(bindings []Binding) []key.Binding {
	out := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.Key())
	}
	return out
}
