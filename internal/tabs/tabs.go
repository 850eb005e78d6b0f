// Package tabs decides which content tabs a detail screen shows.
package tabs

// Tab identifies a content tab.
type Tab string

const (
	Comments    Tab = "comments"
	Related     Tab = "related"
	Description Tab = "description"
	// Empty is the placeholder shown when no other tab is enabled.
	Empty Tab = "empty"
)

// Label returns the tab title.
func (t Tab) Label() string {
	switch t {
	case Comments:
		return "Comments"
	case Related:
		return "Next"
	case Description:
		return "Description"
	default:
		return ""
	}
}

// Prefs holds the user's tab preferences.
type Prefs struct {
	ShowComments    bool
	ShowRelated     bool
	ShowDescription bool
}

// Caps holds what the loaded content supports.
type Caps struct {
	Comments bool
}

// Rebuild returns the ordered tabs for prefs and caps.
// Order is fixed: comments, related, description. When nothing is left the
// result is the single Empty tab.
func Rebuild(prefs Prefs, caps Caps) []Tab {
	var out []Tab
	if prefs.ShowComments && caps.Comments {
		out = append(out, Comments)
	}
	if prefs.ShowRelated {
		out = append(out, Related)
	}
	if prefs.ShowDescription {
		out = append(out, Description)
	}
	if len(out) == 0 {
		return []Tab{Empty}
	}
	return out
}

// Presenter rebuilds tabs and keeps the selection stable across rebuilds.
type Presenter struct {
	prefs    Prefs
	tabs     []Tab
	selected Tab
}

// NewPresenter creates a presenter with no tabs built yet.
func NewPresenter(prefs Prefs) *Presenter {
	return &Presenter{prefs: prefs}
}

// SetPrefs replaces the preferences used by the next Rebuild.
func (p *Presenter) SetPrefs(prefs Prefs) {
	p.prefs = prefs
}

// Rebuild recomputes the tabs for caps. The previously selected tab stays
// selected when it survives, otherwise the first tab is selected.
// Returns the tabs and the index of the selected one.
func (p *Presenter) Rebuild(caps Caps) ([]Tab, int) {
	p.tabs = Rebuild(p.prefs, caps)
	idx := p.indexOf(p.selected)
	if idx < 0 {
		idx = 0
	}
	p.selected = p.tabs[idx]
	return p.Tabs(), idx
}

// Reset drops all tabs, as when the content is hidden on error.
func (p *Presenter) Reset() {
	p.tabs = nil
}

// Tabs returns a copy of the current tabs.
func (p *Presenter) Tabs() []Tab {
	if len(p.tabs) == 0 {
		return nil
	}
	out := make([]Tab, len(p.tabs))
	copy(out, p.tabs)
	return out
}

// Selected returns the selected tab, or "" before the first Rebuild.
func (p *Presenter) Selected() Tab {
	if len(p.tabs) == 0 {
		return ""
	}
	return p.selected
}

// SelectedIndex returns the index of the selected tab, -1 when there are none.
func (p *Presenter) SelectedIndex() int {
	return p.indexOf(p.Selected())
}

// Select makes t the selected tab. Returns false if t is not shown.
func (p *Presenter) Select(t Tab) bool {
	if p.indexOf(t) < 0 {
		return false
	}
	p.selected = t
	return true
}

// Restore sets the selection remembered from a previous session.
// It applies on the next Rebuild if t is not currently shown.
func (p *Presenter) Restore(t Tab) {
	p.selected = t
}

// Cycle moves the selection by delta, wrapping around.
func (p *Presenter) Cycle(delta int) Tab {
	n := len(p.tabs)
	if n == 0 {
		return ""
	}
	idx := p.indexOf(p.selected)
	if idx < 0 {
		idx = 0
	}
	idx = ((idx+delta)%n + n) % n
	p.selected = p.tabs[idx]
	return p.selected
}

// Visible reports whether a tab strip is shown. A single tab has no strip.
func (p *Presenter) Visible() bool {
	return len(p.tabs) >= 2
}

func (p *Presenter) indexOf(t Tab) int {
	if t == "" {
		return -1
	}
	for i, tab := range p.tabs {
		if tab == t {
			return i
		}
	}
	return -1
}
