package keymap

import tea "github.com/charmbracelet/bubbletea"

// Resolver maps key strings to actions, per context.
type Resolver struct {
	global   map[string]Action
	contexts map[string]map[string]Action
}

// NewResolver creates a resolver from bindings.
// Bindings of the "global" context apply everywhere; the others only
// when their context is active. The first binding of a key wins.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		global:   make(map[string]Action),
		contexts: make(map[string]map[string]Action),
	}
	for _, b := range bindings {
		m := r.global
		if b.Context != "global" {
			m = r.contexts[b.Context]
			if m == nil {
				m = make(map[string]Action)
				r.contexts[b.Context] = m
			}
		}
		for _, k := range b.Keys {
			if _, ok := m[k]; !ok {
				m[k] = b.Action
			}
		}
	}
	return r
}

// Resolve returns the action bound to key in the given contexts, checked
// in order before the global bindings. It returns "" if the key is unbound.
func (r *Resolver) Resolve(key string, contexts ...string) Action {
	for _, c := range contexts {
		if a, ok := r.contexts[c][key]; ok {
			return a
		}
	}
	return r.global[key]
}

// ResolveKey resolves a bubbletea key message.
func (r *Resolver) ResolveKey(msg tea.KeyMsg, contexts ...string) Action {
	return r.Resolve(msg.String(), contexts...)
}
