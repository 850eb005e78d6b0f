// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionBack Action = "back"
	ActionHelp Action = "help"

	// Screen actions
	ActionRetry       Action = "retry"
	ActionNextTab     Action = "next_tab"
	ActionPrevTab     Action = "prev_tab"
	ActionMoveUp      Action = "move_up"
	ActionMoveDown    Action = "move_down"
	ActionSelect      Action = "select"       // enter - open related stream
	ActionOpenChannel Action = "open_channel" // c - uploader channel

	// Playback actions
	ActionPlayPause  Action = "play_pause"
	ActionStop       Action = "stop"
	ActionNextStream Action = "next_stream"
	ActionPrevStream Action = "prev_stream"
	ActionFullscreen Action = "fullscreen"
)
