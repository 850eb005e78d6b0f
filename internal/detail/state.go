package detail

import "github.com/llehouerou/reel/internal/extractor"

// Status is the state of the detail screen.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	// StatusRestricted replaces Loaded when age-restricted content is not allowed.
	StatusRestricted
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusLoading:
		return "Loading"
	case StatusLoaded:
		return "Loaded"
	case StatusRestricted:
		return "Restricted"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// State is what the view renders.
type State struct {
	Status    Status
	ServiceID int
	URL       string
	Title     string

	// Info is set in Loaded and Restricted.
	Info *extractor.StreamInfo

	// Kind and Err are set in Error.
	Kind extractor.Kind
	Err  error

	// Message is the user-facing text for Error and Restricted.
	Message string
}

// Retryable reports whether the view offers a retry action.
func (s State) Retryable() bool {
	return s.Status == StatusError && s.Kind.Retryable()
}

// Action is an affordance that depends on loaded metadata.
type Action string

const (
	ActionDownload      Action = "download"
	ActionShare         Action = "share"
	ActionOpenInBrowser Action = "open_in_browser"
)
