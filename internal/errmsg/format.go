// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/llehouerou/reel/internal/extractor"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Detail screens
	OpStreamLoad  Op = "load stream"
	OpChannelLoad Op = "load channel"

	// History operations
	OpHistoryRecord Op = "record view"
	OpResumeLoad    Op = "load resume position"
	OpResumeSave    Op = "save resume position"
	OpStackSave     Op = "save navigation"
	OpStackLoad     Op = "load navigation"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlayback      Op = "play stream"

	// Catalog
	OpCatalogLoad Op = "load catalog"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// User-facing messages per failure kind.
const (
	MsgNotAvailable = "Content not available"
	MsgDecryption   = "Could not decrypt the stream signature"
	MsgExtraction   = "Could not parse the page"
	MsgNetwork      = "Network error"
	MsgUnknown      = "Something went wrong"
	MsgRestricted   = "This content is age restricted. Enable restricted content in the settings to watch it."
)

// ForKind returns the message shown for a classified failure.
// Cancelled and KindNone have no message.
func ForKind(kind extractor.Kind) string {
	switch kind {
	case extractor.KindNotAvailable:
		return MsgNotAvailable
	case extractor.KindExtraction:
		return MsgExtraction
	case extractor.KindNetwork:
		return MsgNetwork
	case extractor.KindUnknown:
		return MsgUnknown
	default:
		return ""
	}
}

// ForError returns the message shown for err. Decryption failures get a
// dedicated message within the extraction kind.
func ForError(err error) string {
	if errors.Is(err, extractor.ErrDecryption) {
		return MsgDecryption
	}
	return ForKind(extractor.Classify(err))
}
