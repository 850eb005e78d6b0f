package extractor

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrContentNotAvailable is returned for removed, private or geo-blocked content.
	ErrContentNotAvailable = errors.New("content not available")
	// ErrUnsupportedContent is returned for content types the service cannot show.
	ErrUnsupportedContent = errors.New("unsupported content type")
	// ErrDecryption is returned when a stream signature cannot be decrypted.
	ErrDecryption = errors.New("signature decryption failed")
	// ErrNotFound is returned when the url is unknown to the service.
	ErrNotFound = errors.New("not found")
)

// ExtractionError wraps a parsing failure for a url.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Kind classifies a fetch failure.
type Kind int

const (
	KindNone Kind = iota
	KindNotAvailable
	KindExtraction
	KindNetwork
	KindCancelled
	KindUnknown
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotAvailable:
		return "not_available"
	case KindExtraction:
		return "extraction"
	case KindNetwork:
		return "network"
	case KindCancelled:
		return "cancelled"
	case KindUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Retryable reports whether the user should be offered a retry.
func (k Kind) Retryable() bool {
	return k == KindExtraction || k == KindNetwork || k == KindUnknown
}

// Reportable reports whether the failure goes to the error reporter.
func (k Kind) Reportable() bool {
	return k == KindExtraction || k == KindUnknown
}

// Classify maps a raw fetch error to its kind.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, context.Canceled) {
		return KindCancelled
	}
	if errors.Is(err, ErrContentNotAvailable) || errors.Is(err, ErrUnsupportedContent) ||
		errors.Is(err, ErrNotFound) {
		return KindNotAvailable
	}
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) || errors.Is(err, ErrDecryption) {
		return KindExtraction
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	return KindUnknown
}
