package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Count formats a counter compactly ("950", "1.2k", "3.4M").
// Negative values mean unknown and render as "".
func Count(n int64) string {
	switch {
	case n < 0:
		return ""
	case n < 1000:
		return strconv.FormatInt(n, 10)
	default:
		return strings.ReplaceAll(humanize.SIWithDigits(float64(n), 1, ""), " ", "")
	}
}

// Views formats a view count with digit grouping.
func Views(n int64) string {
	switch {
	case n < 0:
		return ""
	case n == 1:
		return "1 view"
	default:
		return humanize.Comma(n) + " views"
	}
}

// Age formats when something happened relative to now ("3 days ago").
// The zero time renders as "".
func Age(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Duration formats a stream length as m:ss or h:mm:ss.
// Zero and negative values render as "".
func Duration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Join joins the non-empty parts with a middle dot.
func Join(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}
