package render

import (
	"testing"
	"time"
)

func TestCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{-1, ""},
		{0, "0"},
		{950, "950"},
		{1000, "1k"},
		{1234, "1.2k"},
		{3_400_000, "3.4M"},
	}

	for _, tt := range tests {
		if got := Count(tt.n); got != tt.want {
			t.Errorf("Count(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestViews(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{-1, ""},
		{0, "0 views"},
		{1, "1 view"},
		{1234567, "1,234,567 views"},
	}

	for _, tt := range tests {
		if got := Views(tt.n); got != tt.want {
			t.Errorf("Views(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	if got := Age(time.Time{}, now); got != "" {
		t.Errorf("Age(zero) = %q", got)
	}
	if got := Age(now.Add(-72*time.Hour), now); got != "3 days ago" {
		t.Errorf("Age(3 days) = %q", got)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, ""},
		{-time.Second, ""},
		{59 * time.Second, "0:59"},
		{3*time.Minute + 5*time.Second, "3:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{1499 * time.Millisecond, "0:01"},
	}

	for _, tt := range tests {
		if got := Duration(tt.d); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestJoin(t *testing.T) {
	if got := Join("a", "", "b"); got != "a · b" {
		t.Errorf("Join() = %q", got)
	}
	if got := Join(); got != "" {
		t.Errorf("Join() empty = %q", got)
	}
}
