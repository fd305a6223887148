package domain

import (
	"fmt"
	"time"
)

const (
	// DefaultLookback is used when the caller does not pass a lookback.
	DefaultLookback = 15 * time.Minute
	// PageLimit is the maximum number of postings requested per call.
	PageLimit = 1000

	// W3CLayout is the W3C datetime format with a numeric offset; UTC renders as +00:00.
	W3CLayout = "2006-01-02T15:04:05-07:00"
)

// WindowMode decides what happens to the lower bound after a fetch.
type WindowMode string

const (
	// WindowFrozen computes the lower bound on the first call and reuses it for the
	// lifetime of the fetcher.
	WindowFrozen WindowMode = "frozen"
	// WindowAdvance moves the lower bound to the previous upper bound after every
	// successful fetch and persists it per profile.
	WindowAdvance WindowMode = "advance"
)

// ParseWindowMode validates a configured mode.
func ParseWindowMode(s string) (WindowMode, error) {
	switch m := WindowMode(s); m {
	case WindowFrozen, WindowAdvance:
		return m, nil
	case "":
		return WindowFrozen, nil
	default:
		return "", fmt.Errorf("unknown window mode %q", s)
	}
}

// InCatchUpWindow reports whether t falls in 03:00-03:05 (minute 5 inclusive) of its own location.
// Inside it the query is widened to a full day so postings missed overnight are picked up.
func InCatchUpWindow(t time.Time) bool {
	return t.Hour() == 3 && t.Minute() <= 5
}

// CatchUpSince is one calendar day before now, so the wall clock is kept across DST changes.
func CatchUpSince(now time.Time) time.Time {
	return now.AddDate(0, 0, -1)
}

// InitialSince returns the lower bound for a fetcher that has no boundary yet.
func InitialSince(now time.Time, lookback time.Duration) time.Time {
	if InCatchUpWindow(now) {
		return CatchUpSince(now)
	}
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return now.Add(-lookback)
}

// Window is the [Since, To] range sent to the posting list filter.
type Window struct {
	Since time.Time
	To    time.Time
}

// FormatSince renders Since in W3C format.
func (w Window) FormatSince() string {
	return w.Since.Format(W3CLayout)
}

// FormatTo renders To in W3C format.
func (w Window) FormatTo() string {
	return w.To.Format(W3CLayout)
}
