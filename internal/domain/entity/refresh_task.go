package entity

import (
	"fmt"
	"time"
)

// RefreshKind selects which datasets a refresh task rewrites.
type RefreshKind string

const (
	RefreshCurrent  RefreshKind = "current"
	RefreshForecast RefreshKind = "forecast"
	RefreshBoth     RefreshKind = "both"
)

// ParseRefreshKind maps a textual kind to a RefreshKind. Empty means both.
func ParseRefreshKind(s string) (RefreshKind, error) {
	switch RefreshKind(s) {
	case "":
		return RefreshBoth, nil
	case RefreshCurrent, RefreshForecast, RefreshBoth:
		return RefreshKind(s), nil
	default:
		return "", fmt.Errorf("unknown refresh kind %q", s)
	}
}

// IncludesCurrent reports whether current conditions must be refreshed.
func (k RefreshKind) IncludesCurrent() bool {
	return k == RefreshCurrent || k == RefreshBoth
}

// IncludesForecast reports whether the forecast must be refreshed.
func (k RefreshKind) IncludesForecast() bool {
	return k == RefreshForecast || k == RefreshBoth
}

// RefreshTask is the payload carried by the refresh queue. Attempt starts at 1.
type RefreshTask struct {
	ID          string      `json:"id"`
	Coordinates Coordinates `json:"coordinates"`
	Kind        RefreshKind `json:"kind"`
	Attempt     int         `json:"attempt"`
	EnqueuedAt  time.Time   `json:"enqueuedAt"`
}

// NextAttempt returns a copy of the task for its following attempt.
func (t RefreshTask) NextAttempt(now time.Time) RefreshTask {
	next := t
	next.Attempt = t.Attempt + 1
	next.EnqueuedAt = now
	return next
}
