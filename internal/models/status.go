package models

import "strings"

// StatusCode is the closed set of plug statuses the analytics core operates
// on. Vendor strings are normalized into this set once, at ingestion; nothing
// past that boundary ever sees a raw vendor string.
type StatusCode string

const (
	StatusAvailable   StatusCode = "Available"
	StatusBusy        StatusCode = "Busy"
	StatusPreparing   StatusCode = "Preparing"
	StatusFinishing   StatusCode = "Finishing"
	StatusUnavailable StatusCode = "Unavailable"
	StatusOffline     StatusCode = "Offline"
	StatusFaulted     StatusCode = "Faulted"
	StatusUnknown     StatusCode = "Unknown"
)

// statusAliases maps lower-cased vendor strings to canonical codes. The feed
// has produced "Charging", "BUSY" and "InUse" for the same condition across
// API versions.
var statusAliases = map[string]StatusCode{
	"available":   StatusAvailable,
	"busy":        StatusBusy,
	"charging":    StatusBusy,
	"inuse":       StatusBusy,
	"in_use":      StatusBusy,
	"occupied":    StatusBusy,
	"preparing":   StatusPreparing,
	"finishing":   StatusFinishing,
	"unavailable": StatusUnavailable,
	"offline":     StatusOffline,
	"faulted":     StatusFaulted,
	"unknown":     StatusUnknown,
}

// ParseStatus normalizes a vendor status string. Unrecognized or empty input
// maps to Unknown rather than leaking an open string into the core.
func ParseStatus(raw string) StatusCode {
	if code, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return code
	}
	return StatusUnknown
}

// IsTransitional reports whether the status is an indeterminate in-between
// state. Transitional statuses never start a countable session, never accrue
// a streak and never contribute to the availability heatmap.
func (s StatusCode) IsTransitional() bool {
	switch s {
	case StatusPreparing, StatusFinishing, StatusUnavailable, StatusUnknown:
		return true
	}
	return false
}

// IsAvailableLike reports whether the status counts as "free to use" for the
// legacy signed view.
func (s StatusCode) IsAvailableLike() bool {
	return s == StatusAvailable
}

// IsBusyLike reports whether the status counts as "in use" for the legacy
// signed view.
func (s StatusCode) IsBusyLike() bool {
	return s == StatusBusy
}
