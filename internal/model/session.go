package model

import "time"

// SessionCode is a human-readable identifier for joining sessions
type SessionCode string

// Identity is an opaque reference to an authenticated principal
type Identity string

// SplitMode selects how the per-head cost is derived
type SplitMode string

const (
	SplitEven   SplitMode = "even"   // total price divided across the roster
	SplitManual SplitMode = "manual" // fixed amount per player
)

// Valid reports whether the split mode is a known value
func (m SplitMode) Valid() bool {
	return m == SplitEven || m == SplitManual
}

// Session holds the shared parameters of one turf booking
type Session struct {
	Code         SessionCode
	TurfName     string
	Location     string
	Time         string
	MapLink      string
	TotalPrice   int
	SplitMode    SplitMode
	ManualPrice  int // used only when SplitMode is manual
	PayTarget    string
	MaxSlots     int
	HostIdentity Identity
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsHost reports whether the given identity holds host authority
func (s *Session) IsHost(id Identity) bool {
	return id != "" && s.HostIdentity == id
}
