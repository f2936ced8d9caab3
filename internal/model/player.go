package model

import (
	"sort"
	"time"
)

// EntryID uniquely identifies a roster entry; never reused
type EntryID string

// PaymentStatus is the verification state of an entry's payment
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"  // owes, nothing submitted
	StatusReview   PaymentStatus = "review"   // payment submitted, awaiting host
	StatusVerified PaymentStatus = "verified" // host attested the payment
)

// Valid reports whether the status is a known value
func (s PaymentStatus) Valid() bool {
	return s == StatusPending || s == StatusReview || s == StatusVerified
}

// PlayerEntry is one slot on a session's roster.
// OwnerIdentity is empty for manual entries created by the host on behalf
// of someone who has not signed in yet.
type PlayerEntry struct {
	ID            EntryID
	Name          string
	OwnerIdentity Identity
	PaymentStatus PaymentStatus
	Seq           int64 // per-session creation order, assigned by the store
	CreatedAt     time.Time
}

// Owned reports whether the entry is bound to an identity
func (e *PlayerEntry) Owned() bool {
	return e.OwnerIdentity != ""
}

// FindByOwner returns the entry owned by the given identity, or nil
func FindByOwner(players []*PlayerEntry, id Identity) *PlayerEntry {
	if id == "" {
		return nil
	}
	for _, p := range players {
		if p.OwnerIdentity == id {
			return p
		}
	}
	return nil
}

// FindEntry returns the entry with the given id, or nil
func FindEntry(players []*PlayerEntry, id EntryID) *PlayerEntry {
	for _, p := range players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// SortRoster orders entries for display: the host's entry first, then
// creation order
func SortRoster(players []*PlayerEntry, host Identity) {
	sort.SliceStable(players, func(i, j int) bool {
		iHost := host != "" && players[i].OwnerIdentity == host
		jHost := host != "" && players[j].OwnerIdentity == host
		if iHost != jHost {
			return iHost
		}
		return players[i].Seq < players[j].Seq
	})
}
