package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Validation and role errors, rejected before any store write
	ErrValidation           = errors.New("validation failed")
	ErrUnauthorized         = errors.New("caller lacks authority for this action")
	ErrConfirmationRequired = errors.New("destructive action requires confirmation")

	// Admission errors
	ErrAlreadyJoined = errors.New("identity already holds a roster slot")
	ErrSquadFull     = errors.New("session is at capacity")

	// Ownership errors
	ErrNotClaimable = errors.New("entry already has an owner")

	// Payment state machine errors
	ErrIllegalTransition = errors.New("payment status transition not allowed")
	ErrStatusConflict    = errors.New("payment status changed concurrently")

	// Lookup errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrEntryNotFound    = errors.New("roster entry not found")
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrRemoteWrite wraps a store round trip that failed after local
	// validation passed
	ErrRemoteWrite = errors.New("store write failed")
)

// storeSentinels are errors a conditional store write surfaces as part of
// its contract; anything else coming back from the store is a transport or
// backend failure.
var storeSentinels = []error{
	ErrSessionNotFound,
	ErrEntryNotFound,
	ErrIdentityNotFound,
	ErrAlreadyJoined,
	ErrSquadFull,
	ErrNotClaimable,
	ErrStatusConflict,
}

// WrapStore passes through contract errors from the store and wraps
// everything else in ErrRemoteWrite
func WrapStore(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range storeSentinels {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrRemoteWrite, err)
}
