package redis

import (
	"fmt"

	"github.com/jswain/turfsplit/internal/model"
)

// Key prefix for all session data
const keyPrefix = "turfsplit"

// sessionKey returns the Redis key for a Session
func sessionKey(code model.SessionCode) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, code)
}

// rosterKey returns the Redis key for the ZSET of a session's entry ids,
// scored by creation sequence
func rosterKey(code model.SessionCode) string {
	return fmt.Sprintf("%s:roster:%s", keyPrefix, code)
}

// seqKey returns the Redis key for a session's creation-sequence counter
func seqKey(code model.SessionCode) string {
	return fmt.Sprintf("%s:seq:%s", keyPrefix, code)
}

// entryKey returns the Redis key for a PlayerEntry
func entryKey(code model.SessionCode, id model.EntryID) string {
	return fmt.Sprintf("%s:entry:%s:%s", keyPrefix, code, id)
}

// ownerIndexKey returns the Redis key holding the entry id owned by an
// identity within a session; its existence is the uniqueness guard
func ownerIndexKey(code model.SessionCode, identity model.Identity) string {
	return fmt.Sprintf("%s:idx:owner:%s:%s", keyPrefix, code, identity)
}

// accountKey returns the Redis key for an Account
func accountKey(identity model.Identity) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, identity)
}

// usernameIndexKey returns the Redis key for the username -> identity index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}
