package model

import "time"

// Account is a principal known to the identity service. Guest accounts have
// no username or password hash and cannot log back in once their token
// expires.
type Account struct {
	Identity     Identity
	Username     string // empty for guests
	PasswordHash string // bcrypt hash; empty for guests
	DisplayName  string
	Guest        bool
	CreatedAt    time.Time
}
