package storage

import (
	"context"

	"github.com/jswain/turfsplit/internal/model"
)

// Storage defines the interface for data persistence.
//
// The roster operations that enforce cross-record invariants (capacity,
// one slot per identity, status transitions) are conditional writes: the
// check and the mutation happen atomically inside the store rather than as
// a read followed by an unconditional write, so concurrent callers cannot
// overshoot capacity or double-book an identity.
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error)
	SessionExists(ctx context.Context, code model.SessionCode) (bool, error)
	DeleteSession(ctx context.Context, code model.SessionCode) error

	// Roster operations.
	//
	// InsertPlayer assigns entry.Seq, enforces MaxSlots and owner
	// uniqueness, and fails with model.ErrSquadFull or
	// model.ErrAlreadyJoined without writing.
	InsertPlayer(ctx context.Context, code model.SessionCode, entry *model.PlayerEntry) error
	GetPlayer(ctx context.Context, code model.SessionCode, id model.EntryID) (*model.PlayerEntry, error)
	ListPlayers(ctx context.Context, code model.SessionCode) ([]*model.PlayerEntry, error)
	DeletePlayer(ctx context.Context, code model.SessionCode, id model.EntryID) error
	DeleteAllPlayers(ctx context.Context, code model.SessionCode) error

	// ClaimPlayer binds identity to an unowned entry. Fails with
	// model.ErrNotClaimable if the entry has an owner and
	// model.ErrAlreadyJoined if the identity owns another entry.
	ClaimPlayer(ctx context.Context, code model.SessionCode, id model.EntryID, identity model.Identity) (*model.PlayerEntry, error)

	// SetPlayerStatus is a compare-and-set on the entry's payment status.
	// Finding the entry already at `to` is success (duplicate apply of the
	// same command); any other mismatch with `from` fails with
	// model.ErrStatusConflict and no write.
	SetPlayerStatus(ctx context.Context, code model.SessionCode, id model.EntryID, from, to model.PaymentStatus) (*model.PlayerEntry, error)

	// Account operations for the identity service
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, identity model.Identity) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
}
