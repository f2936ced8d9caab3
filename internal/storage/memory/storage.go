package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jswain/turfsplit/internal/model"
	"github.com/jswain/turfsplit/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// The mutex doubles as the transaction boundary: every conditional roster
// write checks and mutates under the same lock.
type Storage struct {
	mu sync.RWMutex

	sessions      map[model.SessionCode]*model.Session
	rosters       map[model.SessionCode]map[model.EntryID]*model.PlayerEntry
	seqs          map[model.SessionCode]int64
	accounts      map[model.Identity]*model.Account
	usernameIndex map[string]model.Identity
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions:      make(map[model.SessionCode]*model.Session),
		rosters:       make(map[model.SessionCode]map[model.EntryID]*model.PlayerEntry),
		seqs:          make(map[model.SessionCode]int64),
		accounts:      make(map[model.Identity]*model.Account),
		usernameIndex: make(map[string]model.Identity),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.Code] = &cp
	if _, ok := s.rosters[session.Code]; !ok {
		s.rosters[session.Code] = make(map[model.EntryID]*model.PlayerEntry)
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *Storage) SessionExists(ctx context.Context, code model.SessionCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[code]
	return ok, nil
}

func (s *Storage) DeleteSession(ctx context.Context, code model.SessionCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, code)
	delete(s.rosters, code)
	delete(s.seqs, code)
	return nil
}

// Roster operations

func (s *Storage) InsertPlayer(ctx context.Context, code model.SessionCode, entry *model.PlayerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[code]
	if !ok {
		return model.ErrSessionNotFound
	}
	roster := s.rosters[code]

	if entry.OwnerIdentity != "" {
		for _, p := range roster {
			if p.OwnerIdentity == entry.OwnerIdentity {
				return model.ErrAlreadyJoined
			}
		}
	}
	if len(roster) >= session.MaxSlots {
		return model.ErrSquadFull
	}

	s.seqs[code]++
	entry.Seq = s.seqs[code]
	cp := *entry
	roster[entry.ID] = &cp
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, code model.SessionCode, id model.EntryID) (*model.PlayerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, err := s.getPlayerLocked(code, id)
	if err != nil {
		return nil, err
	}
	cp := *entry
	return &cp, nil
}

func (s *Storage) ListPlayers(ctx context.Context, code model.SessionCode) ([]*model.PlayerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sessions[code]; !ok {
		return nil, model.ErrSessionNotFound
	}
	roster := s.rosters[code]
	players := make([]*model.PlayerEntry, 0, len(roster))
	for _, p := range roster {
		cp := *p
		players = append(players, &cp)
	}
	sortBySeq(players)
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, code model.SessionCode, id model.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	roster, ok := s.rosters[code]
	if !ok {
		return model.ErrSessionNotFound
	}
	if _, ok := roster[id]; !ok {
		return model.ErrEntryNotFound
	}
	delete(roster, id)
	return nil
}

func (s *Storage) DeleteAllPlayers(ctx context.Context, code model.SessionCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[code]; !ok {
		return model.ErrSessionNotFound
	}
	s.rosters[code] = make(map[model.EntryID]*model.PlayerEntry)
	return nil
}

func (s *Storage) ClaimPlayer(ctx context.Context, code model.SessionCode, id model.EntryID, identity model.Identity) (*model.PlayerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.getPlayerLocked(code, id)
	if err != nil {
		return nil, err
	}
	if entry.OwnerIdentity == identity {
		// duplicate apply of the same claim
		cp := *entry
		return &cp, nil
	}
	if entry.OwnerIdentity != "" {
		return nil, model.ErrNotClaimable
	}
	for _, p := range s.rosters[code] {
		if p.OwnerIdentity == identity {
			return nil, model.ErrAlreadyJoined
		}
	}

	entry.OwnerIdentity = identity
	cp := *entry
	return &cp, nil
}

func (s *Storage) SetPlayerStatus(ctx context.Context, code model.SessionCode, id model.EntryID, from, to model.PaymentStatus) (*model.PlayerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.getPlayerLocked(code, id)
	if err != nil {
		return nil, err
	}
	if entry.PaymentStatus == to {
		cp := *entry
		return &cp, nil
	}
	if entry.PaymentStatus != from {
		return nil, model.ErrStatusConflict
	}

	entry.PaymentStatus = to
	cp := *entry
	return &cp, nil
}

// getPlayerLocked requires the caller to hold the mutex
func (s *Storage) getPlayerLocked(code model.SessionCode, id model.EntryID) (*model.PlayerEntry, error) {
	roster, ok := s.rosters[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	entry, ok := roster[id]
	if !ok {
		return nil, model.ErrEntryNotFound
	}
	return entry, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *account
	s.accounts[account.Identity] = &cp
	if account.Username != "" {
		s.usernameIndex[account.Username] = account.Identity
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, identity model.Identity) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[identity]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	cp := *account
	return &cp, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	account, ok := s.accounts[identity]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	cp := *account
	return &cp, nil
}

func sortBySeq(players []*model.PlayerEntry) {
	sort.Slice(players, func(i, j int) bool {
		return players[i].Seq < players[j].Seq
	})
}
