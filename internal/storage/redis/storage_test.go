package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/jswain/turfsplit/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) saveSession(code model.SessionCode, maxSlots int) {
	session := &model.Session{
		Code:       code,
		TurfName:   "Greenfield",
		TotalPrice: 1000,
		SplitMode:  model.SplitEven,
		MaxSlots:   maxSlots,
		CreatedAt:  time.Now().UTC(),
	}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
}

func (s *StorageSuite) insertPlayer(code model.SessionCode, id model.EntryID, owner model.Identity) {
	entry := &model.PlayerEntry{
		ID:            id,
		Name:          string(id),
		OwnerIdentity: owner,
		PaymentStatus: model.StatusPending,
	}
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, code, entry))
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	s.saveSession("TURF01", 10)

	session, err := s.storage.GetSession(s.ctx, "TURF01")
	s.Require().NoError(err)
	s.Equal("Greenfield", session.TurfName)
	s.Equal(10, session.MaxSlots)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "NOSUCH")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionExists() {
	s.saveSession("TURF01", 10)

	exists, err := s.storage.SessionExists(s.ctx, "TURF01")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.SessionExists(s.ctx, "NOSUCH")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestSessionHasTTL() {
	s.saveSession("TURF01", 10)
	s.Positive(s.mini.TTL(sessionKey("TURF01")))
}

func (s *StorageSuite) TestDeleteSessionClearsEverything() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "id-a")

	s.Require().NoError(s.storage.DeleteSession(s.ctx, "TURF01"))

	_, err := s.storage.GetSession(s.ctx, "TURF01")
	s.ErrorIs(err, model.ErrSessionNotFound)
	s.False(s.mini.Exists(entryKey("TURF01", "e-a")))
	s.False(s.mini.Exists(rosterKey("TURF01")))
}

// Roster tests

func (s *StorageSuite) TestInsertAndGetPlayer() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "id-a")

	entry, err := s.storage.GetPlayer(s.ctx, "TURF01", "e-a")
	s.Require().NoError(err)
	s.Equal(model.Identity("id-a"), entry.OwnerIdentity)
	s.Equal(int64(1), entry.Seq)
}

func (s *StorageSuite) TestListPlayersInInsertionOrder() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-c", "id-c")
	s.insertPlayer("TURF01", "e-a", "id-a")
	s.insertPlayer("TURF01", "e-b", "id-b")

	players, err := s.storage.ListPlayers(s.ctx, "TURF01")
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal(model.EntryID("e-c"), players[0].ID)
	s.Equal(model.EntryID("e-a"), players[1].ID)
	s.Equal(model.EntryID("e-b"), players[2].ID)
}

func (s *StorageSuite) TestInsertEnforcesCapacity() {
	s.saveSession("TURF01", 2)
	s.insertPlayer("TURF01", "e-a", "id-a")
	s.insertPlayer("TURF01", "e-b", "id-b")

	entry := &model.PlayerEntry{ID: "e-c", OwnerIdentity: "id-c", PaymentStatus: model.StatusPending}
	err := s.storage.InsertPlayer(s.ctx, "TURF01", entry)
	s.ErrorIs(err, model.ErrSquadFull)
}

func (s *StorageSuite) TestInsertEnforcesOneSlotPerIdentity() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "id-a")

	entry := &model.PlayerEntry{ID: "e-b", OwnerIdentity: "id-a", PaymentStatus: model.StatusPending}
	err := s.storage.InsertPlayer(s.ctx, "TURF01", entry)
	s.ErrorIs(err, model.ErrAlreadyJoined)
}

func (s *StorageSuite) TestInsertIntoUnknownSession() {
	entry := &model.PlayerEntry{ID: "e-a", PaymentStatus: model.StatusPending}
	err := s.storage.InsertPlayer(s.ctx, "NOSUCH", entry)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeletePlayerFreesOwnerSlot() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "id-a")

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "TURF01", "e-a"))

	// The identity can join again after removal
	s.insertPlayer("TURF01", "e-b", "id-a")
}

func (s *StorageSuite) TestDeleteAllPlayers() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "id-a")
	s.insertPlayer("TURF01", "e-b", "id-b")

	s.Require().NoError(s.storage.DeleteAllPlayers(s.ctx, "TURF01"))

	players, err := s.storage.ListPlayers(s.ctx, "TURF01")
	s.Require().NoError(err)
	s.Empty(players)

	// Freed identities can rejoin
	s.insertPlayer("TURF01", "e-c", "id-a")
}

func (s *StorageSuite) TestSeqSurvivesReset() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "id-a")
	s.Require().NoError(s.storage.DeleteAllPlayers(s.ctx, "TURF01"))

	entry := &model.PlayerEntry{ID: "e-b", OwnerIdentity: "id-b", PaymentStatus: model.StatusPending}
	s.Require().NoError(s.storage.InsertPlayer(s.ctx, "TURF01", entry))
	s.Equal(int64(2), entry.Seq)
}

// Claim tests

func (s *StorageSuite) TestClaimPlayer() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "")

	entry, err := s.storage.ClaimPlayer(s.ctx, "TURF01", "e-a", "id-a")
	s.Require().NoError(err)
	s.Equal(model.Identity("id-a"), entry.OwnerIdentity)

	// Claim persists
	got, err := s.storage.GetPlayer(s.ctx, "TURF01", "e-a")
	s.Require().NoError(err)
	s.Equal(model.Identity("id-a"), got.OwnerIdentity)
}

func (s *StorageSuite) TestClaimOwnedEntry() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "")
	_, err := s.storage.ClaimPlayer(s.ctx, "TURF01", "e-a", "id-a")
	s.Require().NoError(err)

	_, err = s.storage.ClaimPlayer(s.ctx, "TURF01", "e-a", "id-b")
	s.ErrorIs(err, model.ErrNotClaimable)
}

func (s *StorageSuite) TestClaimIsIdempotentForSameOwner() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "")
	_, err := s.storage.ClaimPlayer(s.ctx, "TURF01", "e-a", "id-a")
	s.Require().NoError(err)

	entry, err := s.storage.ClaimPlayer(s.ctx, "TURF01", "e-a", "id-a")
	s.Require().NoError(err)
	s.Equal(model.Identity("id-a"), entry.OwnerIdentity)
}

func (s *StorageSuite) TestClaimBlockedWhenIdentityOwnsAnotherEntry() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "id-a")
	s.insertPlayer("TURF01", "e-b", "")

	_, err := s.storage.ClaimPlayer(s.ctx, "TURF01", "e-b", "id-a")
	s.ErrorIs(err, model.ErrAlreadyJoined)
}

// Status CAS tests

func (s *StorageSuite) TestSetPlayerStatus() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "id-a")

	entry, err := s.storage.SetPlayerStatus(s.ctx, "TURF01", "e-a", model.StatusPending, model.StatusReview)
	s.Require().NoError(err)
	s.Equal(model.StatusReview, entry.PaymentStatus)

	got, err := s.storage.GetPlayer(s.ctx, "TURF01", "e-a")
	s.Require().NoError(err)
	s.Equal(model.StatusReview, got.PaymentStatus)
}

func (s *StorageSuite) TestSetPlayerStatusConflict() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "id-a")

	_, err := s.storage.SetPlayerStatus(s.ctx, "TURF01", "e-a", model.StatusReview, model.StatusVerified)
	s.ErrorIs(err, model.ErrStatusConflict)
}

func (s *StorageSuite) TestSetPlayerStatusAlreadyAtTarget() {
	s.saveSession("TURF01", 10)
	s.insertPlayer("TURF01", "e-a", "id-a")
	_, err := s.storage.SetPlayerStatus(s.ctx, "TURF01", "e-a", model.StatusPending, model.StatusReview)
	s.Require().NoError(err)

	entry, err := s.storage.SetPlayerStatus(s.ctx, "TURF01", "e-a", model.StatusPending, model.StatusReview)
	s.Require().NoError(err)
	s.Equal(model.StatusReview, entry.PaymentStatus)
}

func (s *StorageSuite) TestSetPlayerStatusEntryNotFound() {
	s.saveSession("TURF01", 10)
	_, err := s.storage.SetPlayerStatus(s.ctx, "TURF01", "nope", model.StatusPending, model.StatusReview)
	s.ErrorIs(err, model.ErrEntryNotFound)
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{
		Identity:    "id-alice",
		Username:    "alice",
		DisplayName: "Alice",
		CreatedAt:   time.Now().UTC(),
	}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	got, err := s.storage.GetAccount(s.ctx, "id-alice")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)

	got, err = s.storage.GetAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.Identity("id-alice"), got.Identity)
}

func (s *StorageSuite) TestAccountsDoNotExpire() {
	account := &model.Account{Identity: "id-alice", Username: "alice"}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	s.Zero(s.mini.TTL(accountKey("id-alice")))
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "id-nobody")
	s.ErrorIs(err, model.ErrIdentityNotFound)

	_, err = s.storage.GetAccountByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrIdentityNotFound)
}
