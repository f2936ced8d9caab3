package roster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jswain/turfsplit/internal/dependencies/mocks"
	"github.com/jswain/turfsplit/internal/model"
	"github.com/jswain/turfsplit/internal/storage/memory"
	"github.com/jswain/turfsplit/internal/testutil"
)

const (
	hostID  = model.Identity("id-host")
	aliceID = model.Identity("id-alice")
	bobID   = model.Identity("id-bob")
	carolID = model.Identity("id-carol")
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	idgen      *mocks.MockGenerator
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.idgen = mocks.NewMockGenerator()
	s.controller = NewController(s.storage, s.clock, s.idgen, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ControllerSuite) defaultParams() SessionParams {
	return SessionParams{
		TurfName:   "Greenfield Turf",
		Location:   "12 North Rd",
		TotalPrice: 1000,
		SplitMode:  model.SplitEven,
		MaxSlots:   10,
	}
}

func (s *ControllerSuite) createSession(params SessionParams) *model.Session {
	s.idgen.QueueCode("TURF01")
	session, err := s.controller.CreateSession(s.ctx, hostID, "Hosty", params)
	s.Require().NoError(err)
	return session
}

// CreateSession tests

func (s *ControllerSuite) TestCreateSessionSucceeds() {
	session := s.createSession(s.defaultParams())

	s.Equal(model.SessionCode("TURF01"), session.Code)
	s.Equal("Greenfield Turf", session.TurfName)
	s.Equal(hostID, session.HostIdentity)
	s.Equal(s.clock.Now(), session.CreatedAt)
}

func (s *ControllerSuite) TestCreateSessionSeedsHostEntry() {
	s.createSession(s.defaultParams())

	players, err := s.storage.ListPlayers(s.ctx, "TURF01")
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal("HOSTY", players[0].Name)
	s.Equal(hostID, players[0].OwnerIdentity)
	s.Equal(model.StatusPending, players[0].PaymentStatus)
}

func (s *ControllerSuite) TestCreateSessionRetriesOnCodeCollision() {
	s.createSession(s.defaultParams())

	s.idgen.QueueCode("TURF01", "TURF02")
	session, err := s.controller.CreateSession(s.ctx, bobID, "Bob", s.defaultParams())
	s.Require().NoError(err)
	s.Equal(model.SessionCode("TURF02"), session.Code)
}

func (s *ControllerSuite) TestCreateSessionValidation() {
	tests := []struct {
		name   string
		mutate func(*SessionParams)
	}{
		{"blank turf name", func(p *SessionParams) { p.TurfName = "  " }},
		{"zero price", func(p *SessionParams) { p.TotalPrice = 0 }},
		{"negative price", func(p *SessionParams) { p.TotalPrice = -100 }},
		{"unknown split mode", func(p *SessionParams) { p.SplitMode = "thirds" }},
		{"negative manual price", func(p *SessionParams) { p.ManualPrice = -1 }},
		{"zero slots", func(p *SessionParams) { p.MaxSlots = 0 }},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			params := s.defaultParams()
			tt.mutate(&params)

			_, err := s.controller.CreateSession(s.ctx, hostID, "Hosty", params)
			s.Require().ErrorIs(err, model.ErrValidation)
		})
	}
}

// Join tests

func (s *ControllerSuite) TestJoinSucceeds() {
	s.createSession(s.defaultParams())

	entry, err := s.controller.Join(s.ctx, "TURF01", aliceID, "alice")
	s.Require().NoError(err)
	s.Equal("ALICE", entry.Name)
	s.Equal(aliceID, entry.OwnerIdentity)
	s.Equal(model.StatusPending, entry.PaymentStatus)
}

func (s *ControllerSuite) TestJoinTwiceFails() {
	s.createSession(s.defaultParams())

	_, err := s.controller.Join(s.ctx, "TURF01", aliceID, "Alice")
	s.Require().NoError(err)

	_, err = s.controller.Join(s.ctx, "TURF01", aliceID, "Alice Again")
	s.Require().ErrorIs(err, model.ErrAlreadyJoined)
}

func (s *ControllerSuite) TestJoinFullRoster() {
	params := s.defaultParams()
	params.MaxSlots = 2
	s.createSession(params)

	// Host entry holds slot one
	_, err := s.controller.Join(s.ctx, "TURF01", bobID, "Bob")
	s.Require().NoError(err)

	_, err = s.controller.Join(s.ctx, "TURF01", carolID, "Carol")
	s.Require().ErrorIs(err, model.ErrSquadFull)
}

func (s *ControllerSuite) TestJoinBlankName() {
	s.createSession(s.defaultParams())

	_, err := s.controller.Join(s.ctx, "TURF01", aliceID, "   ")
	s.Require().ErrorIs(err, model.ErrValidation)
}

func (s *ControllerSuite) TestJoinUnknownSession() {
	_, err := s.controller.Join(s.ctx, "NOSUCH", aliceID, "Alice")
	s.Require().ErrorIs(err, model.ErrSessionNotFound)
}

// JoinManual and Claim tests

func (s *ControllerSuite) TestManualEntryIsUnowned() {
	s.createSession(s.defaultParams())

	entry, err := s.controller.JoinManual(s.ctx, "TURF01", hostID, "Dave")
	s.Require().NoError(err)
	s.False(entry.Owned())
	s.Equal(model.StatusPending, entry.PaymentStatus)
}

func (s *ControllerSuite) TestManualEntryRequiresHost() {
	s.createSession(s.defaultParams())
	_, err := s.controller.Join(s.ctx, "TURF01", aliceID, "Alice")
	s.Require().NoError(err)

	_, err = s.controller.JoinManual(s.ctx, "TURF01", aliceID, "Dave")
	s.Require().ErrorIs(err, model.ErrUnauthorized)
}

func (s *ControllerSuite) TestClaimBindsFirstComer() {
	s.createSession(s.defaultParams())
	entry, err := s.controller.JoinManual(s.ctx, "TURF01", hostID, "Dave")
	s.Require().NoError(err)

	claimed, err := s.controller.Claim(s.ctx, "TURF01", aliceID, entry.ID)
	s.Require().NoError(err)
	s.Equal(aliceID, claimed.OwnerIdentity)

	// A second identity claiming the same entry loses
	_, err = s.controller.Claim(s.ctx, "TURF01", bobID, entry.ID)
	s.Require().ErrorIs(err, model.ErrNotClaimable)
}

func (s *ControllerSuite) TestClaimKeepsPaymentStatus() {
	s.createSession(s.defaultParams())
	entry, err := s.controller.JoinManual(s.ctx, "TURF01", hostID, "Dave")
	s.Require().NoError(err)
	_, err = s.storage.SetPlayerStatus(s.ctx, "TURF01", entry.ID, model.StatusPending, model.StatusReview)
	s.Require().NoError(err)

	claimed, err := s.controller.Claim(s.ctx, "TURF01", aliceID, entry.ID)
	s.Require().NoError(err)
	s.Equal(model.StatusReview, claimed.PaymentStatus)
}

func (s *ControllerSuite) TestClaimWhileAlreadyOnRoster() {
	s.createSession(s.defaultParams())
	entry, err := s.controller.JoinManual(s.ctx, "TURF01", hostID, "Dave")
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, "TURF01", aliceID, "Alice")
	s.Require().NoError(err)

	_, err = s.controller.Claim(s.ctx, "TURF01", aliceID, entry.ID)
	s.Require().ErrorIs(err, model.ErrAlreadyJoined)
}

// RemovePlayer and ResetAll tests

func (s *ControllerSuite) TestRemovePlayer() {
	s.createSession(s.defaultParams())
	entry, err := s.controller.Join(s.ctx, "TURF01", aliceID, "Alice")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.RemovePlayer(s.ctx, "TURF01", hostID, entry.ID))

	players, err := s.storage.ListPlayers(s.ctx, "TURF01")
	s.Require().NoError(err)
	s.Len(players, 1)
}

func (s *ControllerSuite) TestRemovePlayerRequiresHost() {
	s.createSession(s.defaultParams())
	entry, err := s.controller.Join(s.ctx, "TURF01", aliceID, "Alice")
	s.Require().NoError(err)

	err = s.controller.RemovePlayer(s.ctx, "TURF01", aliceID, entry.ID)
	s.Require().ErrorIs(err, model.ErrUnauthorized)
}

func (s *ControllerSuite) TestRemovedSlotCanBeRefilled() {
	params := s.defaultParams()
	params.MaxSlots = 2
	s.createSession(params)
	entry, err := s.controller.Join(s.ctx, "TURF01", aliceID, "Alice")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.RemovePlayer(s.ctx, "TURF01", hostID, entry.ID))

	_, err = s.controller.Join(s.ctx, "TURF01", bobID, "Bob")
	s.Require().NoError(err)
}

func (s *ControllerSuite) TestResetAllRequiresConfirmation() {
	s.createSession(s.defaultParams())

	err := s.controller.ResetAll(s.ctx, "TURF01", hostID, false)
	s.Require().ErrorIs(err, model.ErrConfirmationRequired)
}

func (s *ControllerSuite) TestResetAllWipesRoster() {
	s.createSession(s.defaultParams())
	_, err := s.controller.Join(s.ctx, "TURF01", aliceID, "Alice")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.ResetAll(s.ctx, "TURF01", hostID, true))

	players, err := s.storage.ListPlayers(s.ctx, "TURF01")
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *ControllerSuite) TestResetAllRequiresHost() {
	s.createSession(s.defaultParams())
	_, err := s.controller.Join(s.ctx, "TURF01", aliceID, "Alice")
	s.Require().NoError(err)

	err = s.controller.ResetAll(s.ctx, "TURF01", aliceID, true)
	s.Require().ErrorIs(err, model.ErrUnauthorized)
}

// TransferHost tests

func (s *ControllerSuite) TestTransferHost() {
	s.createSession(s.defaultParams())
	_, err := s.controller.Join(s.ctx, "TURF01", aliceID, "Alice")
	s.Require().NoError(err)

	session, err := s.controller.TransferHost(s.ctx, "TURF01", hostID, aliceID)
	s.Require().NoError(err)
	s.Equal(aliceID, session.HostIdentity)

	// The old host has lost its authority
	_, err = s.controller.JoinManual(s.ctx, "TURF01", hostID, "Dave")
	s.Require().ErrorIs(err, model.ErrUnauthorized)
}

func (s *ControllerSuite) TestTransferHostRequiresHost() {
	s.createSession(s.defaultParams())
	_, err := s.controller.Join(s.ctx, "TURF01", aliceID, "Alice")
	s.Require().NoError(err)

	_, err = s.controller.TransferHost(s.ctx, "TURF01", aliceID, aliceID)
	s.Require().ErrorIs(err, model.ErrUnauthorized)
}

func (s *ControllerSuite) TestTransferHostTargetMustBeOnRoster() {
	s.createSession(s.defaultParams())

	_, err := s.controller.TransferHost(s.ctx, "TURF01", hostID, carolID)
	s.Require().ErrorIs(err, model.ErrEntryNotFound)
}

// UpdateSession tests

func (s *ControllerSuite) TestUpdateSessionPartial() {
	s.createSession(s.defaultParams())

	price := 1400
	session, err := s.controller.UpdateSession(s.ctx, "TURF01", hostID, SessionUpdate{TotalPrice: &price})
	s.Require().NoError(err)
	s.Equal(1400, session.TotalPrice)
	// Untouched fields survive
	s.Equal("Greenfield Turf", session.TurfName)
}

func (s *ControllerSuite) TestUpdateSessionRejectsBadValues() {
	s.createSession(s.defaultParams())

	bad := -50
	_, err := s.controller.UpdateSession(s.ctx, "TURF01", hostID, SessionUpdate{TotalPrice: &bad})
	s.Require().ErrorIs(err, model.ErrValidation)

	zero := 0
	_, err = s.controller.UpdateSession(s.ctx, "TURF01", hostID, SessionUpdate{MaxSlots: &zero})
	s.Require().ErrorIs(err, model.ErrValidation)
}

func (s *ControllerSuite) TestUpdateSessionRequiresHost() {
	s.createSession(s.defaultParams())
	_, err := s.controller.Join(s.ctx, "TURF01", aliceID, "Alice")
	s.Require().NoError(err)

	price := 1400
	_, err = s.controller.UpdateSession(s.ctx, "TURF01", aliceID, SessionUpdate{TotalPrice: &price})
	s.Require().ErrorIs(err, model.ErrUnauthorized)
}

// Summary tests

func (s *ControllerSuite) TestSummaryComputesSplit() {
	s.createSession(s.defaultParams())
	_, err := s.controller.Join(s.ctx, "TURF01", bobID, "Bob")
	s.Require().NoError(err)

	summary, err := s.controller.Summary(s.ctx, "TURF01", bobID)
	s.Require().NoError(err)

	s.Equal(2, summary.Occupancy)
	s.Equal(500, summary.CostPerHead)
	s.Equal(1000, summary.TargetTotal)
	s.Equal(0, summary.Collected)
	s.False(summary.IsHost)
	s.Require().NotNil(summary.MyEntry)
	s.Equal(bobID, summary.MyEntry.OwnerIdentity)
}

func (s *ControllerSuite) TestSummaryHostEntryFirst() {
	s.createSession(s.defaultParams())
	_, err := s.controller.Join(s.ctx, "TURF01", aliceID, "Alice")
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, "TURF01", bobID, "Bob")
	s.Require().NoError(err)

	session, err := s.controller.TransferHost(s.ctx, "TURF01", hostID, bobID)
	s.Require().NoError(err)
	s.Equal(bobID, session.HostIdentity)

	summary, err := s.controller.Summary(s.ctx, "TURF01", bobID)
	s.Require().NoError(err)
	s.Require().Len(summary.Players, 3)
	s.Equal(bobID, summary.Players[0].OwnerIdentity)
	s.True(summary.IsHost)
}

func (s *ControllerSuite) TestSummaryForAnonymousViewer() {
	s.createSession(s.defaultParams())

	summary, err := s.controller.Summary(s.ctx, "TURF01", "")
	s.Require().NoError(err)
	s.False(summary.IsHost)
	s.Nil(summary.MyEntry)
}
