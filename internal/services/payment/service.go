package payment

import (
	"context"
	"log/slog"

	"github.com/jswain/turfsplit/internal/model"
	"github.com/jswain/turfsplit/internal/storage"
)

// rule names who may drive one status transition. Owner is the identity
// bound to the entry; Host holds session authority; HostIfUnowned lets the
// host act in the owner's place only for manual entries.
type rule struct {
	Owner         bool
	Host          bool
	HostIfUnowned bool
}

// transitions is the full decision table for payment status changes. Any
// (from, to) pair absent here is illegal for every actor. The table has no
// path that lets a non-host owner reach verified on its own entry: only a
// host attestation promotes a submitted payment.
var transitions = map[model.PaymentStatus]map[model.PaymentStatus]rule{
	model.StatusPending: {
		model.StatusReview: {Owner: true, HostIfUnowned: true}, // submit
	},
	model.StatusReview: {
		model.StatusVerified: {Host: true},              // approve
		model.StatusPending:  {Owner: true, Host: true}, // withdraw / reject
	},
	model.StatusVerified: {
		model.StatusPending: {Host: true}, // reopen a disputed payment
	},
}

// Service is the payment-status state machine
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new payment Service
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger,
	}
}

// SetStatus moves a roster entry's payment status on behalf of actor.
// Requesting the entry's current status is a no-op returning the entry
// unchanged. The persisted write is conditional on the status the decision
// was made against, so a concurrent transition loses cleanly instead of
// being overwritten.
func (s *Service) SetStatus(ctx context.Context, code model.SessionCode, actor model.Identity, entryID model.EntryID, to model.PaymentStatus) (*model.PlayerEntry, error) {
	if !to.Valid() {
		return nil, model.ErrValidation
	}

	session, err := s.storage.GetSession(ctx, code)
	if err != nil {
		return nil, model.WrapStore(err)
	}

	entry, err := s.storage.GetPlayer(ctx, code, entryID)
	if err != nil {
		return nil, model.WrapStore(err)
	}

	from := entry.PaymentStatus
	if from == to {
		return entry, nil
	}

	r, ok := transitions[from][to]
	if !ok {
		return nil, model.ErrIllegalTransition
	}

	isHost := session.IsHost(actor)
	isOwner := actor != "" && entry.OwnerIdentity == actor
	allowed := (r.Owner && isOwner) ||
		(r.Host && isHost) ||
		(r.HostIfUnowned && isHost && !entry.Owned())
	if !allowed {
		return nil, model.ErrUnauthorized
	}

	updated, err := s.storage.SetPlayerStatus(ctx, code, entryID, from, to)
	if err != nil {
		return nil, model.WrapStore(err)
	}

	s.logger.Info("payment status changed",
		slog.String("session", string(code)),
		slog.String("entry", string(entryID)),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.Bool("by_host", isHost),
	)

	return updated, nil
}
