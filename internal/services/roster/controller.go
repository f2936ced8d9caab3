package roster

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jswain/turfsplit/internal/dependencies/clock"
	"github.com/jswain/turfsplit/internal/dependencies/ident"
	"github.com/jswain/turfsplit/internal/model"
	"github.com/jswain/turfsplit/internal/split"
	"github.com/jswain/turfsplit/internal/storage"
)

const (
	// SessionCodeLength is the length of generated join codes
	SessionCodeLength = 6
	// SessionCodeAlphabet is the characters used in join codes (avoid
	// confusing chars)
	SessionCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// SessionParams are the host-supplied parameters for a new session
type SessionParams struct {
	TurfName    string
	Location    string
	Time        string
	MapLink     string
	TotalPrice  int
	SplitMode   model.SplitMode
	ManualPrice int
	PayTarget   string
	MaxSlots    int
}

// SessionUpdate is a partial session edit; nil fields are left untouched
type SessionUpdate struct {
	TurfName    *string
	Location    *string
	Time        *string
	MapLink     *string
	TotalPrice  *int
	SplitMode   *model.SplitMode
	ManualPrice *int
	PayTarget   *string
	MaxSlots    *int
}

// Summary is the viewer-relative read model of a session: the ordered
// roster plus the derived money numbers, recomputed on every call
type Summary struct {
	Session     *model.Session
	Players     []*model.PlayerEntry
	CostPerHead int
	TargetTotal int
	Collected   int
	Occupancy   int
	IsHost      bool
	MyEntry     *model.PlayerEntry
}

// Controller manages the roster ledger: admission, ownership, host
// authority and session configuration
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	idgen   ident.Generator
	logger  *slog.Logger
}

// NewController creates a new roster Controller
func NewController(store storage.Storage, clk clock.Clock, idgen ident.Generator, logger *slog.Logger) *Controller {
	return &Controller{
		storage: store,
		clock:   clk,
		idgen:   idgen,
		logger:  logger,
	}
}

// CreateSession sets up a new session with host as its first roster entry,
// so the invariant that the host identity owns an entry holds from the
// start
func (c *Controller) CreateSession(ctx context.Context, host model.Identity, hostName string, params SessionParams) (*model.Session, error) {
	hostName, err := normalizeName(hostName)
	if err != nil {
		return nil, err
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}

	now := c.clock.Now()

	// Generate unique join code
	var code model.SessionCode
	for {
		code = model.SessionCode(c.idgen.NewCode(SessionCodeLength, SessionCodeAlphabet))
		exists, err := c.storage.SessionExists(ctx, code)
		if err != nil {
			return nil, model.WrapStore(err)
		}
		if !exists {
			break
		}
	}

	session := &model.Session{
		Code:         code,
		TurfName:     params.TurfName,
		Location:     params.Location,
		Time:         params.Time,
		MapLink:      params.MapLink,
		TotalPrice:   params.TotalPrice,
		SplitMode:    params.SplitMode,
		ManualPrice:  params.ManualPrice,
		PayTarget:    params.PayTarget,
		MaxSlots:     params.MaxSlots,
		HostIdentity: host,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, model.WrapStore(err)
	}

	if _, err := c.insertEntry(ctx, code, hostName, host); err != nil {
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session", string(code)),
		slog.String("host", string(host)),
	)

	return session, nil
}

// GetSession retrieves a session by join code
func (c *Controller) GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, model.WrapStore(err)
	}
	return session, nil
}

// Join admits an authenticated identity onto the roster. Checks run in
// order: name validation, one slot per identity, capacity; the insert
// itself re-checks admission atomically in the store.
func (c *Controller) Join(ctx context.Context, code model.SessionCode, identity model.Identity, name string) (*model.PlayerEntry, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, model.WrapStore(err)
	}

	players, err := c.storage.ListPlayers(ctx, code)
	if err != nil {
		return nil, model.WrapStore(err)
	}
	if model.FindByOwner(players, identity) != nil {
		return nil, model.ErrAlreadyJoined
	}
	if len(players) >= session.MaxSlots {
		return nil, model.ErrSquadFull
	}

	return c.insertEntry(ctx, code, name, identity)
}

// JoinManual lets the host add an entry for someone not yet signed in; the
// entry has no owner until claimed
func (c *Controller) JoinManual(ctx context.Context, code model.SessionCode, actor model.Identity, name string) (*model.PlayerEntry, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	if err := c.requireHost(ctx, code, actor); err != nil {
		return nil, err
	}

	return c.insertEntry(ctx, code, name, "")
}

// Claim binds the acting identity to an unowned manual entry; payment
// status is untouched
func (c *Controller) Claim(ctx context.Context, code model.SessionCode, actor model.Identity, entryID model.EntryID) (*model.PlayerEntry, error) {
	entry, err := c.storage.ClaimPlayer(ctx, code, entryID, actor)
	if err != nil {
		return nil, model.WrapStore(err)
	}

	c.logger.Info("entry claimed",
		slog.String("session", string(code)),
		slog.String("entry", string(entryID)),
		slog.String("identity", string(actor)),
	)

	return entry, nil
}

// RemovePlayer deletes a roster entry; host only
func (c *Controller) RemovePlayer(ctx context.Context, code model.SessionCode, actor model.Identity, entryID model.EntryID) error {
	if err := c.requireHost(ctx, code, actor); err != nil {
		return err
	}

	if err := c.storage.DeletePlayer(ctx, code, entryID); err != nil {
		return model.WrapStore(err)
	}
	return nil
}

// ResetAll wipes the whole roster. Destructive and irreversible, so the
// caller must pass confirmed=true explicitly.
func (c *Controller) ResetAll(ctx context.Context, code model.SessionCode, actor model.Identity, confirmed bool) error {
	if !confirmed {
		return model.ErrConfirmationRequired
	}

	if err := c.requireHost(ctx, code, actor); err != nil {
		return err
	}

	if err := c.storage.DeleteAllPlayers(ctx, code); err != nil {
		return model.WrapStore(err)
	}

	c.logger.Info("roster reset", slog.String("session", string(code)))
	return nil
}

// TransferHost hands host authority to the owner of an existing entry.
// Single-writer handoff: the old host loses authority as soon as the write
// is observed.
func (c *Controller) TransferHost(ctx context.Context, code model.SessionCode, actor model.Identity, newHost model.Identity) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, model.WrapStore(err)
	}
	if !session.IsHost(actor) {
		return nil, model.ErrUnauthorized
	}

	players, err := c.storage.ListPlayers(ctx, code)
	if err != nil {
		return nil, model.WrapStore(err)
	}
	if model.FindByOwner(players, newHost) == nil {
		return nil, model.ErrEntryNotFound
	}

	session.HostIdentity = newHost
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, model.WrapStore(err)
	}

	c.logger.Info("host transferred",
		slog.String("session", string(code)),
		slog.String("from", string(actor)),
		slog.String("to", string(newHost)),
	)

	return session, nil
}

// UpdateSession applies a validated partial edit to the session config;
// host only
func (c *Controller) UpdateSession(ctx context.Context, code model.SessionCode, actor model.Identity, update SessionUpdate) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, model.WrapStore(err)
	}
	if !session.IsHost(actor) {
		return nil, model.ErrUnauthorized
	}

	if update.TurfName != nil {
		session.TurfName = strings.TrimSpace(*update.TurfName)
	}
	if update.Location != nil {
		session.Location = *update.Location
	}
	if update.Time != nil {
		session.Time = *update.Time
	}
	if update.MapLink != nil {
		session.MapLink = *update.MapLink
	}
	if update.TotalPrice != nil {
		session.TotalPrice = *update.TotalPrice
	}
	if update.SplitMode != nil {
		session.SplitMode = *update.SplitMode
	}
	if update.ManualPrice != nil {
		session.ManualPrice = *update.ManualPrice
	}
	if update.PayTarget != nil {
		session.PayTarget = *update.PayTarget
	}
	if update.MaxSlots != nil {
		session.MaxSlots = *update.MaxSlots
	}

	if err := validateParams(SessionParams{
		TurfName:    session.TurfName,
		TotalPrice:  session.TotalPrice,
		SplitMode:   session.SplitMode,
		ManualPrice: session.ManualPrice,
		MaxSlots:    session.MaxSlots,
	}); err != nil {
		return nil, err
	}

	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, model.WrapStore(err)
	}

	return session, nil
}

// Summary returns the session, the display-ordered roster and the derived
// money numbers, relative to the viewing identity
func (c *Controller) Summary(ctx context.Context, code model.SessionCode, viewer model.Identity) (*Summary, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, model.WrapStore(err)
	}

	players, err := c.storage.ListPlayers(ctx, code)
	if err != nil {
		return nil, model.WrapStore(err)
	}
	model.SortRoster(players, session.HostIdentity)

	occupancy := split.Occupancy(players)
	costPerHead := split.CostPerHead(session, occupancy)

	return &Summary{
		Session:     session,
		Players:     players,
		CostPerHead: costPerHead,
		TargetTotal: split.TargetTotal(session, occupancy),
		Collected:   split.Collected(players, costPerHead),
		Occupancy:   occupancy,
		IsHost:      session.IsHost(viewer),
		MyEntry:     model.FindByOwner(players, viewer),
	}, nil
}

// insertEntry builds a pending entry and runs the store's conditional
// insert, which enforces capacity and owner uniqueness atomically
func (c *Controller) insertEntry(ctx context.Context, code model.SessionCode, name string, owner model.Identity) (*model.PlayerEntry, error) {
	entry := &model.PlayerEntry{
		ID:            model.EntryID(c.idgen.NewID()),
		Name:          name,
		OwnerIdentity: owner,
		PaymentStatus: model.StatusPending,
		CreatedAt:     c.clock.Now(),
	}

	if err := c.storage.InsertPlayer(ctx, code, entry); err != nil {
		return nil, model.WrapStore(err)
	}
	return entry, nil
}

// requireHost fails with ErrUnauthorized unless actor holds host authority
func (c *Controller) requireHost(ctx context.Context, code model.SessionCode, actor model.Identity) error {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return model.WrapStore(err)
	}
	if !session.IsHost(actor) {
		return model.ErrUnauthorized
	}
	return nil
}

// normalizeName trims and upper-cases a display name, matching the
// roster's display convention
func normalizeName(name string) (string, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("%w: player name is required", model.ErrValidation)
	}
	return name, nil
}

// validateParams rejects config the original UI silently accepted: a
// session must have a name, a positive price and capacity, and a known
// split mode
func validateParams(params SessionParams) error {
	if strings.TrimSpace(params.TurfName) == "" {
		return fmt.Errorf("%w: turf name is required", model.ErrValidation)
	}
	if params.TotalPrice <= 0 {
		return fmt.Errorf("%w: total price must be positive", model.ErrValidation)
	}
	if !params.SplitMode.Valid() {
		return fmt.Errorf("%w: unknown split mode %q", model.ErrValidation, params.SplitMode)
	}
	if params.ManualPrice < 0 {
		return fmt.Errorf("%w: manual price cannot be negative", model.ErrValidation)
	}
	if params.MaxSlots < 1 {
		return fmt.Errorf("%w: max slots must be at least 1", model.ErrValidation)
	}
	return nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateSession(ctx context.Context, host model.Identity, hostName string, params SessionParams) (*model.Session, error)
	GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error)
	Join(ctx context.Context, code model.SessionCode, identity model.Identity, name string) (*model.PlayerEntry, error)
	JoinManual(ctx context.Context, code model.SessionCode, actor model.Identity, name string) (*model.PlayerEntry, error)
	Claim(ctx context.Context, code model.SessionCode, actor model.Identity, entryID model.EntryID) (*model.PlayerEntry, error)
	RemovePlayer(ctx context.Context, code model.SessionCode, actor model.Identity, entryID model.EntryID) error
	ResetAll(ctx context.Context, code model.SessionCode, actor model.Identity, confirmed bool) error
	TransferHost(ctx context.Context, code model.SessionCode, actor model.Identity, newHost model.Identity) (*model.Session, error)
	UpdateSession(ctx context.Context, code model.SessionCode, actor model.Identity, update SessionUpdate) (*model.Session, error)
	Summary(ctx context.Context, code model.SessionCode, viewer model.Identity) (*Summary, error)
}

var _ ControllerInterface = (*Controller)(nil)
