package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jswain/turfsplit/internal/model"
	"github.com/jswain/turfsplit/internal/storage"
)

// txRetries bounds optimistic-transaction retries when a watched key
// changes underneath us
const txRetries = 5

// Storage is a Redis-backed implementation of the storage interface.
// Conditional roster writes run as WATCH/MULTI/EXEC optimistic
// transactions so capacity and ownership checks cannot race with
// concurrent joins or claims.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, sessionKey(session.Code), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) SessionExists(ctx context.Context, code model.SessionCode) (bool, error) {
	exists, err := s.client.Exists(ctx, sessionKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) DeleteSession(ctx context.Context, code model.SessionCode) error {
	if err := s.DeleteAllPlayers(ctx, code); err != nil && !errors.Is(err, model.ErrSessionNotFound) {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, sessionKey(code))
	pipe.Del(ctx, seqKey(code))
	_, err := pipe.Exec(ctx)
	return err
}

// Roster operations

func (s *Storage) InsertPlayer(ctx context.Context, code model.SessionCode, entry *model.PlayerEntry) error {
	sKey := sessionKey(code)
	rKey := rosterKey(code)
	cKey := seqKey(code)

	watched := []string{sKey, rKey, cKey}
	var oKey string
	if entry.OwnerIdentity != "" {
		oKey = ownerIndexKey(code, entry.OwnerIdentity)
		watched = append(watched, oKey)
	}

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, sKey).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrSessionNotFound
			}
			return err
		}
		var session model.Session
		if err := json.Unmarshal(data, &session); err != nil {
			return err
		}

		if oKey != "" {
			exists, err := tx.Exists(ctx, oKey).Result()
			if err != nil {
				return err
			}
			if exists > 0 {
				return model.ErrAlreadyJoined
			}
		}

		count, err := tx.ZCard(ctx, rKey).Result()
		if err != nil {
			return err
		}
		if count >= int64(session.MaxSlots) {
			return model.ErrSquadFull
		}

		seq, err := tx.Get(ctx, cKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		entry.Seq = seq + 1

		payload, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cKey, entry.Seq, s.cfg.SessionTTL)
			pipe.Set(ctx, entryKey(code, entry.ID), payload, s.cfg.SessionTTL)
			pipe.ZAdd(ctx, rKey, redis.Z{Score: float64(entry.Seq), Member: string(entry.ID)})
			pipe.Expire(ctx, rKey, s.cfg.SessionTTL)
			if oKey != "" {
				pipe.Set(ctx, oKey, string(entry.ID), s.cfg.SessionTTL)
			}
			return nil
		})
		return err
	}

	return s.transact(ctx, txf, watched...)
}

func (s *Storage) GetPlayer(ctx context.Context, code model.SessionCode, id model.EntryID) (*model.PlayerEntry, error) {
	data, err := s.client.Get(ctx, entryKey(code, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEntryNotFound
		}
		return nil, err
	}

	var entry model.PlayerEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Storage) ListPlayers(ctx context.Context, code model.SessionCode) ([]*model.PlayerEntry, error) {
	exists, err := s.SessionExists(ctx, code)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrSessionNotFound
	}

	ids, err := s.client.ZRange(ctx, rosterKey(code), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.PlayerEntry{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = entryKey(code, model.EntryID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.PlayerEntry, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // entry may have expired
		}
		var entry model.PlayerEntry
		if err := json.Unmarshal([]byte(val.(string)), &entry); err != nil {
			continue // skip invalid data
		}
		players = append(players, &entry)
	}

	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, code model.SessionCode, id model.EntryID) error {
	entry, err := s.GetPlayer(ctx, code, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, entryKey(code, id))
	pipe.ZRem(ctx, rosterKey(code), string(id))
	if entry.OwnerIdentity != "" {
		pipe.Del(ctx, ownerIndexKey(code, entry.OwnerIdentity))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) DeleteAllPlayers(ctx context.Context, code model.SessionCode) error {
	exists, err := s.SessionExists(ctx, code)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrSessionNotFound
	}

	players, err := s.ListPlayers(ctx, code)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, p := range players {
		pipe.Del(ctx, entryKey(code, p.ID))
		if p.OwnerIdentity != "" {
			pipe.Del(ctx, ownerIndexKey(code, p.OwnerIdentity))
		}
	}
	pipe.Del(ctx, rosterKey(code))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ClaimPlayer(ctx context.Context, code model.SessionCode, id model.EntryID, identity model.Identity) (*model.PlayerEntry, error) {
	eKey := entryKey(code, id)
	oKey := ownerIndexKey(code, identity)

	var claimed *model.PlayerEntry
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, eKey).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrEntryNotFound
			}
			return err
		}
		var entry model.PlayerEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}

		if entry.OwnerIdentity == identity {
			// duplicate apply of the same claim
			claimed = &entry
			return nil
		}
		if entry.OwnerIdentity != "" {
			return model.ErrNotClaimable
		}

		exists, err := tx.Exists(ctx, oKey).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return model.ErrAlreadyJoined
		}

		entry.OwnerIdentity = identity
		payload, err := json.Marshal(&entry)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, eKey, payload, s.cfg.SessionTTL)
			pipe.Set(ctx, oKey, string(entry.ID), s.cfg.SessionTTL)
			return nil
		})
		if err != nil {
			return err
		}
		claimed = &entry
		return nil
	}

	if err := s.transact(ctx, txf, eKey, oKey); err != nil {
		return nil, err
	}
	return claimed, nil
}

func (s *Storage) SetPlayerStatus(ctx context.Context, code model.SessionCode, id model.EntryID, from, to model.PaymentStatus) (*model.PlayerEntry, error) {
	eKey := entryKey(code, id)

	var updated *model.PlayerEntry
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, eKey).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrEntryNotFound
			}
			return err
		}
		var entry model.PlayerEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}

		if entry.PaymentStatus == to {
			updated = &entry
			return nil
		}
		if entry.PaymentStatus != from {
			return model.ErrStatusConflict
		}

		entry.PaymentStatus = to
		payload, err := json.Marshal(&entry)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, eKey, payload, s.cfg.SessionTTL)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &entry
		return nil
	}

	if err := s.transact(ctx, txf, eKey); err != nil {
		return nil, err
	}
	return updated, nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index update; accounts never expire
	pipe := s.client.Pipeline()
	pipe.Set(ctx, accountKey(account.Identity), data, 0)
	if account.Username != "" {
		pipe.Set(ctx, usernameIndexKey(account.Username), string(account.Identity), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, identity model.Identity) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(identity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	identity, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.Identity(identity))
}

// transact runs fn under WATCH on the given keys, retrying when a watched
// key changes before EXEC
func (s *Storage) transact(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	for i := 0; i < txRetries; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("transaction contention on %v after %d retries", keys, txRetries)
}
