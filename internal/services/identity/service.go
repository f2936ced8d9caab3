package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jswain/turfsplit/internal/dependencies/clock"
	"github.com/jswain/turfsplit/internal/dependencies/ident"
	"github.com/jswain/turfsplit/internal/model"
	"github.com/jswain/turfsplit/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUsernameExists     = errors.New("username already exists")
)

// Token represents an authenticated bearer token
type Token struct {
	Value       string
	Identity    model.Identity
	DisplayName string
	Guest       bool
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Service is the identity collaborator: it authenticates principals and
// issues the opaque Identity values the roster core consumes.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	idgen   ident.Generator
	logger  *slog.Logger

	mu     sync.RWMutex
	tokens map[string]*Token

	tokenTTL time.Duration
}

// Config holds configuration for the identity service
type Config struct {
	TokenTTL time.Duration
}

// DefaultConfig returns default identity configuration
func DefaultConfig() Config {
	return Config{
		TokenTTL: 24 * time.Hour,
	}
}

// New creates a new identity Service
func New(store storage.Storage, clk clock.Clock, idgen ident.Generator, cfg Config, logger *slog.Logger) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}
	return &Service{
		storage:  store,
		clock:    clk,
		idgen:    idgen,
		logger:   logger,
		tokens:   make(map[string]*Token),
		tokenTTL: cfg.TokenTTL,
	}
}

// CreateGuest creates an anonymous identity and token. A guest cannot log
// back in after the token expires.
func (s *Service) CreateGuest(ctx context.Context, displayName string) (*Token, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, model.ErrValidation
	}

	account := &model.Account{
		Identity:    model.Identity(s.idgen.NewID()),
		DisplayName: displayName,
		Guest:       true,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, model.WrapStore(err)
	}

	return s.issueToken(account), nil
}

// Register creates a password-backed identity and token
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*Token, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if username == "" || password == "" || displayName == "" {
		return nil, model.ErrValidation
	}

	_, err := s.storage.GetAccountByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrIdentityNotFound) {
		return nil, model.WrapStore(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Identity:     model.Identity(s.idgen.NewID()),
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, model.WrapStore(err)
	}

	s.logger.Info("identity registered", slog.String("identity", string(account.Identity)))
	return s.issueToken(account), nil
}

// Login authenticates a registered identity and issues a fresh token
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	account, err := s.storage.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrIdentityNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, model.WrapStore(err)
	}

	if account.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(account), nil
}

// ValidateToken checks a bearer token and returns its Token record
func (s *Service) ValidateToken(value string) (*Token, error) {
	s.mu.RLock()
	token, ok := s.tokens[value]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidToken
	}

	if s.clock.Now().After(token.ExpiresAt) {
		s.mu.Lock()
		delete(s.tokens, value)
		s.mu.Unlock()
		return nil, ErrInvalidToken
	}

	return token, nil
}

// InvalidateToken removes a token (sign-out)
func (s *Service) InvalidateToken(value string) {
	s.mu.Lock()
	delete(s.tokens, value)
	s.mu.Unlock()
}

// CleanExpired removes expired tokens (call periodically)
func (s *Service) CleanExpired() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for value, token := range s.tokens {
		if now.After(token.ExpiresAt) {
			delete(s.tokens, value)
		}
	}
}

// issueToken mints and records a bearer token for an account
func (s *Service) issueToken(account *model.Account) *Token {
	now := s.clock.Now()

	token := &Token{
		Value:       "tok_" + s.idgen.NewID(),
		Identity:    account.Identity,
		DisplayName: account.DisplayName,
		Guest:       account.Guest,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.tokenTTL),
	}

	s.mu.Lock()
	s.tokens[token.Value] = token
	s.mu.Unlock()

	return token
}
