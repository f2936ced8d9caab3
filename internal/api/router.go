package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jswain/turfsplit/internal/api/handler"
	"github.com/jswain/turfsplit/internal/api/middleware"
	"github.com/jswain/turfsplit/internal/services/identity"
	"github.com/jswain/turfsplit/internal/services/payment"
	"github.com/jswain/turfsplit/internal/services/roster"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	IdentityService  *identity.Service
	RosterController *roster.Controller
	PaymentService   *payment.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	identityHandler := handler.NewIdentityHandler(cfg.IdentityService)
	sessionHandler := handler.NewSessionHandler(cfg.RosterController)
	rosterHandler := handler.NewRosterHandler(cfg.RosterController, cfg.PaymentService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.IdentityService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.IdentityService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Identity routes (no auth required for creating identities/logging in)
	api.HandleFunc("/identities/guest", identityHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/identities/register", identityHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/identities/login", identityHandler.Login).Methods(http.MethodPost)

	// Protected identity routes
	identityProtected := api.PathPrefix("/identities").Subrouter()
	identityProtected.Use(authMiddleware)
	identityProtected.HandleFunc("/me", identityHandler.GetMe).Methods(http.MethodGet)

	// Session viewing works without an identity; anyone with the join code
	// can see the roster
	api.Handle("/sessions/{code}",
		optionalAuthMiddleware(http.HandlerFunc(sessionHandler.Get))).Methods(http.MethodGet)

	// Everything that writes requires auth
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}", sessionHandler.Update).Methods(http.MethodPatch)
	sessions.HandleFunc("/{code}/transfer-host", sessionHandler.TransferHost).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/join", rosterHandler.Join).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/players", rosterHandler.AddPlayer).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/players", rosterHandler.Reset).Methods(http.MethodDelete)
	sessions.HandleFunc("/{code}/players/{id}/claim", rosterHandler.Claim).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/players/{id}/status", rosterHandler.SetStatus).Methods(http.MethodPatch)
	sessions.HandleFunc("/{code}/players/{id}", rosterHandler.Remove).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
