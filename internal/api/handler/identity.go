package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jswain/turfsplit/internal/api/middleware"
	"github.com/jswain/turfsplit/internal/api/request"
	"github.com/jswain/turfsplit/internal/api/response"
	"github.com/jswain/turfsplit/internal/services/identity"
)

// IdentityHandler handles identity-related endpoints
type IdentityHandler struct {
	identityService *identity.Service
}

// NewIdentityHandler creates a new identity handler
func NewIdentityHandler(identityService *identity.Service) *IdentityHandler {
	return &IdentityHandler{
		identityService: identityService,
	}
}

// CreateGuest handles POST /api/v1/identities/guest
func (h *IdentityHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	token, err := h.identityService.CreateGuest(r.Context(), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromToken(token))
}

// Register handles POST /api/v1/identities/register
func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}
	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	token, err := h.identityService.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromToken(token))
}

// Login handles POST /api/v1/identities/login
func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	token, err := h.identityService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromToken(token))
}

// GetMe handles GET /api/v1/identities/me
func (h *IdentityHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(r.Context())
	response.JSON(w, http.StatusOK, response.IdentityFromToken(token))
}
