package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jswain/turfsplit/internal/api/middleware"
	"github.com/jswain/turfsplit/internal/api/request"
	"github.com/jswain/turfsplit/internal/api/response"
	"github.com/jswain/turfsplit/internal/model"
	"github.com/jswain/turfsplit/internal/services/payment"
	"github.com/jswain/turfsplit/internal/services/roster"
)

// RosterHandler handles roster membership and payment status endpoints
type RosterHandler struct {
	rosterController *roster.Controller
	paymentService   *payment.Service
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(rosterController *roster.Controller, paymentService *payment.Service) *RosterHandler {
	return &RosterHandler{
		rosterController: rosterController,
		paymentService:   paymentService,
	}
}

// Join handles POST /api/v1/sessions/{code}/join
func (h *RosterHandler) Join(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	entry, err := h.rosterController.Join(r.Context(), code, id, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.EntryFromModel(entry))
}

// AddPlayer handles POST /api/v1/sessions/{code}/players
// The host adds an entry for someone who hasn't signed in; it stays
// unowned until claimed
func (h *RosterHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.AddPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	entry, err := h.rosterController.JoinManual(r.Context(), code, id, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.EntryFromModel(entry))
}

// Claim handles POST /api/v1/sessions/{code}/players/{id}/claim
func (h *RosterHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())
	vars := mux.Vars(r)
	code := model.SessionCode(vars["code"])
	entryID := model.EntryID(vars["id"])

	entry, err := h.rosterController.Claim(r.Context(), code, id, entryID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EntryFromModel(entry))
}

// SetStatus handles PATCH /api/v1/sessions/{code}/players/{id}/status
func (h *RosterHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())
	vars := mux.Vars(r)
	code := model.SessionCode(vars["code"])
	entryID := model.EntryID(vars["id"])

	var req request.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	entry, err := h.paymentService.SetStatus(r.Context(), code, id, entryID, model.PaymentStatus(req.Status))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EntryFromModel(entry))
}

// Remove handles DELETE /api/v1/sessions/{code}/players/{id}
func (h *RosterHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())
	vars := mux.Vars(r)
	code := model.SessionCode(vars["code"])
	entryID := model.EntryID(vars["id"])

	if err := h.rosterController.RemovePlayer(r.Context(), code, id, entryID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Reset handles DELETE /api/v1/sessions/{code}/players
// Wipes the roster; requires {"confirmed": true} in the body
func (h *RosterHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.ResetRosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = request.ResetRosterRequest{}
	}

	if err := h.rosterController.ResetAll(r.Context(), code, id, req.Confirmed); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
