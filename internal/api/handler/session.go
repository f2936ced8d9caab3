package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jswain/turfsplit/internal/api/middleware"
	"github.com/jswain/turfsplit/internal/api/request"
	"github.com/jswain/turfsplit/internal/api/response"
	"github.com/jswain/turfsplit/internal/model"
	"github.com/jswain/turfsplit/internal/services/roster"
)

// SessionHandler handles session lifecycle and config endpoints
type SessionHandler struct {
	rosterController *roster.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(rosterController *roster.Controller) *SessionHandler {
	return &SessionHandler{
		rosterController: rosterController,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	params, err := paramsFromRequest(req.SessionParams)
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.rosterController.CreateSession(r.Context(), id, req.HostName, params)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// Get handles GET /api/v1/sessions/{code}
// Returns the full summary relative to the viewer; anonymous viewers get
// the roster without is_host or my_entry
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetIdentity(r.Context())
	code := model.SessionCode(mux.Vars(r)["code"])

	summary, err := h.rosterController.Summary(r.Context(), code, viewer)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SummaryFromModel(summary))
}

// Update handles PATCH /api/v1/sessions/{code}
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	update := roster.SessionUpdate{
		TurfName:    req.TurfName,
		Location:    req.Location,
		Time:        req.Time,
		MapLink:     req.MapLink,
		TotalPrice:  req.TotalPrice,
		ManualPrice: req.ManualPrice,
		PayTarget:   req.PayTarget,
		MaxSlots:    req.MaxSlots,
	}
	if req.SplitMode != nil {
		mode := model.SplitMode(*req.SplitMode)
		update.SplitMode = &mode
	}

	session, err := h.rosterController.UpdateSession(r.Context(), code, id, update)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// TransferHost handles POST /api/v1/sessions/{code}/transfer-host
func (h *SessionHandler) TransferHost(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.TransferHostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.NewHostIdentity == "" {
		WriteError(w, NewInvalidRequestError("new_host_identity is required"))
		return
	}

	session, err := h.rosterController.TransferHost(r.Context(), code, id, model.Identity(req.NewHostIdentity))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// paramsFromRequest maps the request body to controller params, rejecting
// an unknown split mode before it reaches the controller
func paramsFromRequest(p request.SessionParams) (roster.SessionParams, error) {
	mode := model.SplitMode(p.SplitMode)
	if p.SplitMode == "" {
		mode = model.SplitEven
	}

	return roster.SessionParams{
		TurfName:    p.TurfName,
		Location:    p.Location,
		Time:        p.Time,
		MapLink:     p.MapLink,
		TotalPrice:  p.TotalPrice,
		SplitMode:   mode,
		ManualPrice: p.ManualPrice,
		PayTarget:   p.PayTarget,
		MaxSlots:    p.MaxSlots,
	}, nil
}
