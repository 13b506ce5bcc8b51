package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/eventsphere/internal/domain/model"
)

type rsvpRequest struct {
	Status model.RSVPStatus `json:"status"`
}

type scanRequest struct {
	TicketCode string `json:"ticketCode"`
}

// EventsHandler handles attendance writes.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleRSVP handles POST /events/{id}/rsvp requests.
func (h *EventsHandler) HandleRSVP(w http.ResponseWriter, r *http.Request) {
	var req rsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	a, err := h.deps.SetStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleScan handles POST /events/{id}/scan requests.
func (h *EventsHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	res, err := h.deps.Scan(r.Context(), r.PathValue("id"), req.TicketCode)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
