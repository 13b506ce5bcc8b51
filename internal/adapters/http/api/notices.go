package api

import (
	"net/http"

	"github.com/okian/eventsphere/internal/notice"
)

// NoticesHandler hands pending notices to a poller.
type NoticesHandler struct {
	deps Dependencies
}

// NewNoticesHandler creates a new notices handler.
func NewNoticesHandler(deps Dependencies) *NoticesHandler {
	return &NoticesHandler{deps: deps}
}

// HandleDrain handles GET /notices requests. Returned notices are removed.
func (h *NoticesHandler) HandleDrain(w http.ResponseWriter, r *http.Request) {
	out := h.deps.DrainNotices()
	if out == nil {
		out = []notice.Notice{}
	}
	writeJSON(w, http.StatusOK, out)
}
