package httpapi

import (
	"net/http"
	"time"

	"jobboard/internal/events"
	"jobboard/internal/session"
)

type HealthHandler struct {
	Sessions *session.Store
	Hub      *events.Hub
	Now      func() time.Time
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"ok":   true,
		"time": h.Now().Format(time.RFC3339),
	}
	if h.Sessions != nil {
		out["sessions"] = h.Sessions.Len()
	}
	if h.Hub != nil {
		out["listeners"] = h.Hub.Clients()
	}
	writeJSON(w, out)
}
