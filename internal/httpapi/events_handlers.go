package httpapi

import (
	"fmt"
	"net/http"

	"jobboard/internal/board"
	"jobboard/internal/events"
	"jobboard/internal/session"
)

type EventsHandler struct {
	Hub      *events.Hub
	Sessions *session.Store
}

// ServeSSE streams the events of the caller's own board session. Without a
// live session cookie the stream carries pings only.
func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "Streaming unsupported")
		return
	}

	var sess *session.Session
	if c, err := r.Cookie(session.CookieName); err == nil && h.Sessions != nil {
		sess, _ = h.Sessions.Get(c.Value)
	}
	topic := ""
	if sess != nil {
		topic = sess.ID
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.Hub.Subscribe(topic)
	defer h.Hub.Unsubscribe(ch)

	reqID := RequestIDFrom(r.Context())
	send := func(msg string) {
		fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
		flusher.Flush()
	}

	send(events.MakeEvent(reqID, events.TypePing, nil))

	// A fetch that finished before this stream opened published to nobody; replay it.
	if sess != nil {
		if msg, done := finishedEvent(reqID, sess); done {
			send(msg)
		}
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			send(msg)
		}
	}
}

func finishedEvent(reqID string, sess *session.Session) (string, bool) {
	data := events.SessionData{Session: sess.ID}
	switch sess.Page.Phase() {
	case board.PhaseReady:
		data.Jobs = len(sess.Page.Jobs())
		return events.MakeEvent(reqID, events.TypeJobsLoaded, data), true
	case board.PhaseFailed:
		if err := sess.Page.Err(); err != nil {
			data.Error = err.Error()
		}
		return events.MakeEvent(reqID, events.TypeJobsFailed, data), true
	}
	return "", false
}
