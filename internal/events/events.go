package events

import (
	"encoding/json"
	"time"
)

const (
	TypePing       = "ping"
	TypeJobsLoaded = "jobs_loaded"
	TypeJobsFailed = "jobs_failed"
)

// Event is the envelope sent on the SSE stream.
type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// SessionData identifies the board session an event is about.
type SessionData struct {
	Session string `json:"session"`
	Jobs    int    `json:"jobs,omitempty"`
	Error   string `json:"error,omitempty"`
}

func MakeEvent(reqID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   1,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
