package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// JobRecord is one posting as returned by the jobs API.
type JobRecord struct {
	JobID          JobID  `json:"jobId,omitempty"`
	JobTitle       string `json:"jobTitle"`
	CompanyName    string `json:"companyName"`
	JobDescription string `json:"jobDescription"` // html
	PostingDate    string `json:"postingDate,omitempty"`
}

// JobID is only used as a rendering key. The API sends it as a string or a number.
type JobID string

func (id *JobID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = JobID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = JobID(n.String())
	return nil
}

var postingDateLayouts = []struct {
	layout string
	local  bool // no zone in the text: wall clock of the server's zone
}{
	{time.RFC3339Nano, false},
	{time.RFC3339, false},
	{"2006-01-02T15:04:05.000", true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", false}, // a bare date is midnight UTC
}

// PostedAt parses PostingDate. ok is false when the date is absent or unparseable.
func (j JobRecord) PostedAt() (t time.Time, ok bool) {
	raw := strings.TrimSpace(j.PostingDate)
	if raw == "" {
		return time.Time{}, false
	}
	for _, l := range postingDateLayouts {
		loc := time.UTC
		if l.local {
			loc = time.Local
		}
		if t, err := time.ParseInLocation(l.layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// HasPostingDate reports whether the record carries a posting date at all.
func (j JobRecord) HasPostingDate() bool {
	return j.PostingDate != ""
}
