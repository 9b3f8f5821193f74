package render

import (
	"html/template"
	"time"

	"github.com/dustin/go-humanize"

	"jobboard/internal/domain"
)

const excerptRunes = 280

// Card is the summary box for one job. Description is the record's HTML as
// received, injected without sanitizing; callers that feed untrusted sources
// must sanitize before it gets here.
type Card struct {
	Key         string        `json:"key,omitempty"`
	Title       string        `json:"jobTitle"`
	Company     string        `json:"companyName"`
	Description template.HTML `json:"jobDescription"`
	Excerpt     string        `json:"descriptionText"`
	Posted      string        `json:"posted,omitempty"`
}

func NewCard(j domain.JobRecord, now time.Time) Card {
	c := Card{
		Key:         string(j.JobID),
		Title:       j.JobTitle,
		Company:     j.CompanyName,
		Description: template.HTML(j.JobDescription),
		Excerpt:     Truncate(PlainText(j.JobDescription), excerptRunes),
	}
	if t, ok := j.PostedAt(); ok {
		c.Posted = humanize.RelTime(t, now, "ago", "from now")
	}
	return c
}

func NewCards(jobs []domain.JobRecord, now time.Time) []Card {
	out := make([]Card, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewCard(j, now))
	}
	return out
}
