package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"jobboard/internal/board"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData feeds the page template.
type PageData struct {
	SessionID   string
	Phase       string
	SearchTerm  string
	ShowRecent  bool
	ToggleLabel string
	Cards       []Card
	Error       string
}

func NewPageData(sessionID string, v board.View, now time.Time) PageData {
	return PageData{
		SessionID:   sessionID,
		Phase:       v.Phase.String(),
		SearchTerm:  v.SearchTerm,
		ShowRecent:  v.ShowRecent,
		ToggleLabel: v.ToggleLabel,
		Cards:       NewCards(v.Jobs, now),
		Error:       v.Error,
	}
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// Page renders into a buffer first so a template error never leaves a half-written response.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
