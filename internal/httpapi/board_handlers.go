package httpapi

import (
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"jobboard/internal/board"
	"jobboard/internal/config"
	"jobboard/internal/render"
	"jobboard/internal/session"
)

type BoardHandler struct {
	Sessions *session.Store
	Renderer *render.Renderer
	CfgVal   *atomic.Value // stores config.Config
	Now      func() time.Time
}

// ViewResponse is the JSON form of what the page currently shows.
type ViewResponse struct {
	Session     string        `json:"session"`
	Phase       board.Phase   `json:"phase"`
	SearchTerm  string        `json:"searchTerm"`
	ShowRecent  bool          `json:"showRecentJobs"`
	ToggleLabel string        `json:"toggleLabel"`
	Cards       []render.Card `json:"cards"`
	Error       string        `json:"error,omitempty"`
}

func (h BoardHandler) options() board.Options {
	if h.CfgVal != nil {
		if cfg, ok := h.CfgVal.Load().(config.Config); ok {
			return cfg.BoardOptions()
		}
	}
	return board.Options{RecentDays: board.DefaultRecentDays, Mode: board.FilterExclusive}
}

func (h BoardHandler) lookup(r *http.Request) (*session.Session, bool) {
	c, err := r.Cookie(session.CookieName)
	if err != nil {
		return nil, false
	}
	return h.Sessions.Get(c.Value)
}

func (h BoardHandler) start(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := h.Sessions.Start(RequestIDFrom(r.Context()), h.options())
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// Page renders the visitor's board, opening a fresh one when the cookie is
// missing or its session expired.
func (h BoardHandler) Page(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(r)
	if !ok {
		sess = h.start(w, r)
	}

	now := h.Now()
	data := render.NewPageData(sess.ID, sess.Page.View(now), now)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.Renderer.Page(w, data); err != nil {
		log.Printf("level=error msg=\"render\" request_id=%s session=%s err=%v", RequestIDFrom(r.Context()), sess.ID, err)
		WriteError(w, r, http.StatusInternalServerError, "render_failed", "could not render page")
	}
}

// Search stores the submitted company filter exactly as typed.
func (h BoardHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_form", "invalid form body")
		return
	}
	sess, ok := h.lookup(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sess.Page.Search(r.PostFormValue("q"))
	h.after(w, r, sess)
}

func (h BoardHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sess.Page.ToggleRecent()
	h.after(w, r, sess)
}

// Reload drops the current page and opens a new one, which fetches again.
func (h BoardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if old, ok := h.lookup(r); ok {
		h.Sessions.Remove(old.ID)
	}
	sess := h.start(w, r)
	h.after(w, r, sess)
}

// View returns the page as JSON. With ?wait=1 it holds the response until
// the fetch has finished or the client goes away.
func (h BoardHandler) View(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(r)
	if !ok {
		WriteError(w, r, http.StatusNotFound, "no_session", "no board session; load / first")
		return
	}
	if wait := r.URL.Query().Get("wait"); wait == "1" || wait == "true" {
		if err := sess.Page.Wait(r.Context()); err != nil {
			return
		}
	}
	writeJSON(w, h.viewOf(sess))
}

func (h BoardHandler) viewOf(sess *session.Session) ViewResponse {
	now := h.Now()
	v := sess.Page.View(now)
	return ViewResponse{
		Session:     sess.ID,
		Phase:       v.Phase,
		SearchTerm:  v.SearchTerm,
		ShowRecent:  v.ShowRecent,
		ToggleLabel: v.ToggleLabel,
		Cards:       render.NewCards(v.Jobs, now),
		Error:       v.Error,
	}
}

// after answers a page action: JSON clients get the new view, browsers go back to /.
func (h BoardHandler) after(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if wantsJSON(r) {
		writeJSON(w, h.viewOf(sess))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
