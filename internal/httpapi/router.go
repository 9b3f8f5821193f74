package httpapi

import (
	"net/http"
	"time"
)

// NewMux wires every route; main wraps it in the middleware chain.
func NewMux(d Deps) *http.ServeMux {
	if d.Now == nil {
		d.Now = time.Now
	}
	mux := http.NewServeMux()

	// Board page
	bh := BoardHandler{Sessions: d.Sessions, Renderer: d.Renderer, CfgVal: d.CfgVal, Now: d.Now}
	mux.HandleFunc("/{$}", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: bh.Page,
	}))
	mux.HandleFunc("/search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: bh.Search,
	}))
	mux.HandleFunc("/toggle", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: bh.Toggle,
	}))
	mux.HandleFunc("/reload", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: bh.Reload,
	}))
	mux.HandleFunc("/api/view", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: bh.View,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub, Sessions: d.Sessions}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	hh := HealthHandler{Sessions: d.Sessions, Hub: d.Hub, Now: d.Now}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
