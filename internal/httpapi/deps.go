package httpapi

import (
	"sync/atomic"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/events"
	"jobboard/internal/render"
	"jobboard/internal/session"
)

type Deps struct {
	Hub      *events.Hub
	Sessions *session.Store
	Renderer *render.Renderer

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}
