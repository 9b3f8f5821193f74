package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"jobboard/internal/config"
	"jobboard/internal/events"
	"jobboard/internal/httpapi"
	"jobboard/internal/render"
	"jobboard/internal/scheduler"
	"jobboard/internal/session"
	"jobboard/internal/upstream"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	dataDir := os.Getenv("JOBBOARD_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	lock, err := config.LockDataDir(dataDir)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", config.FileName)
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	config.ApplyEnv(&cfg)
	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if err := vr.Err(); err != nil {
		log.Fatalf("%s: %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := upstream.NewHostLimiter(cfg.Upstream.RequestsPerSecond, cfg.Upstream.Burst)
	client := upstream.New(cfg.UpstreamConfig(), limiter)

	renderer, err := render.NewRenderer()
	if err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()
	currentTTL := func() time.Duration {
		return cfgVal.Load().(config.Config).SessionTTL()
	}
	sessions := session.NewStore(session.Config{
		TTL:         cfg.SessionTTL(),
		CurrentTTL:  currentTTL,
		Fetcher:     client,
		Hub:         hub,
		BaseContext: ctx,
	})

	mux := httpapi.NewMux(httpapi.Deps{
		Hub:         hub,
		Sessions:    sessions,
		Renderer:    renderer,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})
	handler := httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	ln, err := net.Listen("tcp", cfg.App.Addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("jobboard listening on http://%s (config=%s upstream=%s)", ln.Addr(), userCfgPath, client.Name())

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		scheduler.Every(gctx, time.Minute, "session-sweep", sessions.SweepTask)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("[main] exit: %v", err)
	}
	log.Printf("[main] stopped")
}
