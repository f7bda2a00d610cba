// Package app wires the engine components into a runnable server process.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"redline/internal/snapshot"
	"redline/pkg/advisor"
	"redline/pkg/api"
	"redline/pkg/audit"
	"redline/pkg/banner"
	"redline/pkg/config"
	"redline/pkg/logger"
	"redline/pkg/promote"
	"redline/pkg/revision"
	"redline/pkg/store"
	"redline/pkg/threads"
)

// App encapsulates the server components and lifecycle.
type App struct {
	cfg     *config.Config
	addr    string
	dbPath  string
	version string

	pebble *store.Pebble
	srv    *http.Server

	Store    *threads.Store
	Mapper   *revision.Mapper
	Gateway  *promote.Gateway
	Exporter *audit.Exporter
	Advisor  advisor.Service
}

// New opens the store and constructs the engine. It does not start the
// HTTP server; call Run to start and block until ctx is canceled.
func New(cfg *config.Config, addr, dbPath, version string) (*App, error) {
	pb, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", dbPath, err)
	}

	var adv advisor.Service = advisor.Unavailable{}
	if cfg.Advisor.APIKey != "" {
		adv = advisor.NewAnthropic(cfg.Advisor.APIKey, cfg.Advisor.Model)
	}

	st := threads.NewStore(pb, threads.DefaultPersistKey)
	a := &App{
		cfg:      cfg,
		addr:     addr,
		dbPath:   dbPath,
		version:  version,
		pebble:   pb,
		Store:    st,
		Mapper:   revision.NewMapper(st, adv),
		Gateway:  promote.NewGateway(st),
		Exporter: audit.NewExporter(st),
		Advisor:  adv,
	}
	return a, nil
}

// Run starts the HTTP server and the optional snapshot scheduler, blocking
// until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	banner.Print(a.addr, a.dbPath, a.version, a.cfg.Advisor.APIKey != "")

	stopSnapshots, err := snapshot.Start(ctx, a.cfg.Snapshot, a.Exporter)
	if err != nil {
		return err
	}
	defer stopSnapshots()

	srv := api.NewServer(a.Store, a.Mapper, a.Gateway, a.Exporter, a.Advisor)
	a.srv = &http.Server{
		Addr: a.addr,
		Handler: srv.Router(api.RateLimit{
			RPS:   a.cfg.Security.RateLimit.RPS,
			Burst: a.cfg.Security.RateLimit.Burst,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http_listening", "addr", a.addr)
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return a.shutdown()
	case err := <-errCh:
		_ = a.pebble.Close()
		return err
	}
}

func (a *App) shutdown() error {
	logger.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.srv != nil {
		_ = a.srv.Shutdown(shutdownCtx)
	}
	if err := a.pebble.Close(); err != nil {
		logger.Error("pebble_close_failed", "error", err)
		return err
	}
	return nil
}
