package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ecosort/internal/config"
	"ecosort/internal/logger"
	"ecosort/internal/repository/sqlite"
	"ecosort/internal/route"
	"ecosort/internal/service/acquire"
	"ecosort/internal/service/backend"
	"ecosort/internal/service/camera"
	"ecosort/internal/service/flow"
	"ecosort/internal/service/websocket"
	"ecosort/internal/state"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger *logger.Logger
	db     *sqlite.DB
	client *backend.Client
	camera *camera.Service
	store  *state.Store
	flow   *flow.Flow
	hub    *websocket.Hub
}

// NewApp opens the preferences database and builds every service around one
// state store. The caller owns log and closes it after Close.
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	prefs := sqlite.NewPreferenceRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()
	theme, err := prefs.Theme(ctx)
	if err != nil {
		log.Warning("⚠️  Could not read saved theme, using %s: %v", theme, err)
	}

	client, err := backend.NewClient(cfg, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	store := state.NewStore(cfg.HistoryLimit, theme)
	cam := camera.NewService(cfg, log)
	rng := acquire.NewRand()
	demo := acquire.NewDemoService(client, rng, log)
	f := flow.NewFlow(cfg, store, client, cam, demo, prefs, rng, log)

	hub := websocket.NewHub(log)
	store.OnChange(hub.BroadcastState)
	f.SetFrameHandler(hub.BroadcastFrame)

	return &App{
		config: cfg,
		logger: log,
		db:     db,
		client: client,
		camera: cam,
		store:  store,
		flow:   f,
		hub:    hub,
	}, nil
}

// Flow is the classification flow shared by the web server and the CLI.
func (a *App) Flow() *flow.Flow {
	return a.flow
}

// CheckBackend pings the backend health endpoint.
func (a *App) CheckBackend(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.HTTPTimeout)
	defer cancel()
	return a.client.Health(ctx)
}

// Run serves the web front end until ctx is cancelled, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go a.hub.Run(hubCtx)

	if err := a.CheckBackend(ctx); err != nil {
		a.logger.Warning("⚠️  Backend at %s is not healthy: %v", a.client.BaseURL(), err)
	} else {
		a.logger.Info("✅ Backend at %s is healthy", a.client.BaseURL())
	}
	a.flow.SyncHistory(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           route.SetupRoutes(a.flow, a.hub, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("♻️  EcoSort AI\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("🤖 Backend: %s\n", a.client.BaseURL())
	fmt.Printf("📷 Camera: %s\n", a.config.CameraDevice)
	fmt.Printf("📁 Logs: %s\n", a.logger.Dir())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("👋 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// Close releases the camera, waits for demo timers and closes the database.
func (a *App) Close() error {
	if a.camera.Active() {
		a.flow.StopCamera()
	}
	a.flow.Wait()
	return a.db.Close()
}
