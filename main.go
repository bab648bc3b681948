// Command petit-chef starts the restaurant-simulation game server.
//
// It exposes the REST API (accounts, catalog, stock, laboratory, reporting)
// and the authenticated WebSocket gateway that drives real-time service
// sessions. A background sweeper removes expired stock lots.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/petitchef/petit-chef/api"
	"github.com/petitchef/petit-chef/auth"
	"github.com/petitchef/petit-chef/game/config"
	"github.com/petitchef/petit-chef/game/inventory"
	"github.com/petitchef/petit-chef/game/ledger"
	"github.com/petitchef/petit-chef/game/order"
	"github.com/petitchef/petit-chef/game/service"
	"github.com/petitchef/petit-chef/game/session"
	"github.com/petitchef/petit-chef/storage"
	"github.com/petitchef/petit-chef/telemetry"
	"github.com/petitchef/petit-chef/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Petit Chef Server"
)

var (
	port    = flag.Int("port", 0, "HTTP server port (overrides PETITCHEF_PORT)")
	host    = flag.String("host", "", "HTTP server host (overrides PETITCHEF_HOST)")
	dbPath  = flag.String("db", "", "SQLite database path (overrides PETITCHEF_DB)")
	debug   = flag.Bool("debug", false, "Enable debug logging")
	version = flag.Bool("version", false, "Show version information")
)

func main() {
	// Load .env file if it exists (ignore error if not found).
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	cfg := config.Load()
	if *port != 0 {
		cfg.Port = *port
	}
	if *host != "" {
		cfg.Host = *host
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}

	if *debug {
		telemetry.Init(telemetry.ParseLogLevel("debug"))
	} else {
		telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	}

	telemetry.Infof("starting %s v%s", AppName, Version)

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		telemetry.Errorf("open store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	players := ledger.New(store, cfg)
	stock := inventory.New(store, store, players, cfg)
	generator := order.NewGenerator(store, cfg)
	registry := session.NewRegistry(generator, cfg, players)
	engine := service.NewGameService(registry, players, stock, store, store, cfg)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	hub := websocket.NewHub(engine, tokens)
	server := api.NewServer(store, players, stock, registry, tokens, hub, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stock.RunSweeper(ctx, cfg.SweepInterval)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		telemetry.Infof("listening on http://%s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		telemetry.Errorf("server error: %v", err)
		os.Exit(1)
	case sig := <-sigCh:
		telemetry.Infof("received %v, shutting down", sig)
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		telemetry.Warnf("shutdown: %v", err)
	}
	telemetry.Infof("goodbye")
}
