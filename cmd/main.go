// @title                       SurakshaMesh Safety API
// @version                     1.0
// @description                 Worker-safety telemetry classification, status board and assessment history.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "suraksha_mesh/docs"
	"suraksha_mesh/internal/config"
	"suraksha_mesh/internal/handlers"
	"suraksha_mesh/internal/logger"
	"suraksha_mesh/internal/metrics"
	"suraksha_mesh/internal/narrator"
	"suraksha_mesh/internal/repository"
	"suraksha_mesh/internal/repository/db"
	"suraksha_mesh/internal/server"
	"suraksha_mesh/internal/service"

	"github.com/spf13/pflag"
)

const (
	envConfigPath   = "SURAKSHA_CONFIG"
	envFile         = ".env"
	shutdownTimeout = 10 * time.Second
	// headroom on top of the narrator timeout for the rest of the request
	writeTimeoutSlack = 10 * time.Second
)

func main() {
	configPath := pflag.String("config", os.Getenv(envConfigPath), "path to config file (default configs/config.yml)")
	pflag.Parse()

	// bootstrap logger until the configured level is known
	boot := logger.New(logger.InfoLevel, os.Stdout)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		boot.Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level)

	// open DB
	conn, err := openDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	m := metrics.New()
	nar := narrator.New(narrator.Config{
		APIKey:    cfg.Narrator.APIKey,
		BaseURL:   cfg.Narrator.BaseURL,
		Model:     cfg.Narrator.Model,
		MaxTokens: cfg.Narrator.MaxTokens,
		Timeout:   cfg.Narrator.Timeout,
	})
	if !nar.Live() {
		log.Infow("narrator_demo_mode", "reason", "no api key configured")
	}

	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Options{
		Log:      log,
		Metrics:  m,
		Narrator: nar,
		Auth: service.AuthConfig{
			SigningKey: cfg.Auth.SigningKey,
			TokenTTL:   cfg.Auth.TokenTTL,
		},
		BatchWorkers: cfg.Batch.Workers,
		SimWorkers:   simWorkers(cfg.Simulator.Workers),
		SimSeed:      cfg.Simulator.Seed,
	})
	apiHandler := handlers.NewHandler(services, log, m)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Simulator.Enabled {
		log.Infow("simulator_started", "workers", len(cfg.Simulator.Workers), "tick", cfg.Simulator.Tick.String())
		go services.Simulator.Run(ctx, cfg.Simulator.Tick)
	}

	srv := &server.Server{WriteTimeout: cfg.Narrator.Timeout + writeTimeoutSlack}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

// loadConfig reads .env, then the config file, and validates the result.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openDB initializes the SQLite database using configuration.
func openDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}

func simWorkers(in []config.SimulatedWorker) []service.SimWorker {
	out := make([]service.SimWorker, 0, len(in))
	for _, w := range in {
		out = append(out, service.SimWorker{ID: w.ID, Zone: w.Zone})
	}
	return out
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_server_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the simulator before draining requests
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
