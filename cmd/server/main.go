package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	dreamlethe "github.com/mickey530447/dream-and-lethe"
	"github.com/mickey530447/dream-and-lethe/dataset"
	"github.com/mickey530447/dream-and-lethe/metrics"
	"github.com/mickey530447/dream-and-lethe/roster"
)

// serverConfig layers file and environment settings on top of the engine
// configuration.
type serverConfig struct {
	Engine dreamlethe.Config `json:"engine" yaml:"engine"`

	Addr         string `json:"addr" yaml:"addr" env:"DREAMLETHE_ADDR"`
	DBPath       string `json:"db_path" yaml:"db_path" env:"DREAMLETHE_DB_PATH"`
	DatasetPath  string `json:"-" yaml:"-" env:"DREAMLETHE_DATASET_PATH"`
	APIKey       string `json:"-" yaml:"-" env:"DREAMLETHE_API_KEY"`
	CORSOrigins  string `json:"cors_origins" yaml:"cors_origins" env:"DREAMLETHE_CORS_ORIGINS"`
	WatchDataset bool   `json:"watch_dataset" yaml:"watch_dataset" env:"DREAMLETHE_WATCH_DATASET"`

	ResetEnabled bool   `json:"reset_enabled" yaml:"reset_enabled" env:"DREAMLETHE_RESET_ENABLED"`
	ResetWeekday string `json:"reset_weekday" yaml:"reset_weekday" env:"DREAMLETHE_RESET_WEEKDAY"`
	ResetHour    int    `json:"reset_hour" yaml:"reset_hour" env:"DREAMLETHE_RESET_HOUR"`
}

func defaultServerConfig() serverConfig {
	return serverConfig{
		Engine:       dreamlethe.DefaultConfig(),
		Addr:         ":8080",
		DBPath:       "data/rosters.db",
		ResetEnabled: true,
		ResetWeekday: "Monday",
		ResetHour:    0,
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := defaultServerConfig()
	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			slog.Error("loading config", "error", err)
			os.Exit(1)
		}
	}

	// Override from environment variables.
	if err := env.Parse(&cfg); err != nil {
		slog.Error("parsing environment", "error", err)
		os.Exit(1)
	}
	if cfg.DatasetPath != "" {
		cfg.Engine.DatasetPath = cfg.DatasetPath
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewPrometheus(reg, "")

	engine, err := dreamlethe.New(cfg.Engine, dreamlethe.WithMetricsCollector(collector))
	if err != nil {
		slog.Error("creating engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	store, err := roster.New(cfg.DBPath)
	if err != nil {
		slog.Error("opening roster store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if cfg.WatchDataset && cfg.Engine.DatasetPath != "" {
		reloader := engine.(dreamlethe.Reloader)
		watcher, err := dataset.Watch(cfg.Engine.DatasetPath, func(ds *dataset.Dataset) {
			if err := reloader.SetDataset(ds); err != nil {
				slog.Error("applying reloaded dataset", "error", err)
			}
		})
		if err != nil {
			slog.Error("watching dataset", "error", err)
			os.Exit(1)
		}
		defer watcher.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.ResetEnabled {
		weekday, err := parseWeekday(cfg.ResetWeekday)
		if err != nil {
			slog.Error("parsing reset weekday", "error", err)
			os.Exit(1)
		}
		go resetLoop(ctx, store, weekday, cfg.ResetHour)
	}

	h := newHandler(engine, store, collector)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /assign", h.handleAssign)
	mux.HandleFunc("GET /names", h.handleNames)
	mux.HandleFunc("GET /roster/{user}", h.handleRosterList)
	mux.HandleFunc("POST /roster/{user}/names", h.handleRosterAdd)
	mux.HandleFunc("DELETE /roster/{user}/names/{name}", h.handleRosterRemove)
	mux.HandleFunc("DELETE /roster/{user}", h.handleRosterClear)
	mux.HandleFunc("GET /roster/{user}/command", h.handleRosterCommand)
	mux.HandleFunc("POST /admin/reset", h.handleAdminReset)
	mux.HandleFunc("GET /stats", h.handleStats)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Middleware chain: recovery -> cors -> auth -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(collector, mux, handler)
	handler = authMiddleware(cfg.APIKey, handler)
	handler = corsMiddleware(cfg.CORSOrigins, handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute, // assign handlers bound their own work at two minutes
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

func loadConfig(path string, cfg *serverConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// resetLoop clears every roster at the configured weekday and hour (UTC),
// then reschedules for the following week.
func resetLoop(ctx context.Context, store *roster.Store, weekday time.Weekday, hour int) {
	for {
		next := nextReset(time.Now().UTC(), weekday, hour)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		n, err := store.ResetAll(ctx)
		if err != nil {
			slog.Error("weekly reset failed", "error", err)
			continue
		}
		slog.Info("weekly reset complete", "names_cleared", n)
	}
}

// nextReset returns the first instant strictly after now that falls on the
// given weekday at the given hour.
func nextReset(now time.Time, weekday time.Weekday, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	days := (int(weekday) - int(now.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, days)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
