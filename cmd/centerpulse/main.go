package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centerpulse/centerpulse/internal/alerts"
	"github.com/centerpulse/centerpulse/internal/analysis"
	"github.com/centerpulse/centerpulse/internal/api"
	"github.com/centerpulse/centerpulse/internal/bizday"
	"github.com/centerpulse/centerpulse/internal/config"
	"github.com/centerpulse/centerpulse/internal/domain"
	"github.com/centerpulse/centerpulse/internal/fetch"
	"github.com/centerpulse/centerpulse/internal/ingest"
	"github.com/centerpulse/centerpulse/internal/sample"
	"github.com/centerpulse/centerpulse/internal/store"
	"github.com/centerpulse/centerpulse/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	sampleMode := flag.Bool("sample", false, "skip the remote sheet and serve generated sample data")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("centerpulse starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"poll_interval", cfg.Source.PollInterval,
		"sources", len(cfg.Source.CandidateURLs()),
		"alert_rules", len(cfg.Alerts.Rules),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st := store.New()
	alertEngine := alerts.New(cfg.Alerts)
	fetcher := fetch.New(cfg.Source.CandidateURLs())

	// WebSocket hub — pushes the dashboard view to UI clients.
	hub := ws.New(st, cfg.Dashboard, cfg.Server.BroadcastInterval)
	go hub.Run(ctx)

	// refresh runs one ingest cycle: fetch the sheet CSV, parse it into
	// hourly snapshots, fall back to generated sample data when the
	// sheet is unreachable or yields nothing usable, then re-evaluate
	// alerts and wake the hub.
	refresh := func(ctx context.Context) error {
		snaps, source := loadSnapshots(ctx, fetcher, *sampleMode)
		if len(snaps) == 0 {
			return fmt.Errorf("no usable snapshots from %s", source)
		}
		st.Replace(snaps, source)

		view := analysis.Aggregate(st.All(), analysis.Params{
			Date:   bizday.SentinelAll,
			Hour:   bizday.SentinelAll,
			Center: bizday.SentinelAll,
			Target: float64(cfg.Dashboard.Target),
		})
		alertEngine.Evaluate(view.Metrics)
		hub.Broadcast()

		slog.Info("ingest cycle complete",
			"source", source,
			"snapshots", len(snaps),
			"centers", len(view.Metrics),
		)
		return nil
	}

	if err := refresh(ctx); err != nil {
		slog.Warn("initial ingest failed — serving empty store until next poll", "err", err)
	}

	// Poll loop: re-ingest every PollInterval.
	go func() {
		ticker := time.NewTicker(cfg.Source.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := refresh(ctx); err != nil {
					slog.Warn("scheduled ingest failed", "err", err)
				}
			}
		}
	}()

	// Watch config file for hot-reload (logs only in this phase).
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			slog.Info("config hot-reloaded",
				"alert_rules", len(updated.Alerts.Rules),
				"target", updated.Dashboard.Target,
			)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// Combined HTTP server: REST API + /metrics + WebSocket hub.
	httpMux := http.NewServeMux()
	httpMux.Handle("/", api.New(st, alertEngine, cfg.Dashboard, refresh))
	httpMux.Handle("/ws/dashboard", hub)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("centerpulse shutting down", "ws_clients", hub.Count())
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}

// loadSnapshots fetches and parses the sheet CSV, returning the parsed
// snapshots and a source tag. Falls back to deterministic sample data
// when forced via -sample, when every candidate URL fails, or when the
// fetched body parses to nothing.
func loadSnapshots(ctx context.Context, fetcher *fetch.Fetcher, sampleOnly bool) ([]domain.TimeSnapshot, string) {
	if sampleOnly {
		return sample.Generate(time.Now()), "sample"
	}

	body, err := fetcher.Fetch(ctx)
	if err != nil {
		slog.Warn("sheet fetch failed — falling back to sample data", "err", err)
		return sample.Generate(time.Now()), "sample"
	}

	snaps := ingest.Parse(body)
	if len(snaps) == 0 {
		slog.Warn("sheet CSV parsed to zero snapshots — falling back to sample data")
		return sample.Generate(time.Now()), "sample"
	}
	return snaps, "sheet"
}
