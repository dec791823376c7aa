// Command harrier runs the scoring core's batch jobs: periodic course
// adjustment recomputes and league standings refreshes, with a Prometheus
// endpoint for observability. Entities arrive via external collaborators;
// the dual-outcome cache survives restarts through a badger journal.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/harrier/internal/adapters/repository"
	app "github.com/okian/harrier/internal/app"
	"github.com/okian/harrier/internal/config"
	"github.com/okian/harrier/internal/domain/adjust"
	"github.com/okian/harrier/pkg/logger"
	"github.com/okian/harrier/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}

	// Open the dual-outcome journal and rebuild the in-memory cache.
	opts := badger.DefaultOptions(cfg.DataDir).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		log.Error(ctx, "failed to open journal", logger.Error(err))
		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error(ctx, "failed to close journal", logger.Error(err))
		}
	}()

	journal := repository.NewBadgerJournal(db)
	store := repository.NewMemStore(repository.WithOutcomeJournal(journal))
	outcomes, err := journal.Load()
	if err != nil {
		log.Error(ctx, "failed to load journaled outcomes", logger.Error(err))
		return
	}
	for _, o := range outcomes {
		store.PutOutcome(o)
	}
	log.Info(ctx, "outcome cache rebuilt", logger.Int("outcomes", len(outcomes)))

	mgr := metrics.NewManager()
	svc := app.New(
		app.WithStore(store),
		app.WithLogger(log),
		app.WithMetrics(mgr),
		app.WithJobWorkers(cfg.JobWorkers),
		app.WithAdjuster(adjust.New(
			adjust.WithMinRunners(cfg.MinRunnersRequired),
			adjust.WithMaxRunners(cfg.MaxRunnersUsed),
			adjust.WithMinCourses(cfg.MinCoursesRequired),
			adjust.WithWinsorFraction(cfg.WinsorFraction),
			adjust.WithFirstYear(cfg.FirstAdjustYear),
		)),
	)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Error(ctx, "failed to create scheduler", logger.Error(err))
		return
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Duration(cfg.AdjustIntervalMinutes)*time.Minute),
		gocron.NewTask(func() {
			if err := svc.UpdateAllCourseAdjustments(ctx); err != nil {
				log.Error(ctx, "course adjustment batch failed", logger.Error(err))
			}
		}),
	)
	if err != nil {
		log.Error(ctx, "failed to schedule adjustment job", logger.Error(err))
		return
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Duration(cfg.StandingsIntervalMinutes)*time.Minute),
		gocron.NewTask(func() {
			leagues, err := store.Leagues(ctx)
			if err != nil {
				log.Error(ctx, "failed to list leagues", logger.Error(err))
				return
			}
			year := time.Now().Year()
			for _, league := range leagues {
				if err := svc.UpdateAllTeamRecords(ctx, league.ID, year); err != nil {
					log.Error(ctx, "standings batch failed",
						logger.String("league_id", league.ID), logger.Error(err))
				}
			}
		}),
	)
	if err != nil {
		log.Error(ctx, "failed to schedule standings job", logger.Error(err))
		return
	}

	scheduler.Start()
	log.Info(ctx, "batch scheduler started",
		logger.Int("adjust_interval_minutes", cfg.AdjustIntervalMinutes),
		logger.Int("standings_interval_minutes", cfg.StandingsIntervalMinutes),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(mgr.Registry(), promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()
	log.Info(ctx, "metrics listening", logger.String("addr", cfg.MetricsAddr))

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "metrics server shutdown failed", logger.Error(err))
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Error(shutdownCtx, "scheduler shutdown failed", logger.Error(err))
	}
}
