package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artfolio/internal/app"
	"artfolio/internal/usecases"
	"artfolio/pkg/config"
	"artfolio/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// The worker runs the orphan sweeper on its cron schedule, or once with -once,
// and consumes the shared retry queue when redis is configured.
func main() {
	once := flag.Bool("once", false, "Run a single sweep and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stack, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	defer stack.Close()

	cleanupUC := usecases.NewCleanupService(stack.Deps)
	sweep := func() {
		sweepCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()
		start := time.Now()
		removed, err := cleanupUC.SweepOrphans(sweepCtx, cfg.Cleanup.MinAge)
		if err != nil {
			log.Error("orphan sweep failed", zap.Int("removed", removed), zap.Error(err))
			return
		}
		log.Info("orphan sweep finished", zap.Int("removed", removed), zap.Duration("took", time.Since(start)))
	}

	if *once {
		sweep()
		return
	}

	if stack.Shared {
		pool := stack.StartRetryPool(4, cleanupUC)
		defer pool.Shutdown()
		log.Info("consuming retry queue")
	}

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(cfg.Cleanup.Schedule, sweep); err != nil {
		log.Fatal("invalid cleanup schedule", zap.String("schedule", cfg.Cleanup.Schedule), zap.Error(err))
	}
	c.Start()
	log.Info("sweeper scheduled", zap.String("schedule", cfg.Cleanup.Schedule), zap.Duration("min_age", cfg.Cleanup.MinAge))

	<-ctx.Done()
	log.Info("shutdown signal received, waiting for running sweep")
	<-c.Stop().Done()
}
