package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "artfolio/docs"

	"artfolio/internal/app"
	"artfolio/internal/auth"
	"artfolio/internal/delivery/http/routers"
	"artfolio/internal/usecases"
	"artfolio/pkg/config"
	consts "artfolio/pkg/constants"
	"artfolio/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// @title                       Artfolio API
// @version                     1.0
// @description                 Portfolio gallery and admin API.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
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
	defer func() {
		if err := stack.Close(); err != nil {
			log.Error("close connections", zap.Error(err))
		}
	}()

	provider := auth.NewProvider(cfg.Auth.AdminEmail, cfg.Auth.AdminPasswordHash, cfg.Auth.SessionTTL, stack.Sessions, log)
	if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPasswordHash == "" {
		log.Warn("no admin account configured, sign-in is disabled")
	}
	go watchAuthState(ctx, provider, log)

	server := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.Upload.MaxFileSize) + 1<<20,
		UnescapePath: true,
		Immutable:    true,
		AppName:      "artfolio",
	})

	// Middleware
	server.Use(recover.New())
	server.Use(fiberlogger.New())
	server.Use(cors.New())

	// Swagger UI
	server.Get("/swagger/*", swagger.HandlerDefault)

	// Routes
	routers.SetupAuthRoutes(server, provider, cfg.IsProduction(), log)
	routers.SetupAdminRoutes(server, cfg, provider, stack.Deps)
	routers.SetupGalleryRoutes(server, usecases.NewGalleryService(stack.Deps.Portfolios, stack.Deps.Works), log)
	routers.SetupMediaRoutes(server, cfg, stack.Deps.Storage)

	// Health check
	server.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": consts.StatusOK})
	})

	cleanupUC := usecases.NewCleanupService(stack.Deps)
	if !stack.Shared {
		// without redis nobody else can see this process's retry queue
		pool := stack.StartRetryPool(2, cleanupUC)
		defer pool.Shutdown()
	}

	if cfg.Cleanup.InServer {
		sweeper, err := startSweeper(cfg.Cleanup, cleanupUC, log)
		if err != nil {
			log.Fatal("invalid cleanup schedule", zap.String("schedule", cfg.Cleanup.Schedule), zap.Error(err))
		}
		defer func() { <-sweeper.Stop().Done() }()
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr), zap.String("storage", cfg.Storage.Driver), zap.String("database", cfg.Database.Driver))

	// Graceful shutdown
	go func() {
		if err := server.Listen(addr); err != nil {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.ShutdownWithContext(ctxShut); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	log.Info("server shut down cleanly")
}

// watchAuthState logs every sign-in and sign-out until ctx is done.
func watchAuthState(ctx context.Context, provider *auth.Provider, log *zap.Logger) {
	for state := range provider.Subscribe(ctx) {
		if state.SignedIn {
			log.Info("admin signed in", zap.String("email", state.Email), zap.Time("at", state.At))
			continue
		}
		log.Info("admin signed out", zap.Time("at", state.At))
	}
}

func startSweeper(cfg config.CleanupConfig, cleanupUC usecases.CleanupService, log *zap.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		removed, err := cleanupUC.SweepOrphans(ctx, cfg.MinAge)
		if err != nil {
			log.Error("orphan sweep failed", zap.Int("removed", removed), zap.Error(err))
			return
		}
		log.Info("orphan sweep finished", zap.Int("removed", removed))
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
