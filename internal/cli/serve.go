package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"learnleap/internal/api"
	"learnleap/internal/config"
	"learnleap/internal/conversation"
	"learnleap/internal/logging"
	"learnleap/internal/redis"
	"learnleap/internal/service/ai"
	"learnleap/internal/service/catalog"
	"learnleap/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat widget HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logging.New(cfg.Log))
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	kb, closeCatalog, err := openCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCatalog()

	rdb, err := redis.NewRedisClient(cfg)
	if err != nil {
		return fmt.Errorf("create redis client: %w", err)
	}
	defer rdb.Close()
	if rdb != nil {
		log.Info().Str("addr", redis.Addr(cfg.Redis)).Msg("redis session mirror enabled")
	}

	provider := ai.NewMockProvider(kb, cfg.BasicConfig.ResponseDelay(), log)
	manager := conversation.NewManager(
		conversation.OptionsFromConfig(cfg, provider, log),
		conversation.ManagerConfig{
			QueueSize: cfg.BasicConfig.QueueSize,
			IdleTTL:   cfg.BasicConfig.SessionIdleTTL(),
		},
		rdb,
	)
	if err := manager.Start(ctx, cfg.BasicConfig.ReapInterval()); err != nil {
		return fmt.Errorf("start conversation manager: %w", err)
	}
	defer manager.Shutdown()

	limiter := ai.NewRateLimiter(cfg.BasicConfig.SendRateLimit, time.Minute)
	handler := api.NewHandler(manager, cfg.Upload, limiter, log)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}
	// no write timeout: message replies are streamed
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// openCatalog returns the knowledge base named by catalog.driver and a
// function releasing it.
func openCatalog(ctx context.Context, cfg *config.Config, log zerolog.Logger) (catalog.Reader, func() error, error) {
	driver := strings.ToLower(cfg.Catalog.Driver)
	switch driver {
	case "", "static":
		return catalog.NewStatic(catalog.DefaultData()), func() error { return nil }, nil
	case "sqlite":
		driver = "sqlite3"
	}

	db, err := storage.Open(driver, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog database: %w", err)
	}
	if err := storage.Migrate(db, driver); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate catalog database: %w", err)
	}
	svc := catalog.NewService(db)
	if cfg.Catalog.Seed {
		seeded, err := svc.Seed(ctx, catalog.DefaultData())
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("seed catalog: %w", err)
		}
		log.Info().Str("driver", driver).Bool("seeded", seeded).Msg("catalog ready")
	}
	return svc, db.Close, nil
}
