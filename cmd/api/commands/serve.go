package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskflow/core/internal/adapters/cache"
	"github.com/taskflow/core/internal/adapters/repository"
	"github.com/taskflow/core/internal/infrastructure/config"
	"github.com/taskflow/core/internal/infrastructure/database"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/infrastructure/server"
	"github.com/taskflow/core/internal/ports"
)

const shutdownTimeout = 15 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the TaskFlow API server",
		Long:  "Start the TaskFlow API server with all configured routes and middleware",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd)
		},
	}
}

func runServer(cmd *cobra.Command) error {
	cfg, appLogger, db, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer appLogger.Close()
	defer db.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("auto migration failed: %w", err)
		}
		appLogger.Infow("Database migrated", "driver", cfg.Database.Driver)
	}

	authRepo, closeAuth, err := refreshTokenStore(ctx, cfg, db, appLogger)
	if err != nil {
		return err
	}
	defer closeAuth()

	srv, err := server.New(cfg, db, authRepo, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	appLogger.Infow("Starting TaskFlow API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"driver", cfg.Database.Driver,
		"redis", cfg.Redis.Enabled,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	appLogger.Info("Server stopped")
	return nil
}

// refreshTokenStore picks Redis when enabled, the refresh_tokens table otherwise
func refreshTokenStore(ctx context.Context, cfg *config.Config, db *database.DB, log *logger.Logger) (ports.AuthRepository, func(), error) {
	if !cfg.Redis.Enabled {
		log.Infow("Refresh tokens stored in the database")
		return repository.NewAuthRepository(db), func() {}, nil
	}

	client, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Infow("Refresh tokens stored in redis", "addr", cfg.Redis.GetAddr())
	return cache.NewRefreshTokenStore(client), func() {
		if err := client.Close(); err != nil {
			log.Warnw("Failed to close redis client", "error", err)
		}
	}, nil
}
