package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/sardorbek-uz/raspisanie-bot/internal/app"
	"github.com/sardorbek-uz/raspisanie-bot/internal/clock"
	"github.com/sardorbek-uz/raspisanie-bot/internal/config"
	"github.com/sardorbek-uz/raspisanie-bot/internal/controller"
	"github.com/sardorbek-uz/raspisanie-bot/internal/service"
	"github.com/sardorbek-uz/raspisanie-bot/internal/storage"
	"github.com/sardorbek-uz/raspisanie-bot/internal/storage/file"
	"github.com/sardorbek-uz/raspisanie-bot/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting raspisanie bot",
		"environment", cfg.Environment,
		"storage_driver", cfg.StorageDriver,
		"token_length", len(cfg.TelegramToken))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer cleanup()

	clk := clock.Tashkent{}
	backupDir := filepath.Join(cfg.DataDir, "backups")

	settingsService, err := service.NewSettingsService(ctx, store, cfg.AdminID, logger)
	if err != nil {
		logger.Fatal("failed to load settings", zap.Error(err))
	}
	scheduleService, err := service.NewScheduleService(ctx, store, backupDir, logger)
	if err != nil {
		logger.Fatal("failed to load schedules", zap.Error(err))
	}
	recipientService, err := service.NewRecipientService(ctx, store, logger)
	if err != nil {
		logger.Fatal("failed to load recipients", zap.Error(err))
	}

	// The controller is constructed after the bot, but the default
	// handler has to be passed as a bot option, so it closes over the
	// yet-unassigned variable.
	var ctrl *controller.BotController
	defaultHandler := func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if ctrl != nil {
			ctrl.HandleDefault(ctx, b, update)
		}
	}

	b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(defaultHandler))
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}

	broadcastService := service.NewBroadcastService(b, logger)

	ctrl = controller.NewBotController(b, scheduleService, settingsService, recipientService, broadcastService, clk, logger)
	if err := ctrl.RegisterHandlers(ctx); err != nil {
		logger.Fatal("failed to register handlers", zap.Error(err))
	}

	notifier := app.NewNotifier(clk, settingsService, scheduleService, recipientService, broadcastService, logger)
	notifier.Start(ctx)
	defer notifier.Stop()

	if err := ctrl.Start(ctx); err != nil {
		logger.Fatal("bot stopped with error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

// openStore selects the persistence backend. The file driver is the
// default; postgres runs pending migrations before use.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	switch cfg.StorageDriver {
	case "file":
		store, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}

		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := migrator.Run(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		version, err := migrator.Version(ctx)
		if err == nil {
			logger.Info("database migrated", zap.Int64("version", version))
		}
		if err := migrator.Close(); err != nil {
			logger.Warn("failed to close migrator", zap.Error(err))
		}

		store := postgres.NewWithPool(pool)
		return store, store.Close, nil

	default:
		return nil, nil, storage.ErrUnknownDriver
	}
}
