package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"

	"github.com/Spok95/factory-bot/internal/bot"
	"github.com/Spok95/factory-bot/internal/config"
	"github.com/Spok95/factory-bot/internal/dialog"
	"github.com/Spok95/factory-bot/internal/domain/audit"
	"github.com/Spok95/factory-bot/internal/domain/dishes"
	"github.com/Spok95/factory-bot/internal/domain/transfers"
	"github.com/Spok95/factory-bot/internal/domain/users"
	"github.com/Spok95/factory-bot/internal/infra/db"
	httpx "github.com/Spok95/factory-bot/internal/infra/http"
	"github.com/Spok95/factory-bot/internal/infra/logger"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return
	}
	log.Info("telegram authorized", "username", api.Self.UserName)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	b := bot.New(api, log,
		users.NewRepo(pool), dishes.NewRepo(pool),
		transfers.NewRepo(pool), audit.NewRepo(pool),
		dialog.NewStore(), cfg.Telegram.SuperAdminID, cfg.Retention.Days)

	if err := b.Run(ctx, 30); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
