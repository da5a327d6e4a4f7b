package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mohammedAljadd/FootyOn/internal/api"
	"github.com/mohammedAljadd/FootyOn/internal/config"
	"github.com/mohammedAljadd/FootyOn/internal/logging"
	"github.com/mohammedAljadd/FootyOn/internal/maps"
	"github.com/mohammedAljadd/FootyOn/internal/notify"
	"github.com/mohammedAljadd/FootyOn/internal/roster"
	"github.com/mohammedAljadd/FootyOn/internal/standing"
	"github.com/mohammedAljadd/FootyOn/internal/storage"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	config.SetupCommon()
	logging.Init()

	cfg := config.New()
	logrus.Debugf("config: %+v", cfg)

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	store := storage.New(db)

	migrateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Migrate(migrateCtx); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logrus.Fatalf("Failed to create telegram notifier: %v", err)
		}
		notifier = tg
	}

	standingEngine := standing.New(store)
	rosterEngine := roster.New(store, standingEngine, notifier)
	service := api.NewService(cfg, store, standingEngine, rosterEngine, maps.NewResolver())

	e := echo.New()
	service.Register(e)

	if err := e.Start(cfg.ListenAddress); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
