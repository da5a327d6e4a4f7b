// Command backfill-share-tokens assigns a share token to every match that
// predates the share feature. Idempotent: matches that already have a token
// are untouched, so it is safe to run more than once.
package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/mohammedAljadd/FootyOn/internal/config"
	"github.com/mohammedAljadd/FootyOn/internal/logging"
	"github.com/mohammedAljadd/FootyOn/internal/storage"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	config.SetupCommon()
	logging.Init()
	cfg := config.New()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	store := storage.New(db)
	ctx := context.Background()

	matches, err := store.ListMatchesWithoutShareToken(ctx)
	if err != nil {
		logrus.Fatalf("Failed to list matches: %v", err)
	}

	for _, match := range matches {
		match.ShareToken = uuid.New().String()
		if err := store.SaveMatch(ctx, match); err != nil {
			logrus.Fatalf("Failed to save match %s: %v", match.ID, err)
		}
	}

	logrus.Infof("backfilled share tokens for %d matches", len(matches))
}
