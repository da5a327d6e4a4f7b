// Command seed fills the database with demo data: stadiums, a league of
// users, two months of past matches with realistic rosters and attendance
// outcomes, and a handful of upcoming fixtures. No-show outcomes go through
// the standing engine so points and suspensions reflect the history.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mohammedAljadd/FootyOn/internal/config"
	"github.com/mohammedAljadd/FootyOn/internal/logging"
	"github.com/mohammedAljadd/FootyOn/internal/models"
	"github.com/mohammedAljadd/FootyOn/internal/standing"
	"github.com/mohammedAljadd/FootyOn/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var stadiums = []struct {
	name  string
	embed string
}{
	{"Stade de l'Ouest", "https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!1d5771!2d7.2023!3d43.6715!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!3m3!1m2!1s0x12cdd10c3345b9bd:0x8a5dc01882b070a3!5e0!3m2!1sen!2sfr"},
	{"Stade Méarelli", "https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!1d5771!2d7.2101!3d43.6712!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!3m3!1m2!1s0x12cdd1050d36302b:0x9fcb72d4a4778b66!5e0!3m2!1sen!2sfr"},
	{"Sports Field", "https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!1d10493!2d7.2005!3d43.6728!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!3m3!1m2!1s0x12cdd17585555555:0xadcff84be77756f5!5e0!3m2!1sen!2sfr"},
}

var firstNames = []string{
	"alex", "sam", "leo", "max", "noah", "liam", "adam", "karim", "yanis",
	"mehdi", "hugo", "nabil", "paul", "marc", "bilal", "idris", "omar",
	"rayan", "theo", "nino",
}

var kickoffHours = []int{18, 19, 20, 21}
var capacities = []int{10, 12, 14, 16}

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
	if err := store.Migrate(ctx); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	if err := seed(ctx, store); err != nil {
		logrus.Fatalf("Seeding failed: %v", err)
	}
}

func seed(ctx context.Context, store *storage.Storage) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	standingEngine := standing.New(store)

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), 10)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}

	var stadiumIDs []string
	for _, s := range stadiums {
		stadium := &models.Stadium{
			ID:           uuid.New().String(),
			Name:         s.name,
			MapsEmbedURL: s.embed,
		}
		if err := store.CreateStadium(ctx, stadium); err != nil {
			return err
		}
		stadiumIDs = append(stadiumIDs, stadium.ID)
	}

	var users []*models.User
	for i, name := range firstNames {
		user := &models.User{
			ID:           uuid.New().String(),
			Username:     fmt.Sprintf("%s%03d", name, 100+i),
			PasswordHash: string(hash),
			IsActive:     true,
			IsAdmin:      i == 0,
			Points:       models.MaxPoints,
		}
		if err := store.CreateUser(ctx, user); err != nil {
			return err
		}
		users = append(users, user)
	}

	now := time.Now()
	matchDays := append(sampleDays(rng, now, -60, -1, 25), sampleDays(rng, now, 1, 30, 5)...)

	for _, day := range matchDays {
		kickoff := time.Date(day.Year(), day.Month(), day.Day(), kickoffHours[rng.Intn(len(kickoffHours))], 0, 0, 0, now.Location())
		match := &models.Match{
			ID:         uuid.New().String(),
			Date:       day,
			Time:       &kickoff,
			StadiumID:  stadiumIDs[rng.Intn(len(stadiumIDs))],
			MaxPlayers: capacities[rng.Intn(len(capacities))],
			ShareToken: uuid.New().String(),
		}
		if err := store.CreateMatch(ctx, match); err != nil {
			return err
		}

		if err := fillRoster(ctx, store, standingEngine, rng, match, users, kickoff.Before(now)); err != nil {
			return err
		}
	}

	logrus.Infof("seeded %d stadiums, %d users, %d matches", len(stadiums), len(users), len(matchDays))
	return nil
}

// sampleDays picks n distinct days in the [from, to] offset range around now.
func sampleDays(rng *rand.Rand, now time.Time, from, to, n int) []time.Time {
	offsets := rng.Perm(to - from + 1)[:n]
	days := make([]time.Time, 0, n)
	for _, off := range offsets {
		d := now.AddDate(0, 0, from+off)
		days = append(days, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location()))
	}
	return days
}

func fillRoster(
	ctx context.Context,
	store *storage.Storage,
	standingEngine *standing.Engine,
	rng *rand.Rand,
	match *models.Match,
	users []*models.User,
	isPast bool,
) error {
	players := match.MaxPlayers
	if rng.Intn(10) == 0 {
		players-- // the occasional short-handed match
	}
	if players > len(users) {
		players = len(users)
	}

	order := rng.Perm(len(users))
	joined := order[:players]
	extra := order[players:]

	for _, idx := range joined {
		p := &models.Participation{
			ID:         uuid.New().String(),
			UserID:     users[idx].ID,
			MatchID:    match.ID,
			Status:     models.StatusJoined,
			StatusTime: match.Kickoff().AddDate(0, 0, -1-rng.Intn(5)),
		}

		if isPast {
			// 70-90% show up; the rest are no-shows.
			if rng.Float64() < 0.70+0.20*rng.Float64() {
				p.IsPresent = true
			} else {
				reasons := []models.NoShowReason{models.NoShowExcused, models.NoShowNotExcused, models.NoShowLastMinute}
				reason := reasons[rng.Intn(len(reasons))]
				noShowTime := match.Kickoff().Add(2 * time.Hour)
				p.IsNoShow = true
				p.NoShowReason = &reason
				p.NoShowTime = &noShowTime

				if err := standingEngine.ApplyNoShowOutcome(ctx, users[idx], reason, false); err != nil {
					// A disabled or suspended user can no longer be charged;
					// keep the record, skip the deduction.
					logrus.Debugf("skipping standing outcome for %s: %v", users[idx].Username, err)
				}
			}
		}

		if err := store.SaveParticipation(ctx, p); err != nil {
			return err
		}
	}

	// A few who joined and backed out.
	for _, idx := range extra[:min(rng.Intn(4), len(extra))] {
		p := &models.Participation{
			ID:         uuid.New().String(),
			UserID:     users[idx].ID,
			MatchID:    match.ID,
			Status:     models.StatusLeft,
			StatusTime: match.Kickoff().AddDate(0, 0, -rng.Intn(3)),
		}
		if err := store.SaveParticipation(ctx, p); err != nil {
			return err
		}
	}

	return nil
}
