package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/mohammedAljadd/FootyOn/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "storage.db")), &gorm.Config{})
	require.NoError(t, err)

	store := New(db)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func createUser(t *testing.T, store *Storage, username string) *models.User {
	t.Helper()

	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		IsActive: true,
		Points:   models.MaxPoints,
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func createMatch(t *testing.T, store *Storage, date time.Time) *models.Match {
	t.Helper()

	match := &models.Match{
		ID:         uuid.New().String(),
		Date:       date,
		MaxPlayers: 10,
		ShareToken: uuid.New().String(),
	}
	require.NoError(t, store.CreateMatch(context.Background(), match))
	return match
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func TestNotFoundMapping(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetMatch(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetParticipation(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetStadium(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrCreateParticipation_SingleRecordPerUserMatch(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	user := createUser(t, store, "alex123")
	match := createMatch(t, store, midnight(time.Now()).AddDate(0, 0, 3))

	first, err := store.GetOrCreateParticipation(ctx, user.ID, match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusJoined, first.Status)

	// A second call must return the existing record, not insert a duplicate.
	second, err := store.GetOrCreateParticipation(ctx, user.ID, match.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	roster, err := store.ListMatchParticipations(ctx, match.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestGetOrCreateParticipation_PreservesExistingState(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	user := createUser(t, store, "alex123")
	match := createMatch(t, store, midnight(time.Now()).AddDate(0, 0, 3))

	p, err := store.GetOrCreateParticipation(ctx, user.ID, match.ID)
	require.NoError(t, err)
	p.Status = models.StatusLeft
	require.NoError(t, store.SaveParticipation(ctx, p))

	again, err := store.GetOrCreateParticipation(ctx, user.ID, match.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, models.StatusLeft, again.Status)
}

func TestCountActiveParticipants(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	match := createMatch(t, store, midnight(time.Now()).AddDate(0, 0, 3))

	joined := createUser(t, store, "alex123")
	left := createUser(t, store, "marc456")
	removed := createUser(t, store, "theo789")
	noShow := createUser(t, store, "omar321")

	p, err := store.GetOrCreateParticipation(ctx, joined.ID, match.ID)
	require.NoError(t, err)
	require.NoError(t, store.SaveParticipation(ctx, p))

	p, err = store.GetOrCreateParticipation(ctx, left.ID, match.ID)
	require.NoError(t, err)
	p.Status = models.StatusLeft
	require.NoError(t, store.SaveParticipation(ctx, p))

	p, err = store.GetOrCreateParticipation(ctx, removed.ID, match.ID)
	require.NoError(t, err)
	p.Removed = true
	require.NoError(t, store.SaveParticipation(ctx, p))

	p, err = store.GetOrCreateParticipation(ctx, noShow.ID, match.ID)
	require.NoError(t, err)
	reason := models.NoShowExcused
	p.IsNoShow = true
	p.NoShowReason = &reason
	require.NoError(t, store.SaveParticipation(ctx, p))

	count, err := store.CountActiveParticipants(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListUpcomingMatches(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	today := midnight(time.Now())

	past := createMatch(t, store, today.AddDate(0, 0, -7))
	nextWeek := createMatch(t, store, today.AddDate(0, 0, 7))
	tomorrow := createMatch(t, store, today.AddDate(0, 0, 1))

	upcoming, err := store.ListUpcomingMatches(ctx, today)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, tomorrow.ID, upcoming[0].ID)
	assert.Equal(t, nextWeek.ID, upcoming[1].ID)

	all, err := store.ListAllMatches(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, past.ID, all[2].ID, "full listing is latest first")
}

func TestDeleteMatchCascadesRoster(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	user := createUser(t, store, "alex123")
	match := createMatch(t, store, midnight(time.Now()).AddDate(0, 0, 3))

	p, err := store.GetOrCreateParticipation(ctx, user.ID, match.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeleteMatch(ctx, match.ID))

	_, err = store.GetMatch(ctx, match.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetParticipation(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMatchesWithoutShareToken(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	today := midnight(time.Now())

	withToken := createMatch(t, store, today.AddDate(0, 0, 1))

	legacy := &models.Match{
		ID:         uuid.New().String(),
		Date:       today.AddDate(0, 0, 2),
		MaxPlayers: 10,
	}
	require.NoError(t, store.CreateMatch(ctx, legacy))

	missing, err := store.ListMatchesWithoutShareToken(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, legacy.ID, missing[0].ID)
	assert.NotEqual(t, withToken.ID, missing[0].ID)
}

func TestMatchDayOfWeekDerivedOnSave(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	match := createMatch(t, store, time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local))

	stored, err := store.GetMatch(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, "Saturday", stored.DayOfWeek)
}
