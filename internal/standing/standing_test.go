package standing

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/mohammedAljadd/FootyOn/internal/models"
	"github.com/mohammedAljadd/FootyOn/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestEngine(t *testing.T) (*Engine, *storage.Storage) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "standing.db")), &gorm.Config{})
	require.NoError(t, err)

	store := storage.New(db)
	require.NoError(t, store.Migrate(context.Background()))
	return New(store), store
}

func newTestUser(t *testing.T, store *storage.Storage) *models.User {
	t.Helper()

	user := &models.User{
		ID:       uuid.New().String(),
		Username: "alex123",
		IsActive: true,
		Points:   models.MaxPoints,
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func TestApplyNoShowOutcome_DeductionTable(t *testing.T) {
	tests := []struct {
		name       string
		reason     models.NoShowReason
		wantPoints int
	}{
		{"excused costs nothing", models.NoShowExcused, 15},
		{"last minute costs 2", models.NoShowLastMinute, 13},
		{"not excused costs 4", models.NoShowNotExcused, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, store := newTestEngine(t)
			user := newTestUser(t, store)

			require.NoError(t, engine.ApplyNoShowOutcome(context.Background(), user, tt.reason, false))
			assert.Equal(t, tt.wantPoints, user.Points)
			assert.False(t, user.IsSuspended)
		})
	}
}

func TestApplyNoShowOutcome_InvalidReason(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newTestUser(t, store)

	err := engine.ApplyNoShowOutcome(context.Background(), user, models.NoShowReason("sick"), false)
	require.ErrorIs(t, err, ErrInvalidReason)
	assert.Equal(t, models.MaxPoints, user.Points)
}

func TestApplyNoShowOutcome_ThreeNotExcusedKeepsUserActive(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newTestUser(t, store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, engine.ApplyNoShowOutcome(ctx, user, models.NoShowNotExcused, false))
	}

	// 15 - 4 - 4 - 4 = 3
	assert.Equal(t, 3, user.Points)
	assert.False(t, user.IsSuspended)
	assert.Equal(t, 0, user.SuspensionCount)
}

func TestApplyNoShowOutcome_FourthNotExcusedSuspends(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newTestUser(t, store)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, engine.ApplyNoShowOutcome(ctx, user, models.NoShowNotExcused, false))
	}

	assert.Equal(t, 0, user.Points)
	assert.True(t, user.IsSuspended)
	assert.Equal(t, 1, user.SuspensionCount)
	require.NotNil(t, user.SuspensionUntil)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, models.SuspensionDays), *user.SuspensionUntil, time.Minute)

	eligibility, err := engine.Eligibility(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.EligibilitySuspended, eligibility)
}

func TestApplyNoShowOutcome_ForwardRequiresEligibility(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newTestUser(t, store)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, engine.ApplyNoShowOutcome(ctx, user, models.NoShowNotExcused, false))
	}
	require.True(t, user.IsSuspended)

	err := engine.ApplyNoShowOutcome(ctx, user, models.NoShowNotExcused, false)
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestApplyNoShowOutcome_ReverseRestoresPoints(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newTestUser(t, store)
	ctx := context.Background()

	require.NoError(t, engine.ApplyNoShowOutcome(ctx, user, models.NoShowLastMinute, false))
	require.Equal(t, 13, user.Points)

	require.NoError(t, engine.ApplyNoShowOutcome(ctx, user, models.NoShowLastMinute, true))
	assert.Equal(t, models.MaxPoints, user.Points)
}

func TestApplyNoShowOutcome_ReverseLiftsSuspension(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newTestUser(t, store)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, engine.ApplyNoShowOutcome(ctx, user, models.NoShowNotExcused, false))
	}
	require.True(t, user.IsSuspended)

	// Reversal must work on the suspended user, otherwise the suspension
	// could never be undone.
	require.NoError(t, engine.ApplyNoShowOutcome(ctx, user, models.NoShowNotExcused, true))
	assert.Equal(t, 4, user.Points)
	assert.False(t, user.IsSuspended)
	assert.Nil(t, user.SuspensionUntil)
}

func TestApplyNoShowOutcome_ReverseClampsAtMax(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newTestUser(t, store)
	ctx := context.Background()

	require.NoError(t, engine.ApplyNoShowOutcome(ctx, user, models.NoShowLastMinute, true))
	assert.Equal(t, models.MaxPoints, user.Points)
}

func TestApplyNoShowOutcome_ExcusedNeverSuspends(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newTestUser(t, store)
	user.Points = 1
	require.NoError(t, store.SaveUser(context.Background(), user))

	require.NoError(t, engine.ApplyNoShowOutcome(context.Background(), user, models.NoShowExcused, false))
	assert.Equal(t, 1, user.Points)
	assert.False(t, user.IsSuspended)
}

func TestFifthSuspensionDisablesPermanently(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newTestUser(t, store)
	ctx := context.Background()

	for round := 1; round <= models.MaxSuspensions; round++ {
		for user.Points > 0 {
			require.NoError(t, engine.ApplyNoShowOutcome(ctx, user, models.NoShowNotExcused, false))
		}

		if round < models.MaxSuspensions {
			require.True(t, user.IsSuspended)
			past := time.Now().Add(-time.Hour)
			user.SuspensionUntil = &past
			require.NoError(t, store.SaveUser(ctx, user))

			reset, err := engine.CheckSuspensionExpired(ctx, user)
			require.NoError(t, err)
			require.True(t, reset)
			require.Equal(t, models.MaxPoints, user.Points)
		}
	}

	assert.Equal(t, models.MaxSuspensions, user.SuspensionCount)
	assert.True(t, user.IsDisabled)
	assert.False(t, user.IsSuspended)
	assert.Nil(t, user.SuspensionUntil)

	eligibility, err := engine.Eligibility(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.EligibilityDisabled, eligibility)
}

func TestCheckSuspensionExpired_Idempotent(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newTestUser(t, store)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	user.IsSuspended = true
	user.SuspensionUntil = &past
	user.Points = 0
	require.NoError(t, store.SaveUser(ctx, user))

	reset, err := engine.CheckSuspensionExpired(ctx, user)
	require.NoError(t, err)
	assert.True(t, reset)
	assert.False(t, user.IsSuspended)
	assert.Nil(t, user.SuspensionUntil)
	assert.Equal(t, models.MaxPoints, user.Points)

	reset, err = engine.CheckSuspensionExpired(ctx, user)
	require.NoError(t, err)
	assert.False(t, reset)
	assert.Equal(t, models.MaxPoints, user.Points)
}

func TestCheckSuspensionExpired_StillRunning(t *testing.T) {
	engine, store := newTestEngine(t)
	user := newTestUser(t, store)

	future := time.Now().Add(time.Hour)
	user.IsSuspended = true
	user.SuspensionUntil = &future
	user.Points = 0
	require.NoError(t, store.SaveUser(context.Background(), user))

	reset, err := engine.CheckSuspensionExpired(context.Background(), user)
	require.NoError(t, err)
	assert.False(t, reset)
	assert.True(t, user.IsSuspended)
	assert.Equal(t, 0, user.Points)
}

func TestEligibility_CheckOrder(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		mutate func(*models.User)
		want   models.Eligibility
	}{
		{"eligible", func(*models.User) {}, models.EligibilityOK},
		{"inactive", func(u *models.User) { u.IsActive = false }, models.EligibilityInactiveOrRecruiter},
		{"recruiter", func(u *models.User) { u.IsRecruiter = true }, models.EligibilityInactiveOrRecruiter},
		{"disabled", func(u *models.User) { u.IsDisabled = true }, models.EligibilityDisabled},
		{"suspended", func(u *models.User) {
			u.IsSuspended = true
			u.SuspensionUntil = &future
		}, models.EligibilitySuspended},
		// Inactive wins over disabled, disabled wins over suspended.
		{"inactive and disabled", func(u *models.User) {
			u.IsActive = false
			u.IsDisabled = true
		}, models.EligibilityInactiveOrRecruiter},
		{"disabled and suspended", func(u *models.User) {
			u.IsDisabled = true
			u.IsSuspended = true
			u.SuspensionUntil = &future
		}, models.EligibilityDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, store := newTestEngine(t)
			user := newTestUser(t, store)
			tt.mutate(user)
			require.NoError(t, store.SaveUser(context.Background(), user))

			eligibility, err := engine.Eligibility(context.Background(), user)
			require.NoError(t, err)
			assert.Equal(t, tt.want, eligibility)
			assert.Equal(t, tt.want == models.EligibilityOK, eligibility.Allowed())
		})
	}
}

func TestSetDisabled(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	admin := &models.User{ID: uuid.New().String(), Username: "boss001", IsActive: true, IsAdmin: true, Points: models.MaxPoints}
	require.NoError(t, store.CreateUser(ctx, admin))
	target := newTestUser(t, store)

	t.Run("admin disables another user", func(t *testing.T) {
		require.NoError(t, engine.SetDisabled(ctx, admin, target, true))
		assert.True(t, target.IsDisabled)

		require.NoError(t, engine.SetDisabled(ctx, admin, target, false))
		assert.False(t, target.IsDisabled)
	})

	t.Run("self-targeting is rejected", func(t *testing.T) {
		err := engine.SetDisabled(ctx, admin, admin, true)
		assert.ErrorIs(t, err, ErrSelfTarget)
		assert.False(t, admin.IsDisabled)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		err := engine.SetDisabled(ctx, target, admin, true)
		assert.ErrorIs(t, err, ErrAdminOnly)
	})
}
