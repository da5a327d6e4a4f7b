package scoring

import (
	"testing"
	"time"

	"github.com/mohammedAljadd/FootyOn/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// settledMatch returns a match whose attendance window closed daysAgo days
// before now.
func settledMatch(now time.Time, daysAgo int) models.Match {
	kickoff := now.AddDate(0, 0, -daysAgo)
	return models.Match{
		ID:   kickoff.Format("2006-01-02-15"),
		Date: time.Date(kickoff.Year(), kickoff.Month(), kickoff.Day(), 0, 0, 0, 0, kickoff.Location()),
		Time: &kickoff,
	}
}

func attendedItem(now time.Time, daysAgo int) HistoryItem {
	return HistoryItem{
		Participation: models.Participation{Status: models.StatusJoined, IsPresent: true},
		Match:         settledMatch(now, daysAgo),
	}
}

func missedItem(now time.Time, daysAgo int) HistoryItem {
	reason := models.NoShowNotExcused
	return HistoryItem{
		Participation: models.Participation{Status: models.StatusJoined, IsNoShow: true, NoShowReason: &reason},
		Match:         settledMatch(now, daysAgo),
	}
}

func excusedItem(now time.Time, daysAgo int) HistoryItem {
	reason := models.NoShowExcused
	return HistoryItem{
		Participation: models.Participation{Status: models.StatusJoined, IsNoShow: true, NoShowReason: &reason},
		Match:         settledMatch(now, daysAgo),
	}
}

// history builds attended+missed items on consecutive past days.
func history(now time.Time, attended, missed int) []HistoryItem {
	items := make([]HistoryItem, 0, attended+missed)
	day := 2
	for i := 0; i < attended; i++ {
		items = append(items, attendedItem(now, day))
		day++
	}
	for i := 0; i < missed; i++ {
		items = append(items, missedItem(now, day))
		day++
	}
	return items
}

func perfectUser() models.User {
	return models.User{ID: "u1", Username: "alex123", IsActive: true, Points: models.MaxPoints}
}

func TestComputeScore_NilWithoutEligibleHistory(t *testing.T) {
	now := time.Now()
	user := perfectUser()

	t.Run("empty history", func(t *testing.T) {
		assert.Nil(t, ComputeScore(&user, nil, now))
	})

	t.Run("only neutral history", func(t *testing.T) {
		items := []HistoryItem{
			excusedItem(now, 3),
			{
				Participation: models.Participation{Status: models.StatusLeft},
				Match:         settledMatch(now, 4),
			},
		}
		assert.Nil(t, ComputeScore(&user, items, now))
	})
}

func TestComputeScore_PerfectRecordIsHundred(t *testing.T) {
	now := time.Now()
	user := perfectUser()

	score := ComputeScore(&user, history(now, 5, 0), now)
	require.NotNil(t, score)
	assert.Equal(t, 100.0, *score)
}

func TestComputeScore_ZeroIsARealScore(t *testing.T) {
	now := time.Now()
	user := perfectUser()
	user.Points = 0

	// Missed everything and drained all points: a true zero, not an absence
	// of data.
	score := ComputeScore(&user, history(now, 0, 4), now)
	require.NotNil(t, score)
	assert.Equal(t, 0.0, *score)
}

func TestComputeScore_WeightedComponents(t *testing.T) {
	now := time.Now()
	user := perfectUser()
	user.Points = 11

	// 3/4 attendance and 11/15 points: 0.75*0.7*100 + 11/15*0.3*100 = 74.5
	score := ComputeScore(&user, history(now, 3, 1), now)
	require.NotNil(t, score)
	assert.InDelta(t, 74.5, *score, 0.001)
}

func TestComputeScore_PastSuspensionPenalty(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		count int
		want  float64
	}{
		{"one past suspension costs 2%", 1, 98},
		{"three cost 6%", 3, 94},
		{"penalty caps at 10%", 8, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := perfectUser()
			user.SuspensionCount = tt.count

			score := ComputeScore(&user, history(now, 5, 0), now)
			require.NotNil(t, score)
			assert.InDelta(t, tt.want, *score, 0.001)
		})
	}
}

func TestComputeScore_ActiveSuspensionDecays(t *testing.T) {
	now := time.Now()
	user := perfectUser()
	halfway := now.Add(time.Duration(models.SuspensionDays) * 24 * time.Hour / 2)
	user.IsSuspended = true
	user.SuspensionUntil = &halfway

	// Halfway through the suspension the penalty is 0.5.
	score := ComputeScore(&user, history(now, 5, 0), now)
	require.NotNil(t, score)
	assert.InDelta(t, 50, *score, 0.01)
}

func TestComputeScore_RoundingSnapsToHundred(t *testing.T) {
	now := time.Now()
	user := perfectUser()
	almostOver := now.Add(time.Second)
	user.IsSuspended = true
	user.SuspensionUntil = &almostOver

	score := ComputeScore(&user, history(now, 5, 0), now)
	require.NotNil(t, score)
	assert.Equal(t, 100.0, *score)
}

func TestRecentForm(t *testing.T) {
	now := time.Now()

	reason := models.NoShowNotExcused
	items := []HistoryItem{
		// Out of order on purpose; the strip must sort by kickoff.
		missedItem(now, 3),
		attendedItem(now, 6),
		excusedItem(now, 4),
		attendedItem(now, 2),
		{
			Participation: models.Participation{Status: models.StatusJoined, Removed: true},
			Match:         settledMatch(now, 5),
		},
		// Within the 24h attendance window, not settled yet.
		{
			Participation: models.Participation{Status: models.StatusJoined, IsNoShow: true, NoShowReason: &reason},
			Match:         settledMatch(now, 0),
		},
		// Upcoming match never shows in the strip.
		{
			Participation: models.Participation{Status: models.StatusJoined},
			Match: models.Match{
				Date: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 7),
			},
		},
	}

	form := RecentForm(items, now, 5)
	// Days 6..2, oldest first: present, removed, excused, no-show, present.
	assert.Equal(t, []FormMark{FormPresent, FormAbsent, FormNeutral, FormAbsent, FormPresent}, form)

	t.Run("length truncates to most recent", func(t *testing.T) {
		form := RecentForm(items, now, 2)
		assert.Equal(t, []FormMark{FormAbsent, FormPresent}, form)
	})

	t.Run("zero length falls back to default", func(t *testing.T) {
		form := RecentForm(items, now, 0)
		assert.Len(t, form, 5)
	})
}

func TestBuildLeaderboard(t *testing.T) {
	now := time.Now()

	// Attendance out of 7 with full points gives exact scores:
	// 7/7 -> 100, 6/7 -> 90, 5/7 -> 80, 4/7 -> 70.
	entry := func(id, username string, attended int) Entry {
		user := perfectUser()
		user.ID = id
		user.Username = username
		return Entry{
			User:        user,
			Eligibility: models.EligibilityOK,
			History:     history(now, attended, 7-attended),
		}
	}

	suspended := perfectUser()
	suspended.ID = "u9"
	suspended.Username = "zane999"
	until := now.Add(time.Duration(models.SuspensionDays) * 24 * time.Hour / 5)
	suspended.IsSuspended = true
	suspended.SuspensionUntil = &until

	newcomer := perfectUser()
	newcomer.ID = "u8"
	newcomer.Username = "nino100"

	entries := []Entry{
		entry("u1", "alex123", 7),
		entry("u2", "marc456", 7),
		entry("u3", "theo789", 6),
		entry("u4", "omar321", 5),
		entry("u5", "karim654", 4),
		// Suspended with perfect attendance: 100 * (1 - 0.2) = 80, same value
		// as the bronze holder but ineligible.
		{User: suspended, Eligibility: models.EligibilitySuspended, History: history(now, 7, 0)},
		{User: newcomer, Eligibility: models.EligibilityOK},
	}

	scores := BuildLeaderboard(entries, now, DefaultFormLength)
	require.Len(t, scores, 7)

	byUser := make(map[string]PlayerScore, len(scores))
	for _, ps := range scores {
		byUser[ps.Username] = ps
	}

	assert.Equal(t, MedalGold, byUser["alex123"].Medal)
	assert.Equal(t, MedalGold, byUser["marc456"].Medal, "tied top scores share gold")
	assert.Equal(t, MedalSilver, byUser["theo789"].Medal)
	assert.Equal(t, MedalBronze, byUser["omar321"].Medal)
	assert.Equal(t, MedalNone, byUser["karim654"].Medal)
	assert.Equal(t, MedalNone, byUser["zane999"].Medal, "suspended users never medal")

	require.NotNil(t, byUser["zane999"].Score)
	assert.InDelta(t, 80, *byUser["zane999"].Score, 0.01)

	// Nil scores sort last.
	assert.Nil(t, scores[len(scores)-1].Score)
	assert.Equal(t, "nino100", scores[len(scores)-1].Username)

	// Descending order among the scored entries.
	for i := 0; i < len(scores)-2; i++ {
		require.NotNil(t, scores[i].Score)
		require.NotNil(t, scores[i+1].Score)
		assert.GreaterOrEqual(t, *scores[i].Score, *scores[i+1].Score)
	}

	assert.Equal(t, 7, byUser["alex123"].Attended)
	assert.Equal(t, 7, byUser["alex123"].EligibleCount)
	assert.Equal(t, 0, byUser["nino100"].EligibleCount)
}
