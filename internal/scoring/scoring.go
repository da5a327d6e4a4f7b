// Package scoring turns a user's participation history and current standing
// into a reliability score, ranks users and assigns medals, and renders the
// recent-form strip. Everything here is a pure read-time projection: the
// engine never writes, and eligibility is supplied by the caller (resolving
// it may heal an expired suspension, which is a write).
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/mohammedAljadd/FootyOn/internal/models"
)

const (
	attendanceWeight = 0.7
	pointsWeight     = 0.3

	// Lifetime scar for past suspensions: 2% each, capped at 10%.
	pastSuspensionStep = 0.02
	pastSuspensionCap  = 0.10

	// DefaultFormLength is how many settled matches the form strip shows.
	DefaultFormLength = 5
)

type Medal string

const (
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
	MedalNone   Medal = ""
)

// FormMark is one glyph of the recent-form strip.
type FormMark string

const (
	FormPresent FormMark = "present"
	FormNeutral FormMark = "neutral"
	FormAbsent  FormMark = "absent"
)

// HistoryItem pairs a participation with its match; the match supplies
// kickoff ordering and settlement for the form strip.
type HistoryItem struct {
	Participation models.Participation
	Match         models.Match
}

// Entry is the per-user input to the leaderboard.
type Entry struct {
	User        models.User
	Eligibility models.Eligibility
	History     []HistoryItem
}

// PlayerScore is the read-only projection consumed by the leaderboard. It is
// never written back to the user record.
type PlayerScore struct {
	UserID      string             `json:"user_id"`
	Username    string             `json:"username"`
	Eligibility models.Eligibility `json:"eligibility"`

	// Score is nil for users with no eligible history: new users are
	// excluded from ranking, not penalized with a zero.
	Score *float64 `json:"score"`
	Medal Medal    `json:"medal,omitempty"`

	Attended      int        `json:"attended"`
	EligibleCount int        `json:"eligible_count"`
	RecentForm    []FormMark `json:"recent_form"`
}

// attendanceCounts partitions the history into the scoring numerator and
// denominator. Excused absences and early leaves without a no-show mark are
// neutral: they appear in neither.
func attendanceCounts(history []HistoryItem) (attended, eligible int) {
	for i := range history {
		p := &history[i].Participation
		if p.ExcusedAbsence() {
			continue
		}
		if p.Status == models.StatusLeft && !p.IsNoShow {
			continue
		}
		eligible++
		if p.Active() {
			attended++
		}
	}
	return attended, eligible
}

// suspensionPenalty decays linearly from 1 at the moment of suspension to 0
// when the suspension ends.
func suspensionPenalty(user *models.User, now time.Time) float64 {
	if !user.IsSuspended || user.SuspensionUntil == nil {
		return 0
	}
	remaining := user.SuspensionUntil.Sub(now)
	full := time.Duration(models.SuspensionDays) * 24 * time.Hour
	fraction := float64(remaining) / float64(full)
	return math.Min(1, math.Max(0, fraction))
}

// ComputeScore returns the reliability score on a 0–100 scale, or nil when
// the user has no eligible history.
func ComputeScore(user *models.User, history []HistoryItem, now time.Time) *float64 {
	attended, eligible := attendanceCounts(history)
	if eligible == 0 {
		return nil
	}

	attendanceScore := float64(attended) / float64(eligible)
	pointsRatio := float64(user.Points) / models.MaxPoints
	pastPenalty := math.Min(pastSuspensionCap, pastSuspensionStep*float64(user.SuspensionCount))

	score := (attendanceScore*attendanceWeight + pointsRatio*pointsWeight) * 100
	score *= 1 - suspensionPenalty(user, now)
	score *= 1 - pastPenalty

	score = math.Round(score*100) / 100
	// Rounding can push a 99.99x just past the ceiling; snap the display
	// value to exactly 100.
	if int(score) == 100 {
		score = 100
	}
	return &score
}

// RecentForm renders marks for the user's most recent settled matches,
// oldest to newest.
func RecentForm(history []HistoryItem, now time.Time, length int) []FormMark {
	if length <= 0 {
		length = DefaultFormLength
	}

	settled := make([]HistoryItem, 0, len(history))
	for _, item := range history {
		if item.Match.IsSettled(now) {
			settled = append(settled, item)
		}
	}
	sort.Slice(settled, func(i, j int) bool {
		return settled[i].Match.Kickoff().Before(settled[j].Match.Kickoff())
	})
	if len(settled) > length {
		settled = settled[len(settled)-length:]
	}

	marks := make([]FormMark, 0, len(settled))
	for i := range settled {
		p := &settled[i].Participation
		switch {
		case p.Active():
			marks = append(marks, FormPresent)
		case p.ExcusedAbsence():
			marks = append(marks, FormNeutral)
		default:
			marks = append(marks, FormAbsent)
		}
	}
	return marks
}

// BuildLeaderboard scores every entry, sorts descending (nil scores last)
// and assigns medals to the top three distinct scores among eligible users.
func BuildLeaderboard(entries []Entry, now time.Time, formLength int) []PlayerScore {
	scores := make([]PlayerScore, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		attended, eligible := attendanceCounts(entry.History)
		scores = append(scores, PlayerScore{
			UserID:        entry.User.ID,
			Username:      entry.User.Username,
			Eligibility:   entry.Eligibility,
			Score:         ComputeScore(&entry.User, entry.History, now),
			Attended:      attended,
			EligibleCount: eligible,
			RecentForm:    RecentForm(entry.History, now, formLength),
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		a, b := scores[i].Score, scores[j].Score
		switch {
		case a == nil && b == nil:
			return scores[i].Username < scores[j].Username
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a > *b
		default:
			return scores[i].Username < scores[j].Username
		}
	})

	assignMedals(scores)
	return scores
}

// assignMedals maps the top three distinct scores of eligible users to
// gold/silver/bronze. Ties share a tier; ineligible users never medal, no
// matter their score.
func assignMedals(scores []PlayerScore) {
	var distinct []float64
	for i := range scores {
		ps := &scores[i]
		if ps.Score == nil || !ps.Eligibility.Allowed() {
			continue
		}
		if len(distinct) == 0 || distinct[len(distinct)-1] != *ps.Score {
			distinct = append(distinct, *ps.Score)
		}
		if len(distinct) == 3 {
			break
		}
	}

	tiers := []Medal{MedalGold, MedalSilver, MedalBronze}
	for i := range scores {
		ps := &scores[i]
		if ps.Score == nil || !ps.Eligibility.Allowed() {
			continue
		}
		for rank, value := range distinct {
			if *ps.Score == value {
				ps.Medal = tiers[rank]
				break
			}
		}
	}
}
