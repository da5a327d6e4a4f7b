package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mohammedAljadd/FootyOn/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned for stale references to users, matches or
// participations.
var ErrNotFound = errors.New("record not found")

type Storage struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Stadium{},
		&models.Match{},
		&models.Participation{},
	); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("getting user: %w", notFound(err))
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, fmt.Errorf("getting user by username: %w", notFound(err))
	}
	return &user, nil
}

func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := s.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (s *Storage) CreateMatch(ctx context.Context, match *models.Match) error {
	if err := s.db.WithContext(ctx).Create(match).Error; err != nil {
		return fmt.Errorf("creating match: %w", err)
	}
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	var match models.Match
	if err := s.db.WithContext(ctx).Where("id = ?", matchID).First(&match).Error; err != nil {
		return nil, fmt.Errorf("getting match: %w", notFound(err))
	}
	return &match, nil
}

func (s *Storage) SaveMatch(ctx context.Context, match *models.Match) error {
	if err := s.db.WithContext(ctx).Save(match).Error; err != nil {
		return fmt.Errorf("saving match: %w", err)
	}
	return nil
}

// DeleteMatch hard-deletes a match together with its roster.
func (s *Storage) DeleteMatch(ctx context.Context, matchID string) error {
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", matchID).Delete(&models.Participation{}).Error; err != nil {
			return fmt.Errorf("deleting roster: %w", err)
		}
		if err := tx.Where("id = ?", matchID).Delete(&models.Match{}).Error; err != nil {
			return fmt.Errorf("deleting match: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("in tx: %w", err)
	}
	return nil
}

// ListUpcomingMatches returns matches on or after the given day, soonest
// first.
func (s *Storage) ListUpcomingMatches(ctx context.Context, from time.Time) ([]*models.Match, error) {
	var matches []*models.Match
	if err := s.db.
		WithContext(ctx).
		Where("date >= ?", from).
		Order("date, time").
		Find(&matches).
		Error; err != nil {
		return nil, fmt.Errorf("listing upcoming matches: %w", err)
	}
	return matches, nil
}

// ListAllMatches returns every match, latest first, for the admin manage
// page.
func (s *Storage) ListAllMatches(ctx context.Context) ([]*models.Match, error) {
	var matches []*models.Match
	if err := s.db.WithContext(ctx).Order("date DESC, time DESC").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	return matches, nil
}

func (s *Storage) ListMatchesWithoutShareToken(ctx context.Context) ([]*models.Match, error) {
	var matches []*models.Match
	if err := s.db.
		WithContext(ctx).
		Where("share_token IS NULL OR share_token = ''").
		Find(&matches).
		Error; err != nil {
		return nil, fmt.Errorf("listing matches without share token: %w", err)
	}
	return matches, nil
}

func (s *Storage) GetParticipation(ctx context.Context, participationID string) (*models.Participation, error) {
	var p models.Participation
	if err := s.db.WithContext(ctx).Where("id = ?", participationID).First(&p).Error; err != nil {
		return nil, fmt.Errorf("getting participation: %w", notFound(err))
	}
	return &p, nil
}

func (s *Storage) GetParticipationForUserMatch(ctx context.Context, userID, matchID string) (*models.Participation, error) {
	var p models.Participation
	if err := s.db.
		WithContext(ctx).
		Where("user_id = ? AND match_id = ?", userID, matchID).
		First(&p).
		Error; err != nil {
		return nil, fmt.Errorf("getting participation: %w", notFound(err))
	}
	return &p, nil
}

// GetOrCreateParticipation returns the single roster entry for (user, match),
// creating a fresh joined one when none exists yet.
func (s *Storage) GetOrCreateParticipation(ctx context.Context, userID, matchID string) (*models.Participation, error) {
	toCreate := &models.Participation{
		ID:         uuid.New().String(),
		UserID:     userID,
		MatchID:    matchID,
		Status:     models.StatusJoined,
		StatusTime: time.Now(),
	}

	var p models.Participation
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "user_id"},
					{Name: "match_id"},
				},
				DoNothing: true,
			}).
			Create(toCreate).
			Error; err != nil {
			return fmt.Errorf("creating participation: %w", err)
		}

		if err := tx.
			Where("user_id = ? AND match_id = ?", userID, matchID).
			First(&p).
			Error; err != nil {
			return fmt.Errorf("getting participation: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("in tx: %w", err)
	}

	return &p, nil
}

func (s *Storage) SaveParticipation(ctx context.Context, p *models.Participation) error {
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("saving participation: %w", err)
	}
	return nil
}

// DeleteParticipation is the irreversible admin hard delete.
func (s *Storage) DeleteParticipation(ctx context.Context, participationID string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", participationID).Delete(&models.Participation{}).Error; err != nil {
		return fmt.Errorf("deleting participation: %w", err)
	}
	return nil
}

func (s *Storage) ListMatchParticipations(ctx context.Context, matchID string) ([]*models.Participation, error) {
	var result []*models.Participation
	if err := s.db.
		WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("status_time").
		Find(&result).
		Error; err != nil {
		return nil, fmt.Errorf("listing match participations: %w", err)
	}
	return result, nil
}

func (s *Storage) ListUserParticipations(ctx context.Context, userID string) ([]*models.Participation, error) {
	var result []*models.Participation
	if err := s.db.
		WithContext(ctx).
		Where("user_id = ?", userID).
		Order("status_time").
		Find(&result).
		Error; err != nil {
		return nil, fmt.Errorf("listing user participations: %w", err)
	}
	return result, nil
}

func (s *Storage) ListAllParticipations(ctx context.Context) ([]*models.Participation, error) {
	var result []*models.Participation
	if err := s.db.WithContext(ctx).Find(&result).Error; err != nil {
		return nil, fmt.Errorf("listing participations: %w", err)
	}
	return result, nil
}

// CountActiveParticipants counts roster entries that occupy a spot:
// status=joined, not removed, not a no-show.
func (s *Storage) CountActiveParticipants(ctx context.Context, matchID string) (int, error) {
	var count int64
	if err := s.db.
		WithContext(ctx).
		Model(&models.Participation{}).
		Where(
			"match_id = ? AND status = ? AND removed = ? AND is_no_show = ?",
			matchID,
			models.StatusJoined,
			false,
			false,
		).
		Count(&count).
		Error; err != nil {
		return 0, fmt.Errorf("counting active participants: %w", err)
	}
	return int(count), nil
}

func (s *Storage) CreateStadium(ctx context.Context, stadium *models.Stadium) error {
	if err := s.db.WithContext(ctx).Create(stadium).Error; err != nil {
		return fmt.Errorf("creating stadium: %w", err)
	}
	return nil
}

func (s *Storage) GetStadium(ctx context.Context, stadiumID string) (*models.Stadium, error) {
	var stadium models.Stadium
	if err := s.db.WithContext(ctx).Where("id = ?", stadiumID).First(&stadium).Error; err != nil {
		return nil, fmt.Errorf("getting stadium: %w", notFound(err))
	}
	return &stadium, nil
}

func (s *Storage) SaveStadium(ctx context.Context, stadium *models.Stadium) error {
	if err := s.db.WithContext(ctx).Save(stadium).Error; err != nil {
		return fmt.Errorf("saving stadium: %w", err)
	}
	return nil
}

func (s *Storage) ListStadiums(ctx context.Context) ([]*models.Stadium, error) {
	var stadiums []*models.Stadium
	if err := s.db.WithContext(ctx).Order("name").Find(&stadiums).Error; err != nil {
		return nil, fmt.Errorf("listing stadiums: %w", err)
	}
	return stadiums, nil
}
