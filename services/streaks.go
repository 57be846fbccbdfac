package services

import (
	"errors"
	"fmt"
	"time"

	"weight-gain-rpg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrOutOfOrderActivity rejects activity dated before the streak's last
// recorded day. Backdated activity is not supported; corrections are new
// events on new days.
var ErrOutOfOrderActivity = errors.New("activity date precedes last recorded activity")

const dayLayout = "2006-01-02"

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad activity date %q: %w", s, err)
	}
	return t, nil
}

// StreakService maintains per-user, per-type consecutive-day runs.
type StreakService struct {
	DB *gorm.DB
}

func NewStreakService(db *gorm.DB) *StreakService {
	return &StreakService{DB: db}
}

// Touch records activity of the given type on activityDate (YYYY-MM-DD)
// inside the caller's transaction. Gap rule against the last activity date:
//
//	0   same-day re-touch, no-op
//	1   streak extends
//	>1  streak resets to 1 (as does the first touch ever)
//	<0  rejected with ErrOutOfOrderActivity
func (s *StreakService) Touch(tx *gorm.DB, userID string, streakType models.StreakType, activityDate string) (*models.Streak, error) {
	day, err := parseDay(activityDate)
	if err != nil {
		return nil, err
	}

	var streak models.Streak
	err = tx.Where("user_id = ? AND streak_type = ?", userID, streakType).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Profiles seed their streak rows, but a missing row is not fatal.
		streak = models.Streak{
			ID:         uuid.NewString(),
			UserID:     userID,
			StreakType: streakType,
		}
		if err := tx.Create(&streak).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if streak.LastActivityDate == "" {
		streak.CurrentStreak = 1
	} else {
		last, err := parseDay(streak.LastActivityDate)
		if err != nil {
			return nil, err
		}
		gap := int(day.Sub(last).Hours() / 24)
		switch {
		case gap == 0:
			return &streak, nil
		case gap == 1:
			streak.CurrentStreak++
		case gap > 1:
			streak.CurrentStreak = 1
		default:
			return nil, ErrOutOfOrderActivity
		}
	}

	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	streak.LastActivityDate = activityDate

	if err := tx.Save(&streak).Error; err != nil {
		return nil, err
	}
	return &streak, nil
}

// Get returns all streak states for a user.
func (s *StreakService) Get(userID string) ([]models.Streak, error) {
	var streaks []models.Streak
	err := s.DB.Where("user_id = ?", userID).Order("streak_type").Find(&streaks).Error
	return streaks, err
}

// Current returns the current run length for one streak type, 0 when the
// row is missing.
func (s *StreakService) Current(tx *gorm.DB, userID string, streakType models.StreakType) (int, error) {
	var streak models.Streak
	err := tx.Where("user_id = ? AND streak_type = ?", userID, streakType).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return streak.CurrentStreak, nil
}
