package services

import (
	"log"
	"time"

	"weight-gain-rpg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PowerWeights define the composite metric's tunable constants.
type PowerWeights struct {
	LevelWeight  int64
	KgWeight     int64
	StreakWeight int64
	XPDivisor    int64
}

var DefaultPowerWeights = PowerWeights{
	LevelWeight:  100,
	KgWeight:     50,
	StreakWeight: 10,
	XPDivisor:    10,
}

// PowerStats is the read-only RPG stat block derived from current state.
type PowerStats struct {
	PowerLevel      int64   `json:"power_level"`
	Level           int     `json:"level"`
	Title           string  `json:"title"`
	TotalXP         int64   `json:"total_xp"`
	Strength        int64   `json:"strength"`
	Mass            float64 `json:"mass"`
	Goal            float64 `json:"goal"`
	Momentum        float64 `json:"momentum"` // kg per month
	Consistency     int     `json:"consistency"`
	Dedication      int     `json:"dedication"` // days since start
	WeightGained    float64 `json:"weight_gained"`
	ProgressPercent float64 `json:"progress_percent"`
	Unlocked        int64   `json:"achievements_unlocked"`
	CatalogSize     int     `json:"achievements_total"`
}

// PowerLevelService derives the composite power metric and snapshots it on a
// bounded schedule instead of on every event.
type PowerLevelService struct {
	DB      *gorm.DB
	Streaks *StreakService
	Weights PowerWeights

	// Now is the clock for momentum and dedication; overridable in tests.
	Now func() time.Time
}

func NewPowerLevelService(db *gorm.DB, streaks *StreakService) *PowerLevelService {
	return &PowerLevelService{DB: db, Streaks: streaks, Weights: DefaultPowerWeights, Now: time.Now}
}

// Compute derives the full stat block for one user on demand.
func (s *PowerLevelService) Compute(userID string) (*PowerStats, error) {
	profile, err := getProfile(s.DB, userID)
	if err != nil {
		return nil, err
	}
	info, err := LevelFor(profile.TotalXP)
	if err != nil {
		return nil, err
	}

	streak, err := s.Streaks.Current(s.DB, userID, models.StreakWeightLog)
	if err != nil {
		return nil, err
	}

	var totalLogs int64
	err = s.DB.Model(&models.TrackedEvent{}).
		Where("user_id = ? AND type = ?", userID, models.EventWeightLog).
		Count(&totalLogs).Error
	if err != nil {
		return nil, err
	}

	var unlocked int64
	err = s.DB.Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Count(&unlocked).Error
	if err != nil {
		return nil, err
	}

	gained := profile.WeightGained()
	daysActive := 0
	if !profile.StartDate.IsZero() {
		daysActive = int(s.Now().Sub(profile.StartDate).Hours() / 24)
		if daysActive < 0 {
			daysActive = 0
		}
	}
	momentum := 0.0
	if daysActive > 0 {
		months := float64(daysActive) / 30
		if months < 1 {
			months = 1
		}
		momentum = gained / months
	}

	w := s.Weights
	power := int64(info.Level)*w.LevelWeight +
		int64(gained*float64(w.KgWeight)) +
		int64(streak)*w.StreakWeight +
		profile.TotalXP/w.XPDivisor

	return &PowerStats{
		PowerLevel:      power,
		Level:           info.Level,
		Title:           info.Title,
		TotalXP:         profile.TotalXP,
		Strength:        50 + totalLogs*2,
		Mass:            profile.CurrentWeight,
		Goal:            profile.TargetWeight,
		Momentum:        momentum,
		Consistency:     streak,
		Dedication:      daysActive,
		WeightGained:    gained,
		ProgressPercent: profile.ProgressPercent(),
		Unlocked:        unlocked,
		CatalogSize:     len(models.AchievementCatalog),
	}, nil
}

// Snapshot appends one StatsSnapshot row for the user.
func (s *PowerLevelService) Snapshot(userID string) (*models.StatsSnapshot, error) {
	stats, err := s.Compute(userID)
	if err != nil {
		return nil, err
	}
	snap := &models.StatsSnapshot{
		ID:            uuid.NewString(),
		UserID:        userID,
		CapturedAt:    s.Now(),
		Level:         stats.Level,
		TotalXP:       stats.TotalXP,
		CurrentStreak: stats.Consistency,
		WeightGained:  stats.WeightGained,
		PowerLevel:    stats.PowerLevel,
	}
	if err := s.DB.Create(snap).Error; err != nil {
		return nil, err
	}
	return snap, nil
}

// SnapshotAll captures every profile once. Failures are logged and skipped
// so one bad row never starves the rest.
func (s *PowerLevelService) SnapshotAll() {
	var ids []string
	if err := s.DB.Model(&models.UserProfile{}).Pluck("id", &ids).Error; err != nil {
		log.Printf("[Snapshot] failed to list profiles: %v", err)
		return
	}
	for _, id := range ids {
		if _, err := s.Snapshot(id); err != nil {
			log.Printf("[Snapshot] failed for user %s: %v", id, err)
		}
	}
	log.Printf("✅ Stats snapshots captured for %d profiles", len(ids))
}

// SnapshotHistory returns the most recent snapshots for a user.
func (s *PowerLevelService) SnapshotHistory(userID string, limit int) ([]models.StatsSnapshot, error) {
	if limit < 1 || limit > 365 {
		limit = 30
	}
	var snaps []models.StatsSnapshot
	err := s.DB.Where("user_id = ?", userID).
		Order("captured_at DESC").
		Limit(limit).
		Find(&snaps).Error
	return snaps, err
}
