package services

import (
	"errors"
	"log"
	"time"

	"weight-gain-rpg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAchievementNotFound is returned by MarkSeen for a key the user has not
// unlocked (or that does not exist).
var ErrAchievementNotFound = errors.New("achievement not unlocked")

// AchievementService evaluates the unlock catalog after every mutation and
// enforces at-most-once awards via the (user_id, achievement_key) unique
// index.
type AchievementService struct {
	DB          *gorm.DB
	Progression *ProgressionService

	// Now is the clock for time-windowed conditions; overridable in tests.
	Now func() time.Time
}

func NewAchievementService(db *gorm.DB, progression *ProgressionService) *AchievementService {
	return &AchievementService{DB: db, Progression: progression, Now: time.Now}
}

// AchievementStats is the fresh aggregate the condition interpreter runs
// against.
type AchievementStats struct {
	EventCounts     map[models.EventType]int64
	EarlyLogs       int64
	Streaks         map[models.StreakType]int
	WeightGained    float64
	MonthlyGain     float64
	ProgressPercent float64
	GoalReached     bool
	Level           int
	ActiveDays      int64
}

// CollectStats snapshots everything the unlock conditions can reference,
// inside the caller's transaction.
func (s *AchievementService) CollectStats(tx *gorm.DB, userID string) (*AchievementStats, error) {
	profile, err := getProfile(tx, userID)
	if err != nil {
		return nil, err
	}
	info, err := LevelFor(profile.TotalXP)
	if err != nil {
		return nil, err
	}

	stats := &AchievementStats{
		EventCounts:     make(map[models.EventType]int64),
		Streaks:         make(map[models.StreakType]int),
		WeightGained:    profile.WeightGained(),
		ProgressPercent: profile.ProgressPercent(),
		GoalReached:     profile.GoalReached(),
		Level:           info.Level,
	}

	counts := []struct {
		Type  models.EventType
		Total int64
	}{}
	err = tx.Model(&models.TrackedEvent{}).
		Select("type, count(*) as total").
		Where("user_id = ?", userID).
		Group("type").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.EventCounts[c.Type] = c.Total
	}

	err = tx.Model(&models.TrackedEvent{}).
		Where("user_id = ? AND type = ? AND early_log = ?", userID, models.EventWeightLog, true).
		Count(&stats.EarlyLogs).Error
	if err != nil {
		return nil, err
	}

	err = tx.Model(&models.TrackedEvent{}).
		Where("user_id = ?", userID).
		Distinct("log_date").
		Count(&stats.ActiveDays).Error
	if err != nil {
		return nil, err
	}

	var streaks []models.Streak
	if err := tx.Where("user_id = ?", userID).Find(&streaks).Error; err != nil {
		return nil, err
	}
	for _, st := range streaks {
		stats.Streaks[st.StreakType] = st.CurrentStreak
	}

	// Gain over the trailing 30 days: current weight vs the earliest weight
	// logged inside the window.
	var baseline models.TrackedEvent
	err = tx.Where("user_id = ? AND type = ? AND occurred_at >= ?",
		userID, models.EventWeightLog, s.Now().AddDate(0, 0, -30)).
		Order("occurred_at ASC").
		First(&baseline).Error
	if err == nil && baseline.Payload.Weight != nil {
		stats.MonthlyGain = profile.CurrentWeight - *baseline.Payload.Weight
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return stats, nil
}

// conditionMet interprets one tagged condition variant against the stats
// aggregate. The set is closed: the catalog stays data-driven.
func conditionMet(c models.Condition, stats *AchievementStats) bool {
	switch c.Kind {
	case models.CondEventCount:
		return stats.EventCounts[c.Event] >= c.Count
	case models.CondEarlyLogs:
		return stats.EarlyLogs >= c.Count
	case models.CondStreak:
		return int64(stats.Streaks[c.Streak]) >= c.Count
	case models.CondWeightGained:
		return stats.WeightGained >= c.Kg
	case models.CondMonthlyGain:
		return stats.MonthlyGain >= c.Kg
	case models.CondProgressPercent:
		return stats.ProgressPercent >= c.Percent
	case models.CondGoalReached:
		return stats.GoalReached
	case models.CondLevel:
		return stats.Level >= c.Level
	case models.CondActiveDays:
		return stats.ActiveDays >= c.Count
	case models.CondAllOf:
		for _, sub := range c.All {
			if !conditionMet(sub, stats) {
				return false
			}
		}
		return len(c.All) > 0
	}
	return false
}

// Evaluate checks every catalog entry without an unlock record against a
// fresh stats snapshot and awards the ones whose predicate holds. The insert
// is guarded by ON CONFLICT DO NOTHING on the unique index, so concurrent
// duplicate evaluations produce exactly one unlock and one XP award; losers
// simply observe "already unlocked".
func (s *AchievementService) Evaluate(tx *gorm.DB, userID string) ([]models.Achievement, error) {
	stats, err := s.CollectStats(tx, userID)
	if err != nil {
		return nil, err
	}

	var existing []string
	err = tx.Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_key", &existing).Error
	if err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(existing))
	for _, key := range existing {
		unlocked[key] = true
	}

	var newly []models.Achievement
	for _, def := range models.AchievementCatalog {
		if unlocked[def.Key] {
			continue
		}
		if !conditionMet(def.Condition, stats) {
			continue
		}

		record := models.UserAchievement{
			ID:             uuid.NewString(),
			UserID:         userID,
			AchievementKey: def.Key,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent evaluation won the insert; it also awarded the XP.
			continue
		}

		if _, err := s.Progression.AwardXP(tx, userID, def.XPReward, "achievement_"+def.Key); err != nil {
			return nil, err
		}
		log.Printf("🏅 Achievement unlocked: user=%s %s (%s) +%d XP", userID, def.Key, def.Rarity, def.XPReward)
		newly = append(newly, def)
	}
	return newly, nil
}

// MarkSeen flags an unlock record for UI notification bookkeeping. It is not
// part of the guarded mutation chain.
func (s *AchievementService) MarkSeen(userID, achievementKey string) error {
	res := s.DB.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_key = ?", userID, achievementKey).
		Update("seen", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAchievementNotFound
	}
	return nil
}

// AchievementWithStatus decorates a catalog entry with the user's unlock
// state.
type AchievementWithStatus struct {
	models.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	Seen       bool       `json:"seen,omitempty"`
}

// List returns the catalog with unlock status, optionally narrowed to
// unlocked-but-unseen entries for popup feeds.
func (s *AchievementService) List(userID string, unseenOnly bool) ([]AchievementWithStatus, error) {
	var records []models.UserAchievement
	if err := s.DB.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, err
	}
	byKey := make(map[string]models.UserAchievement, len(records))
	for _, r := range records {
		byKey[r.AchievementKey] = r
	}

	var out []AchievementWithStatus
	for _, def := range models.AchievementCatalog {
		record, ok := byKey[def.Key]
		if unseenOnly && (!ok || record.Seen) {
			continue
		}
		status := AchievementWithStatus{Achievement: def}
		if ok {
			at := record.UnlockedAt
			status.Unlocked = true
			status.UnlockedAt = &at
			status.Seen = record.Seen
		}
		out = append(out, status)
	}
	return out, nil
}

// ListGrouped buckets the catalog by rarity for the achievements page.
func (s *AchievementService) ListGrouped(userID string) (map[models.Rarity][]AchievementWithStatus, error) {
	all, err := s.List(userID, false)
	if err != nil {
		return nil, err
	}
	grouped := make(map[models.Rarity][]AchievementWithStatus, len(models.Rarities))
	for _, r := range models.Rarities {
		grouped[r] = []AchievementWithStatus{}
	}
	for _, a := range all {
		grouped[a.Rarity] = append(grouped[a.Rarity], a)
	}
	return grouped, nil
}
