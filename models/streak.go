package models

import "time"

// StreakType names an activity whose consecutive-day runs are tracked.
type StreakType string

const (
	StreakWeightLog     StreakType = "weight_log"
	StreakCalorieLog    StreakType = "calorie_log"
	StreakCalorieTarget StreakType = "calorie_target"
	StreakQuestComplete StreakType = "quest_complete"
)

// DefaultStreakTypes are seeded (zeroed) when a profile is created.
var DefaultStreakTypes = []StreakType{
	StreakWeightLog,
	StreakCalorieLog,
	StreakCalorieTarget,
	StreakQuestComplete,
}

// Streak tracks current/longest consecutive-day runs per user and type.
type Streak struct {
	ID         string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string     `gorm:"uniqueIndex:idx_user_streak_type;not null" json:"user_id"`
	StreakType StreakType `gorm:"uniqueIndex:idx_user_streak_type;not null;type:varchar(32)" json:"streak_type"`

	CurrentStreak    int    `gorm:"default:0" json:"current_streak"`
	LongestStreak    int    `gorm:"default:0" json:"longest_streak"`
	LastActivityDate string `gorm:"type:varchar(10)" json:"last_activity_date"` // YYYY-MM-DD, empty before first touch

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
