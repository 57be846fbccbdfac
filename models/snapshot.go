package models

import "time"

// StatsSnapshot is an append-only capture of derived progression state,
// written on a bounded schedule rather than per event.
type StatsSnapshot struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`

	CapturedAt    time.Time `gorm:"index;not null" json:"captured_at"`
	Level         int       `json:"level"`
	TotalXP       int64     `json:"total_xp"`
	CurrentStreak int       `json:"current_streak"`
	WeightGained  float64   `json:"weight_gained"`
	PowerLevel    int64     `json:"power_level"`
}
