package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProfile is the single-owner progression aggregate for one user.
// TotalXP is the authoritative counter; level and title are always derived
// from it against the level threshold table and are never stored.
type UserProfile struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`

	StartWeight   float64   `json:"start_weight"`
	CurrentWeight float64   `json:"current_weight"`
	TargetWeight  float64   `json:"target_weight" gorm:"default:90"`
	TargetDate    time.Time `json:"target_date"`
	StartDate     time.Time `json:"start_date"`

	TotalXP int64 `json:"total_xp" gorm:"default:0"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// WeightGained is the delta from the starting weight. Zero before the first
// weight log.
func (p *UserProfile) WeightGained() float64 {
	if p.StartWeight == 0 {
		return 0
	}
	return p.CurrentWeight - p.StartWeight
}

// ProgressPercent is how far the user is toward the target weight.
func (p *UserProfile) ProgressPercent() float64 {
	totalToGain := p.TargetWeight - p.StartWeight
	if p.StartWeight == 0 || totalToGain <= 0 {
		return 0
	}
	return p.WeightGained() / totalToGain * 100
}

// GoalReached reports whether the current weight is at or past the target.
func (p *UserProfile) GoalReached() bool {
	return p.StartWeight > 0 && p.CurrentWeight >= p.TargetWeight
}
