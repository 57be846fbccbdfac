package models

import (
	"time"
)

// EventType enumerates the tracked actions that earn XP.
type EventType string

const (
	EventWeightLog     EventType = "weight_log"
	EventCalorieLog    EventType = "calorie_log"
	EventPhoto         EventType = "photo"
	EventJournal       EventType = "journal"
	EventQuestComplete EventType = "quest_complete"
)

// KnownEventType reports whether t is one of the recordable event types.
// quest_complete events are emitted internally by the quest scheduler, never
// submitted by clients.
func KnownEventType(t EventType) bool {
	switch t {
	case EventWeightLog, EventCalorieLog, EventPhoto, EventJournal, EventQuestComplete:
		return true
	}
	return false
}

// EventPayload carries the type-specific fields of a tracked event,
// flattened into the events table.
type EventPayload struct {
	Weight         *float64 `json:"weight,omitempty"`
	Calories       *int     `json:"calories,omitempty"`
	TargetCalories *int     `json:"target_calories,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Text           string   `json:"text,omitempty" gorm:"type:text"`
	Mood           string   `json:"mood,omitempty"`
	PhotoURL       string   `json:"photo_url,omitempty" gorm:"type:text"`
	Caption        string   `json:"caption,omitempty"`
	QuestKey       string   `json:"quest_key,omitempty"`
}

// TrackedEvent is an append-only record of one XP-earning action.
// XPAwarded, EarlyLog and TargetMet are computed once at creation and frozen;
// later rule changes never rewrite history.
type TrackedEvent struct {
	ID     string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string    `gorm:"index;not null" json:"user_id"`
	Type   EventType `gorm:"index;not null;type:varchar(32)" json:"type"`

	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`
	LogDate    string    `gorm:"index;not null;type:varchar(10)" json:"log_date"` // calendar day, YYYY-MM-DD

	Payload EventPayload `gorm:"embedded" json:"payload"`

	EarlyLog  bool  `json:"early_log"`
	TargetMet bool  `json:"target_met"`
	XPAwarded int64 `json:"xp_awarded"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
