package models

import "time"

// QuestType tags the day-scoped activity a quest checks for.
type QuestType string

const (
	QuestWeightLog     QuestType = "weight_log"
	QuestCalorieLog    QuestType = "calorie_log"
	QuestCalorieTarget QuestType = "calorie_target"
	QuestPhotoUpload   QuestType = "photo_upload"
	QuestJournalEntry  QuestType = "journal_entry"
)

// DailyQuest is a reference catalog row. The catalog is immutable for the
// process lifetime and safe for unsynchronized reads.
type DailyQuest struct {
	Key              string    `json:"quest_key"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Type             QuestType `json:"quest_type"`
	XPReward         int64     `json:"xp_reward"`
	Icon             string    `json:"icon"`
	RequirementCount int       `json:"requirement_count"`
}

// QuestCatalog mirrors the five daily quests of the tracker.
var QuestCatalog = []DailyQuest{
	{Key: "log_weight", Name: "Daily Weigh-In", Description: "Log your weight today", Type: QuestWeightLog, XPReward: 50, Icon: "⚖️", RequirementCount: 1},
	{Key: "log_calories", Name: "Calorie Tracker", Description: "Log your calories today", Type: QuestCalorieLog, XPReward: 30, Icon: "🍔", RequirementCount: 1},
	{Key: "hit_calorie_target", Name: "Surplus Master", Description: "Hit your calorie target", Type: QuestCalorieTarget, XPReward: 150, Icon: "🎯", RequirementCount: 1},
	{Key: "upload_photo", Name: "Snapshot", Description: "Upload a progress photo", Type: QuestPhotoUpload, XPReward: 100, Icon: "📸", RequirementCount: 1},
	{Key: "write_journal", Name: "Journal Entry", Description: "Write a journal entry", Type: QuestJournalEntry, XPReward: 40, Icon: "📖", RequirementCount: 1},
}

// QuestByKey returns the catalog entry for key, or nil.
func QuestByKey(key string) *DailyQuest {
	for i := range QuestCatalog {
		if QuestCatalog[i].Key == key {
			return &QuestCatalog[i]
		}
	}
	return nil
}

// QuestProgress is one user's state for one quest on one day.
// Completed flips false→true at most once per (user, quest, day).
type QuestProgress struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string `gorm:"uniqueIndex:idx_user_quest_day;not null" json:"user_id"`
	QuestKey  string `gorm:"uniqueIndex:idx_user_quest_day;not null" json:"quest_key"`
	QuestDate string `gorm:"uniqueIndex:idx_user_quest_day;not null;type:varchar(10)" json:"quest_date"`

	Progress    int        `gorm:"default:0" json:"progress"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
