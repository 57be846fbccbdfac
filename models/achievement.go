package models

import "time"

// Rarity tiers an achievement. It affects XP magnitude only.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities in display order.
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// ConditionKind tags one variant of the closed unlock-rule set. The
// achievement engine interprets these against a fresh stats aggregate; the
// catalog stays data-driven.
type ConditionKind string

const (
	CondEventCount      ConditionKind = "event_count"
	CondEarlyLogs       ConditionKind = "early_logs"
	CondStreak          ConditionKind = "streak"
	CondWeightGained    ConditionKind = "weight_gained"
	CondMonthlyGain     ConditionKind = "monthly_gain"
	CondProgressPercent ConditionKind = "progress_percent"
	CondGoalReached     ConditionKind = "goal_reached"
	CondLevel           ConditionKind = "level"
	CondActiveDays      ConditionKind = "active_days"
	CondAllOf           ConditionKind = "all_of"
)

// Condition is one unlock rule. Which fields are meaningful depends on Kind.
type Condition struct {
	Kind    ConditionKind `json:"kind"`
	Event   EventType     `json:"event,omitempty"`
	Streak  StreakType    `json:"streak,omitempty"`
	Count   int64         `json:"count,omitempty"`
	Kg      float64       `json:"kg,omitempty"`
	Percent float64       `json:"percent,omitempty"`
	Level   int           `json:"level,omitempty"`
	All     []Condition   `json:"all,omitempty"`
}

func eventCount(t EventType, n int64) Condition { return Condition{Kind: CondEventCount, Event: t, Count: n} }
func earlyLogs(n int64) Condition               { return Condition{Kind: CondEarlyLogs, Count: n} }
func streakDays(t StreakType, n int64) Condition {
	return Condition{Kind: CondStreak, Streak: t, Count: n}
}
func weightGained(kg float64) Condition  { return Condition{Kind: CondWeightGained, Kg: kg} }
func monthlyGain(kg float64) Condition   { return Condition{Kind: CondMonthlyGain, Kg: kg} }
func progressPct(pct float64) Condition  { return Condition{Kind: CondProgressPercent, Percent: pct} }
func goalReached() Condition             { return Condition{Kind: CondGoalReached} }
func levelReached(l int) Condition       { return Condition{Kind: CondLevel, Level: l} }
func activeDays(n int64) Condition       { return Condition{Kind: CondActiveDays, Count: n} }
func allOf(conds ...Condition) Condition { return Condition{Kind: CondAllOf, All: conds} }

// Achievement is a reference catalog row: a one-time-per-user milestone.
type Achievement struct {
	Key         string    `json:"achievement_key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Rarity      Rarity    `json:"rarity"`
	XPReward    int64     `json:"xp_reward"`
	Condition   Condition `json:"condition"`
}

// AchievementByKey returns the catalog entry for key, or nil.
func AchievementByKey(key string) *Achievement {
	for i := range AchievementCatalog {
		if AchievementCatalog[i].Key == key {
			return &AchievementCatalog[i]
		}
	}
	return nil
}

// UserAchievement is an unlock record. Its existence is the sole
// "already awarded" signal; the unique index makes concurrent duplicate
// awards impossible.
type UserAchievement struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID         string `gorm:"uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementKey string `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievement_key"`

	UnlockedAt time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
	Seen       bool      `gorm:"default:false" json:"seen"`
}

// AchievementCatalog is the immutable unlock catalog, loaded once and safe
// for unsynchronized reads.
var AchievementCatalog = []Achievement{
	// Common
	{Key: "first_step", Name: "First Step", Description: "Log your very first weight entry", Icon: "🎯", Rarity: RarityCommon, XPReward: 100, Condition: eventCount(EventWeightLog, 1)},
	{Key: "early_bird", Name: "Early Bird", Description: "Log weight before 8am", Icon: "🌅", Rarity: RarityCommon, XPReward: 50, Condition: earlyLogs(1)},
	{Key: "consistent_10", Name: "Getting Started", Description: "Log weight 10 times", Icon: "📊", Rarity: RarityCommon, XPReward: 200, Condition: eventCount(EventWeightLog, 10)},
	{Key: "photo_first", Name: "Picture Perfect", Description: "Upload your first progress photo", Icon: "📸", Rarity: RarityCommon, XPReward: 150, Condition: eventCount(EventPhoto, 1)},
	{Key: "journal_first", Name: "Dear Diary", Description: "Write your first journal entry", Icon: "📝", Rarity: RarityCommon, XPReward: 100, Condition: eventCount(EventJournal, 1)},
	{Key: "calorie_track", Name: "Calorie Counter", Description: "Log calories for the first time", Icon: "🍽️", Rarity: RarityCommon, XPReward: 80, Condition: eventCount(EventCalorieLog, 1)},
	{Key: "quest_first", Name: "Quest Accepted", Description: "Complete your first daily quest", Icon: "🗺️", Rarity: RarityCommon, XPReward: 60, Condition: eventCount(EventQuestComplete, 1)},
	{Key: "kg_gained_1", Name: "First Kilo", Description: "Gain 1kg from starting weight", Icon: "🌱", Rarity: RarityCommon, XPReward: 200, Condition: weightGained(1)},
	{Key: "streak_3", Name: "Warming Up", Description: "Maintain a 3-day logging streak", Icon: "✨", Rarity: RarityCommon, XPReward: 150, Condition: streakDays(StreakWeightLog, 3)},
	{Key: "active_7", Name: "First Week", Description: "Be active on 7 different days", Icon: "📅", Rarity: RarityCommon, XPReward: 120, Condition: activeDays(7)},

	// Rare
	{Key: "week_warrior", Name: "Week Warrior", Description: "Maintain a 7-day logging streak", Icon: "🔥", Rarity: RarityRare, XPReward: 500, Condition: streakDays(StreakWeightLog, 7)},
	{Key: "streak_14", Name: "Fortnight Fighter", Description: "Maintain a 14-day logging streak", Icon: "🔥", Rarity: RarityRare, XPReward: 800, Condition: streakDays(StreakWeightLog, 14)},
	{Key: "kg_gained_2", Name: "+2kg Beast", Description: "Gain 2kg from starting weight", Icon: "💪", Rarity: RarityRare, XPReward: 400, Condition: weightGained(2)},
	{Key: "kg_gained_5", Name: "+5kg Titan", Description: "Gain 5kg from starting weight", Icon: "🏆", Rarity: RarityRare, XPReward: 800, Condition: weightGained(5)},
	{Key: "photo_collector", Name: "Photo Collector", Description: "Upload 10 progress photos", Icon: "📷", Rarity: RarityRare, XPReward: 600, Condition: eventCount(EventPhoto, 10)},
	{Key: "consistent_50", Name: "Dedicated Logger", Description: "Log weight 50 times", Icon: "📈", Rarity: RarityRare, XPReward: 1000, Condition: eventCount(EventWeightLog, 50)},
	{Key: "journal_10", Name: "Storyteller", Description: "Write 10 journal entries", Icon: "📚", Rarity: RarityRare, XPReward: 350, Condition: eventCount(EventJournal, 10)},
	{Key: "calorie_10", Name: "Meal Logger", Description: "Log calories 10 times", Icon: "🥘", Rarity: RarityRare, XPReward: 300, Condition: eventCount(EventCalorieLog, 10)},
	{Key: "calorie_50", Name: "Kitchen Scientist", Description: "Log calories 50 times", Icon: "🧪", Rarity: RarityRare, XPReward: 800, Condition: eventCount(EventCalorieLog, 50)},
	{Key: "surplus_week", Name: "Surplus Week", Description: "Hit your calorie target 7 days straight", Icon: "🍚", Rarity: RarityRare, XPReward: 600, Condition: streakDays(StreakCalorieTarget, 7)},
	{Key: "quest_25", Name: "Quest Seeker", Description: "Complete 25 daily quests", Icon: "🧭", Rarity: RarityRare, XPReward: 500, Condition: eventCount(EventQuestComplete, 25)},
	{Key: "level_5", Name: "Getting Serious", Description: "Reach level 5", Icon: "⭐", Rarity: RarityRare, XPReward: 250, Condition: levelReached(5)},
	{Key: "level_10", Name: "Power Up!", Description: "Reach level 10", Icon: "⭐", Rarity: RarityRare, XPReward: 500, Condition: levelReached(10)},
	{Key: "level_20", Name: "Heavyweight Path", Description: "Reach level 20", Icon: "⭐", Rarity: RarityRare, XPReward: 900, Condition: levelReached(20)},
	{Key: "early_bird_10", Name: "Morning Champion", Description: "Log before 8am 10 times", Icon: "☀️", Rarity: RarityRare, XPReward: 400, Condition: earlyLogs(10)},
	{Key: "active_30", Name: "Monthly Regular", Description: "Be active on 30 different days", Icon: "🗓️", Rarity: RarityRare, XPReward: 700, Condition: activeDays(30)},

	// Epic
	{Key: "month_master", Name: "Month Master", Description: "Maintain a 30-day logging streak", Icon: "🔥🔥", Rarity: RarityEpic, XPReward: 1500, Condition: streakDays(StreakWeightLog, 30)},
	{Key: "kg_gained_10", Name: "+10kg Colossus", Description: "Gain 10kg from starting weight", Icon: "💎", Rarity: RarityEpic, XPReward: 2000, Condition: weightGained(10)},
	{Key: "kg_gained_12", Name: "+12kg Juggernaut Jr", Description: "Gain 12kg from starting weight", Icon: "💎", Rarity: RarityEpic, XPReward: 2500, Condition: weightGained(12)},
	{Key: "halfway_hero", Name: "Halfway Hero", Description: "Reach 50% of your goal", Icon: "🎖️", Rarity: RarityEpic, XPReward: 2500, Condition: progressPct(50)},
	{Key: "consistent_100", Name: "Century Club", Description: "Log weight 100 times", Icon: "💯", Rarity: RarityEpic, XPReward: 2000, Condition: eventCount(EventWeightLog, 100)},
	{Key: "level_25", Name: "Elite Gainer", Description: "Reach level 25", Icon: "⭐⭐", Rarity: RarityEpic, XPReward: 1500, Condition: levelReached(25)},
	{Key: "level_30", Name: "Mass Authority", Description: "Reach level 30", Icon: "⭐⭐", Rarity: RarityEpic, XPReward: 1800, Condition: levelReached(30)},
	{Key: "beast_mode", Name: "Beast Mode", Description: "Gain 2kg in one month", Icon: "🦍", Rarity: RarityEpic, XPReward: 1800, Condition: monthlyGain(2)},
	{Key: "photo_master", Name: "Photo Master", Description: "Upload 25 progress photos", Icon: "🎨", Rarity: RarityEpic, XPReward: 1500, Condition: eventCount(EventPhoto, 25)},
	{Key: "photo_50", Name: "Gallery Curator", Description: "Upload 50 progress photos", Icon: "🖼️", Rarity: RarityEpic, XPReward: 2000, Condition: eventCount(EventPhoto, 50)},
	{Key: "calorie_champion", Name: "Calorie Champion", Description: "Hit your calorie target 30 days straight", Icon: "👑", Rarity: RarityEpic, XPReward: 2000, Condition: streakDays(StreakCalorieTarget, 30)},
	{Key: "journal_50", Name: "Chronicler", Description: "Write 50 journal entries", Icon: "✒️", Rarity: RarityEpic, XPReward: 1200, Condition: eventCount(EventJournal, 50)},
	{Key: "perfect_week", Name: "Perfect Week", Description: "Complete all daily quests 7 days straight", Icon: "🌠", Rarity: RarityEpic, XPReward: 1200, Condition: streakDays(StreakQuestComplete, 7)},
	{Key: "quest_100", Name: "Quest Veteran", Description: "Complete 100 daily quests", Icon: "🏹", Rarity: RarityEpic, XPReward: 1500, Condition: eventCount(EventQuestComplete, 100)},
	{Key: "early_bird_50", Name: "Dawn Patrol", Description: "Log before 8am 50 times", Icon: "🌄", Rarity: RarityEpic, XPReward: 1500, Condition: earlyLogs(50)},
	{Key: "dedicated_90", Name: "Quarter of Grind", Description: "Be active on 90 different days", Icon: "🛡️", Rarity: RarityEpic, XPReward: 1800, Condition: activeDays(90)},
	{Key: "all_rounder", Name: "All Rounder", Description: "Log weight 25 times, calories 25 times, 5 photos and 10 journal entries", Icon: "🎛️", Rarity: RarityEpic, XPReward: 1600, Condition: allOf(
		eventCount(EventWeightLog, 25),
		eventCount(EventCalorieLog, 25),
		eventCount(EventPhoto, 5),
		eventCount(EventJournal, 10),
	)},

	// Legendary
	{Key: "unstoppable", Name: "Unstoppable Force", Description: "Maintain a 100-day logging streak", Icon: "🔥🔥🔥", Rarity: RarityLegendary, XPReward: 5000, Condition: streakDays(StreakWeightLog, 100)},
	{Key: "kg_gained_15", Name: "+15kg Juggernaut", Description: "Gain 15kg from starting weight", Icon: "💎💎", Rarity: RarityLegendary, XPReward: 4000, Condition: weightGained(15)},
	{Key: "kg_gained_20", Name: "+20kg Legend", Description: "Gain 20kg from starting weight", Icon: "👑", Rarity: RarityLegendary, XPReward: 6000, Condition: weightGained(20)},
	{Key: "goal_reached", Name: "Goal Crusher", Description: "Reach your target weight", Icon: "🏆👑", Rarity: RarityLegendary, XPReward: 10000, Condition: goalReached()},
	{Key: "level_50", Name: "Gain Legend", Description: "Reach level 50", Icon: "⭐⭐⭐", Rarity: RarityLegendary, XPReward: 5000, Condition: levelReached(50)},
	{Key: "consistent_365", Name: "Year of Dedication", Description: "Log weight 365 times", Icon: "🎆", Rarity: RarityLegendary, XPReward: 8000, Condition: eventCount(EventWeightLog, 365)},
	{Key: "perfect_month", Name: "Perfect Month", Description: "Complete all daily quests 30 days straight", Icon: "🌟", Rarity: RarityLegendary, XPReward: 5000, Condition: streakDays(StreakQuestComplete, 30)},
	{Key: "quest_365", Name: "Quest Immortal", Description: "Complete 365 daily quests", Icon: "⚔️", Rarity: RarityLegendary, XPReward: 8000, Condition: eventCount(EventQuestComplete, 365)},
	{Key: "year_active", Name: "365 Days of Grind", Description: "Be active on 365 different days", Icon: "🏛️", Rarity: RarityLegendary, XPReward: 7000, Condition: activeDays(365)},
	{Key: "apex_gainer", Name: "Apex Gainer", Description: "Reach level 40 with +15kg and a 30-day logging streak", Icon: "🐲", Rarity: RarityLegendary, XPReward: 8000, Condition: allOf(
		levelReached(40),
		weightGained(15),
		streakDays(StreakWeightLog, 30),
	)},
}
