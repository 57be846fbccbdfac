package services

import (
	"testing"
	"time"

	"weight-gain-rpg/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEngine wires the full service graph against an in-memory SQLite DB so
// tests exercise real transactions and unique constraints.
type testEngine struct {
	db           *gorm.DB
	progression  *ProgressionService
	streaks      *StreakService
	quests       *QuestService
	achievements *AchievementService
	events       *EventService
	power        *PowerLevelService
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// One shared connection so every session sees the same :memory: DB.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.TrackedEvent{},
		&models.Streak{},
		&models.QuestProgress{},
		&models.UserAchievement{},
		&models.StatsSnapshot{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	locks := NewUserLocks()
	progression := NewProgressionService(db)
	streaks := NewStreakService(db)
	quests := NewQuestService(db, progression, streaks, locks)
	achievements := NewAchievementService(db, progression)
	events := NewEventService(db, progression, streaks, quests, achievements, locks)
	events.Location = time.UTC
	power := NewPowerLevelService(db, streaks)

	// Pin the engine clock just past the fixture days so time-windowed
	// conditions see the fixture events.
	clock := func() time.Time { return at(5, 12, 0) }
	achievements.Now = clock
	power.Now = clock

	return &testEngine{
		db:           db,
		progression:  progression,
		streaks:      streaks,
		quests:       quests,
		achievements: achievements,
		events:       events,
		power:        power,
	}
}

func (e *testEngine) createUser(t *testing.T, username string, startWeight, targetWeight float64) string {
	t.Helper()
	profile, err := e.progression.CreateProfile(CreateProfileRequest{
		Username:     username,
		StartWeight:  startWeight,
		TargetWeight: targetWeight,
		TargetDate:   time.Date(2027, 7, 22, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return profile.ID
}

func (e *testEngine) totalXP(t *testing.T, userID string) int64 {
	t.Helper()
	profile, err := e.progression.GetProfile(userID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	return profile.TotalXP
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// at builds a UTC timestamp on the given day offset and clock time. Day 0 is
// a fixed reference date.
func at(dayOffset, hour, minute int) time.Time {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, dayOffset).Add(
		time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func day(dayOffset int) string {
	return at(dayOffset, 0, 0).Format(dayLayout)
}
