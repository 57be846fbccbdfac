package services

import (
	"errors"
	"sync"
	"testing"

	"weight-gain-rpg/models"

	"github.com/google/uuid"
)

func achievementKeys(achievements []models.Achievement) map[string]bool {
	keys := make(map[string]bool, len(achievements))
	for _, a := range achievements {
		keys[a.Key] = true
	}
	return keys
}

// An early weigh-in from a fresh profile rolls up the whole chain: bonus
// event XP, the weigh-in quest, and three unlocks, all in one transaction.
func TestEarlyWeighInChain(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "earlyriser", 70, 90)

	res, err := e.events.RecordEvent(EventRequest{
		UserID:    userID,
		Type:      models.EventWeightLog,
		Payload:   models.EventPayload{Weight: floatPtr(70.5)},
		Timestamp: at(0, 7, 0),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if res.XPAwarded != XPWeightLog+EarlyBirdBonus {
		t.Errorf("event xp = %d, want %d", res.XPAwarded, XPWeightLog+EarlyBirdBonus)
	}
	if !res.Event.EarlyLog {
		t.Error("event not flagged as early log")
	}

	// 75 event + 50 weigh-in quest + 100 first_step + 50 early_bird +
	// 60 quest_first.
	if res.NewTotalXP != 335 {
		t.Errorf("total xp = %d, want 335", res.NewTotalXP)
	}
	if !res.LeveledUp || res.NewLevel != 2 {
		t.Errorf("level = %d (leveled up %v), want 2", res.NewLevel, res.LeveledUp)
	}
	if res.NewTitle != "Novice Gainer" {
		t.Errorf("title = %q, want %q", res.NewTitle, "Novice Gainer")
	}

	keys := achievementKeys(res.NewAchievements)
	for _, want := range []string{"first_step", "early_bird", "quest_first"} {
		if !keys[want] {
			t.Errorf("achievement %s not unlocked", want)
		}
	}
	if len(keys) != 3 {
		t.Errorf("unlocked %d achievements, want 3: %v", len(keys), keys)
	}
}

func TestLateWeighInNoEarlyBird(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "lateriser", 70, 90)

	res := recordWeight(t, e, userID, 0, 9, 70.5)
	if res.XPAwarded != XPWeightLog {
		t.Errorf("event xp = %d, want %d", res.XPAwarded, XPWeightLog)
	}
	if achievementKeys(res.NewAchievements)["early_bird"] {
		t.Error("early_bird unlocked from a 09:00 weigh-in")
	}
}

// Concurrent duplicate submissions must unlock an achievement exactly once
// and award its XP exactly once.
func TestAchievementUnlockAtMostOnce(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "racer", 70, 90)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.events.RecordEvent(EventRequest{
				UserID:    userID,
				Type:      models.EventJournal,
				Payload:   models.EventPayload{Text: "bulk log"},
				Timestamp: at(0, 12, 0),
			})
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	var unlocks int64
	err := e.db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_key = ?", userID, "journal_first").
		Count(&unlocks).Error
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if unlocks != 1 {
		t.Fatalf("journal_first unlocked %d times, want 1", unlocks)
	}

	// 2 journal events + the journal quest once + journal_first and
	// quest_first once each.
	want := int64(2*XPJournal) + 40 + 100 + 60
	if got := e.totalXP(t, userID); got != want {
		t.Fatalf("total xp = %d, want %d", got, want)
	}
}

func TestPreexistingUnlockNotReawarded(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "veteran", 70, 90)

	record := models.UserAchievement{
		ID:             uuid.NewString(),
		UserID:         userID,
		AchievementKey: "first_step",
	}
	if err := e.db.Create(&record).Error; err != nil {
		t.Fatalf("seed unlock: %v", err)
	}

	res := recordWeight(t, e, userID, 0, 10, 70)
	if achievementKeys(res.NewAchievements)["first_step"] {
		t.Fatal("first_step re-awarded despite existing unlock")
	}
	// 50 event + 50 quest + 60 quest_first, no XP for the seeded key.
	if res.NewTotalXP != 160 {
		t.Fatalf("total xp = %d, want 160", res.NewTotalXP)
	}
}

func TestWeightGainUnlocks(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "grower", 70, 90)

	res := recordWeight(t, e, userID, 0, 10, 72.5)
	keys := achievementKeys(res.NewAchievements)
	if !keys["kg_gained_1"] || !keys["kg_gained_2"] {
		t.Fatalf("gain unlocks missing: %v", keys)
	}
	if keys["kg_gained_5"] {
		t.Fatal("kg_gained_5 unlocked at +2.5kg")
	}
}

func TestMonthlyGainUnlock(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "bulkseason", 70, 90)

	// First log is its own 30-day baseline, so no monthly gain yet.
	res := recordWeight(t, e, userID, 0, 10, 70)
	if achievementKeys(res.NewAchievements)["beast_mode"] {
		t.Fatal("beast_mode unlocked from the baseline log")
	}

	// +2.5kg against the baseline inside the window.
	res = recordWeight(t, e, userID, 1, 10, 72.5)
	if !achievementKeys(res.NewAchievements)["beast_mode"] {
		t.Fatalf("beast_mode not unlocked at +2.5kg in one month: %v",
			achievementKeys(res.NewAchievements))
	}
}

func TestGoalReachedUnlock(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "finisher", 88, 90)

	res := recordWeight(t, e, userID, 0, 10, 90)
	if !achievementKeys(res.NewAchievements)["goal_reached"] {
		t.Fatal("goal_reached not unlocked at target weight")
	}
}

func TestStreakAchievement(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "streaker", 70, 90)

	var res *RecordResult
	for d := 0; d < 3; d++ {
		res = recordWeight(t, e, userID, d, 10, 70)
	}
	if !achievementKeys(res.NewAchievements)["streak_3"] {
		t.Fatal("streak_3 not unlocked after 3 consecutive days")
	}
}

func TestMarkSeen(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "notified", 70, 90)

	recordWeight(t, e, userID, 0, 10, 70)

	unseen, err := e.achievements.List(userID, true)
	if err != nil {
		t.Fatalf("list unseen: %v", err)
	}
	if len(unseen) == 0 {
		t.Fatal("no unseen achievements after first weigh-in")
	}

	for _, a := range unseen {
		if err := e.achievements.MarkSeen(userID, a.Key); err != nil {
			t.Fatalf("mark seen %s: %v", a.Key, err)
		}
	}
	unseen, err = e.achievements.List(userID, true)
	if err != nil {
		t.Fatalf("list unseen: %v", err)
	}
	if len(unseen) != 0 {
		t.Fatalf("%d achievements still unseen after marking", len(unseen))
	}
}

func TestMarkSeenUnknownUnlock(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "hasty", 70, 90)

	err := e.achievements.MarkSeen(userID, "first_step")
	if !errors.Is(err, ErrAchievementNotFound) {
		t.Fatalf("err = %v, want ErrAchievementNotFound", err)
	}
}

func TestListGroupedCoversCatalog(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "collector", 70, 90)

	grouped, err := e.achievements.ListGrouped(userID)
	if err != nil {
		t.Fatalf("list grouped: %v", err)
	}
	total := 0
	for _, r := range models.Rarities {
		total += len(grouped[r])
	}
	if total != len(models.AchievementCatalog) {
		t.Fatalf("grouped %d entries, want %d", total, len(models.AchievementCatalog))
	}
}
