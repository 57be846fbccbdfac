package services

import (
	"testing"

	"weight-gain-rpg/models"
)

func TestComputePowerLevel(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "saiyan", 70, 90)

	// +1kg weigh-in: 50 event + 50 quest + 100 first_step + 200 kg_gained_1
	// + 60 quest_first = 460 XP, level 2, weight-log streak 1.
	recordWeight(t, e, userID, 0, 10, 71)

	stats, err := e.power.Compute(userID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if stats.TotalXP != 460 {
		t.Fatalf("total xp = %d, want 460", stats.TotalXP)
	}
	if stats.Level != 2 {
		t.Fatalf("level = %d, want 2", stats.Level)
	}

	// level*100 + kg*50 + streak*10 + xp/10
	want := int64(2*100 + 1*50 + 1*10 + 460/10)
	if stats.PowerLevel != want {
		t.Fatalf("power level = %d, want %d", stats.PowerLevel, want)
	}

	if stats.Strength != 52 {
		t.Errorf("strength = %d, want 52", stats.Strength)
	}
	if stats.Consistency != 1 {
		t.Errorf("consistency = %d, want 1", stats.Consistency)
	}
	if stats.Mass != 71 || stats.Goal != 90 {
		t.Errorf("mass/goal = %.1f/%.1f, want 71/90", stats.Mass, stats.Goal)
	}
	if stats.WeightGained != 1 {
		t.Errorf("weight gained = %.1f, want 1", stats.WeightGained)
	}
	if stats.ProgressPercent != 5 {
		t.Errorf("progress = %.1f%%, want 5%%", stats.ProgressPercent)
	}
	if stats.Unlocked != 3 {
		t.Errorf("unlocked = %d, want 3", stats.Unlocked)
	}
}

func TestComputePowerLevelFreshProfile(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "rookie", 70, 90)

	stats, err := e.power.Compute(userID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// Level 1 with nothing else contributing.
	if stats.PowerLevel != 100 {
		t.Fatalf("power level = %d, want 100", stats.PowerLevel)
	}
	if stats.Strength != 50 {
		t.Errorf("strength = %d, want 50", stats.Strength)
	}
}

func TestMomentumAndDedication(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "longhauler", 70, 90)

	// Two months in (relative to the pinned engine clock), +2kg overall.
	err := e.db.Model(&models.UserProfile{}).Where("id = ?", userID).
		Update("start_date", at(-55, 12, 0)).Error
	if err != nil {
		t.Fatalf("backdate start: %v", err)
	}
	recordWeight(t, e, userID, 0, 10, 72)

	stats, err := e.power.Compute(userID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if stats.Dedication != 60 {
		t.Errorf("dedication = %d days, want 60", stats.Dedication)
	}
	// 2kg over 2 months.
	if stats.Momentum != 1 {
		t.Errorf("momentum = %.2f kg/month, want 1", stats.Momentum)
	}
}

func TestSnapshotPersistsStats(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "archived", 70, 90)
	recordWeight(t, e, userID, 0, 10, 71)

	snap, err := e.power.Snapshot(userID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.PowerLevel != 306 || snap.TotalXP != 460 || snap.Level != 2 {
		t.Fatalf("snapshot = %+v, want power 306, xp 460, level 2", snap)
	}

	history, err := e.power.SnapshotHistory(userID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(history))
	}
	if history[0].ID != snap.ID {
		t.Fatal("history row does not match the captured snapshot")
	}
}

func TestSnapshotUnknownUser(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.power.Snapshot("nobody"); err == nil {
		t.Fatal("expected error for unknown user")
	}
}
