package services

import (
	"errors"
	"testing"

	"weight-gain-rpg/models"
)

func TestStreakFirstTouch(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "fresh", 70, 90)

	st, err := e.streaks.Touch(e.db, userID, models.StreakWeightLog, day(0))
	if err != nil {
		t.Fatalf("touch: %v", err)
	}
	if st.CurrentStreak != 1 || st.LongestStreak != 1 {
		t.Fatalf("streak = %d/%d, want 1/1", st.CurrentStreak, st.LongestStreak)
	}
	if st.LastActivityDate != day(0) {
		t.Fatalf("last activity = %q, want %q", st.LastActivityDate, day(0))
	}
}

func TestStreakSameDayIdempotent(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "repeat", 70, 90)

	for i := 0; i < 3; i++ {
		st, err := e.streaks.Touch(e.db, userID, models.StreakWeightLog, day(0))
		if err != nil {
			t.Fatalf("touch %d: %v", i, err)
		}
		if st.CurrentStreak != 1 {
			t.Fatalf("touch %d: streak = %d, want 1", i, st.CurrentStreak)
		}
	}
}

func TestStreakConsecutiveDays(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "steady", 70, 90)

	for d := 0; d < 5; d++ {
		st, err := e.streaks.Touch(e.db, userID, models.StreakWeightLog, day(d))
		if err != nil {
			t.Fatalf("day %d: %v", d, err)
		}
		if st.CurrentStreak != d+1 {
			t.Fatalf("day %d: streak = %d, want %d", d, st.CurrentStreak, d+1)
		}
	}
}

func TestStreakGapResets(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "lapsed", 70, 90)

	for d := 0; d < 3; d++ {
		if _, err := e.streaks.Touch(e.db, userID, models.StreakWeightLog, day(d)); err != nil {
			t.Fatalf("day %d: %v", d, err)
		}
	}
	st, err := e.streaks.Touch(e.db, userID, models.StreakWeightLog, day(5))
	if err != nil {
		t.Fatalf("gap touch: %v", err)
	}
	if st.CurrentStreak != 1 {
		t.Fatalf("streak after gap = %d, want 1", st.CurrentStreak)
	}
	if st.LongestStreak != 3 {
		t.Fatalf("longest = %d, want 3", st.LongestStreak)
	}
}

func TestStreakRejectsBackdatedActivity(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "timetraveler", 70, 90)

	if _, err := e.streaks.Touch(e.db, userID, models.StreakWeightLog, day(2)); err != nil {
		t.Fatalf("touch: %v", err)
	}
	_, err := e.streaks.Touch(e.db, userID, models.StreakWeightLog, day(1))
	if !errors.Is(err, ErrOutOfOrderActivity) {
		t.Fatalf("err = %v, want ErrOutOfOrderActivity", err)
	}

	// State unchanged after the rejection.
	st, err := e.streaks.Current(e.db, userID, models.StreakWeightLog)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if st != 1 {
		t.Fatalf("streak = %d after rejected touch, want 1", st)
	}
}

func TestStreakBadDateFormat(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "sloppy", 70, 90)

	if _, err := e.streaks.Touch(e.db, userID, models.StreakWeightLog, "01/10/2026"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestStreakTypesIndependent(t *testing.T) {
	e := newTestEngine(t)
	userID := e.createUser(t, "split", 70, 90)

	for d := 0; d < 3; d++ {
		if _, err := e.streaks.Touch(e.db, userID, models.StreakWeightLog, day(d)); err != nil {
			t.Fatalf("weight day %d: %v", d, err)
		}
	}
	if _, err := e.streaks.Touch(e.db, userID, models.StreakCalorieLog, day(2)); err != nil {
		t.Fatalf("calorie touch: %v", err)
	}

	weight, _ := e.streaks.Current(e.db, userID, models.StreakWeightLog)
	calorie, _ := e.streaks.Current(e.db, userID, models.StreakCalorieLog)
	if weight != 3 || calorie != 1 {
		t.Fatalf("streaks = weight %d calorie %d, want 3 and 1", weight, calorie)
	}
}
