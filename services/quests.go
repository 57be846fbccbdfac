package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"weight-gain-rpg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrUnknownQuest rejects evaluation of a key absent from the catalog.
var ErrUnknownQuest = errors.New("unknown quest")

// QuestService evaluates the day-scoped quest catalog against same-day
// activity and feeds the quest-completion streak.
type QuestService struct {
	DB          *gorm.DB
	Progression *ProgressionService
	Streaks     *StreakService
	Locks       *UserLocks
}

func NewQuestService(db *gorm.DB, progression *ProgressionService, streaks *StreakService, locks *UserLocks) *QuestService {
	return &QuestService{DB: db, Progression: progression, Streaks: streaks, Locks: locks}
}

// dayContext aggregates one user's activity on one calendar day.
type dayContext struct {
	counts    map[models.EventType]int64
	targetMet bool
}

func (s *QuestService) buildDayContext(tx *gorm.DB, userID, date string) (*dayContext, error) {
	rows := []struct {
		Type  models.EventType
		Total int64
	}{}
	err := tx.Model(&models.TrackedEvent{}).
		Select("type, count(*) as total").
		Where("user_id = ? AND log_date = ?", userID, date).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ctx := &dayContext{counts: make(map[models.EventType]int64, len(rows))}
	for _, r := range rows {
		ctx.counts[r.Type] = r.Total
	}

	var hit int64
	err = tx.Model(&models.TrackedEvent{}).
		Where("user_id = ? AND log_date = ? AND type = ? AND target_met = ?",
			userID, date, models.EventCalorieLog, true).
		Count(&hit).Error
	if err != nil {
		return nil, err
	}
	ctx.targetMet = hit > 0
	return ctx, nil
}

// questProgressCount returns how much of the quest's requirement today's
// activity satisfies.
func questProgressCount(q models.DailyQuest, ctx *dayContext) int {
	var n int64
	switch q.Type {
	case models.QuestWeightLog:
		n = ctx.counts[models.EventWeightLog]
	case models.QuestCalorieLog:
		n = ctx.counts[models.EventCalorieLog]
	case models.QuestCalorieTarget:
		if ctx.targetMet {
			n = 1
		}
	case models.QuestPhotoUpload:
		n = ctx.counts[models.EventPhoto]
	case models.QuestJournalEntry:
		n = ctx.counts[models.EventJournal]
	}
	if n > int64(q.RequirementCount) {
		n = int64(q.RequirementCount)
	}
	return int(n)
}

// EvaluateQuest is the standalone engine operation: serialize on the user,
// evaluate one quest for one day in its own transaction. Re-evaluating an
// already-completed quest returns the existing record unchanged.
func (s *QuestService) EvaluateQuest(userID, questKey, date string) (*models.QuestProgress, error) {
	quest := models.QuestByKey(questKey)
	if quest == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuest, questKey)
	}
	if _, err := parseDay(date); err != nil {
		return nil, err
	}

	defer s.Locks.Lock(userID)()

	var record *models.QuestProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		ctx, err := s.buildDayContext(tx, userID, date)
		if err != nil {
			return err
		}
		rec, _, err := s.evaluateOne(tx, userID, *quest, date, ctx, time.Now())
		if err != nil {
			return err
		}
		if err := s.touchDailyCompletion(tx, userID, date); err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// EvaluateAll runs inside the caller's transaction (and lock): completes
// every satisfied, not-yet-completed quest for the day and, once the whole
// catalog is done, touches the quest-completion streak.
func (s *QuestService) EvaluateAll(tx *gorm.DB, userID, date string, occurredAt time.Time) ([]models.DailyQuest, error) {
	ctx, err := s.buildDayContext(tx, userID, date)
	if err != nil {
		return nil, err
	}

	var completed []models.DailyQuest
	for _, quest := range models.QuestCatalog {
		_, newly, err := s.evaluateOne(tx, userID, quest, date, ctx, occurredAt)
		if err != nil {
			return nil, err
		}
		if newly {
			completed = append(completed, quest)
		}
	}

	if len(completed) > 0 {
		if err := s.touchDailyCompletion(tx, userID, date); err != nil {
			return nil, err
		}
	}
	return completed, nil
}

// evaluateOne flips one quest false→true at most once per day. On the first
// transition it freezes a quest_complete event and awards the reward XP.
func (s *QuestService) evaluateOne(tx *gorm.DB, userID string, quest models.DailyQuest, date string, ctx *dayContext, occurredAt time.Time) (*models.QuestProgress, bool, error) {
	progress := questProgressCount(quest, ctx)

	var rec models.QuestProgress
	exists := true
	err := tx.Where("user_id = ? AND quest_key = ? AND quest_date = ?", userID, quest.Key, date).
		First(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		exists = false
		rec = models.QuestProgress{
			ID:        uuid.NewString(),
			UserID:    userID,
			QuestKey:  quest.Key,
			QuestDate: date,
		}
	case err != nil:
		return nil, false, err
	}

	if rec.Completed {
		return &rec, false, nil
	}

	rec.Progress = progress
	satisfied := progress >= quest.RequirementCount
	if satisfied {
		now := occurredAt
		rec.Completed = true
		rec.CompletedAt = &now
	}
	if exists {
		err = tx.Save(&rec).Error
	} else {
		err = tx.Create(&rec).Error
	}
	if err != nil {
		return nil, false, err
	}
	if !satisfied {
		return &rec, false, nil
	}

	event := models.TrackedEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       models.EventQuestComplete,
		OccurredAt: occurredAt,
		LogDate:    date,
		Payload:    models.EventPayload{QuestKey: quest.Key},
		XPAwarded:  quest.XPReward,
	}
	if err := tx.Create(&event).Error; err != nil {
		return nil, false, err
	}
	if _, err := s.Progression.AwardXP(tx, userID, quest.XPReward, "quest_"+quest.Key); err != nil {
		return nil, false, err
	}

	log.Printf("🗺️ Quest complete: user=%s quest=%s date=%s +%d XP", userID, quest.Key, date, quest.XPReward)
	return &rec, true, nil
}

// touchDailyCompletion extends the quest_complete streak only once every
// quest in the catalog is done for the day. Per-quest completion and the
// aggregate daily streak are distinct.
func (s *QuestService) touchDailyCompletion(tx *gorm.DB, userID, date string) error {
	var done int64
	err := tx.Model(&models.QuestProgress{}).
		Where("user_id = ? AND quest_date = ? AND completed = ?", userID, date, true).
		Count(&done).Error
	if err != nil {
		return err
	}
	if done < int64(len(models.QuestCatalog)) {
		return nil
	}
	_, err = s.Streaks.Touch(tx, userID, models.StreakQuestComplete, date)
	return err
}

// QuestStatus merges a catalog entry with the user's progress for display.
type QuestStatus struct {
	models.DailyQuest
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// DailyQuests lists the catalog with the user's state for one day.
func (s *QuestService) DailyQuests(userID, date string) ([]QuestStatus, error) {
	var rows []models.QuestProgress
	if err := s.DB.Where("user_id = ? AND quest_date = ?", userID, date).Find(&rows).Error; err != nil {
		return nil, err
	}
	byKey := make(map[string]models.QuestProgress, len(rows))
	for _, r := range rows {
		byKey[r.QuestKey] = r
	}

	statuses := make([]QuestStatus, 0, len(models.QuestCatalog))
	for _, quest := range models.QuestCatalog {
		status := QuestStatus{DailyQuest: quest}
		if r, ok := byKey[quest.Key]; ok {
			status.Progress = r.Progress
			status.Completed = r.Completed
			status.CompletedAt = r.CompletedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
