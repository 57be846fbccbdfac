package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"weight-gain-rpg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrInvalidPayload covers malformed or missing payload fields. Nothing
	// is written when it fires.
	ErrInvalidPayload = errors.New("invalid event payload")

	// ErrFutureTimestamp rejects timestamps beyond the clock-skew tolerance.
	ErrFutureTimestamp = errors.New("event timestamp too far in the future")

	ErrUnknownEventType = errors.New("unknown event type")
)

// Base XP per event type, plus the additive bonus rules. Frozen into each
// event at creation; rebalancing never rewrites history.
const (
	XPWeightLog  = 50
	XPCalorieLog = 30
	XPPhoto      = 100
	XPJournal    = 40

	EarlyBirdHour  = 8 // local hour before which a weigh-in earns the bonus
	EarlyBirdBonus = 25
	TargetHitBonus = 50

	defaultSkewTolerance = 5 * time.Minute
)

func baseXP(t models.EventType) int64 {
	switch t {
	case models.EventWeightLog:
		return XPWeightLog
	case models.EventCalorieLog:
		return XPCalorieLog
	case models.EventPhoto:
		return XPPhoto
	case models.EventJournal:
		return XPJournal
	}
	return 0
}

// EventRequest is one tracked action submitted to the engine.
type EventRequest struct {
	UserID    string              `json:"user_id"`
	Type      models.EventType    `json:"type"`
	Payload   models.EventPayload `json:"payload"`
	Timestamp time.Time           `json:"timestamp"` // zero value → now
}

// RecordResult is the outcome of one accepted event: the frozen record plus
// everything the side-effect chain produced.
type RecordResult struct {
	Event           *models.TrackedEvent `json:"event"`
	XPAwarded       int64                `json:"xp_awarded"`
	NewTotalXP      int64                `json:"new_total_xp"`
	LeveledUp       bool                 `json:"leveled_up"`
	NewLevel        int                  `json:"new_level"`
	NewTitle        string               `json:"new_title"`
	CompletedQuests []models.DailyQuest  `json:"completed_quests,omitempty"`
	NewAchievements []models.Achievement `json:"newly_unlocked_achievements,omitempty"`
}

// EventService is the write boundary of the engine: it validates a tracked
// action, computes its XP once, and runs the whole side-effect chain (ledger,
// streaks, quests, achievements) under the user's lock in one transaction.
type EventService struct {
	DB           *gorm.DB
	Progression  *ProgressionService
	Streaks      *StreakService
	Quests       *QuestService
	Achievements *AchievementService
	Locks        *UserLocks

	// Location fixes the engine-wide calendar used for day boundaries.
	Location *time.Location
	// Now is the clock; overridable in tests.
	Now func() time.Time
	// SkewTolerance bounds how far into the future a timestamp may sit.
	SkewTolerance time.Duration
}

func NewEventService(db *gorm.DB, progression *ProgressionService, streaks *StreakService,
	quests *QuestService, achievements *AchievementService, locks *UserLocks) *EventService {
	return &EventService{
		DB:            db,
		Progression:   progression,
		Streaks:       streaks,
		Quests:        quests,
		Achievements:  achievements,
		Locks:         locks,
		Location:      time.Local,
		Now:           time.Now,
		SkewTolerance: defaultSkewTolerance,
	}
}

func (s *EventService) validate(req *EventRequest, now time.Time) error {
	switch req.Type {
	case models.EventWeightLog:
		if req.Payload.Weight == nil || *req.Payload.Weight <= 0 {
			return fmt.Errorf("%w: weight must be positive", ErrInvalidPayload)
		}
	case models.EventCalorieLog:
		if req.Payload.Calories == nil || *req.Payload.Calories <= 0 {
			return fmt.Errorf("%w: calories must be positive", ErrInvalidPayload)
		}
		if req.Payload.TargetCalories != nil && *req.Payload.TargetCalories <= 0 {
			return fmt.Errorf("%w: target calories must be positive", ErrInvalidPayload)
		}
	case models.EventPhoto:
		if req.Payload.PhotoURL == "" {
			return fmt.Errorf("%w: photo url required", ErrInvalidPayload)
		}
	case models.EventJournal:
		if req.Payload.Text == "" {
			return fmt.Errorf("%w: journal text required", ErrInvalidPayload)
		}
	default:
		// quest_complete events are emitted by the scheduler itself.
		return fmt.Errorf("%w: %s", ErrUnknownEventType, req.Type)
	}

	if req.Timestamp.After(now.Add(s.SkewTolerance)) {
		return ErrFutureTimestamp
	}
	return nil
}

// RecordEvent validates, freezes the XP award, and applies the full chain
// atomically. Once accepted, the outcome is durable: there is no retraction,
// corrections are new events.
func (s *EventService) RecordEvent(req EventRequest) (*RecordResult, error) {
	now := s.Now()
	if req.Timestamp.IsZero() {
		req.Timestamp = now
	}
	if err := s.validate(&req, now); err != nil {
		return nil, err
	}

	defer s.Locks.Lock(req.UserID)()

	profile, err := s.Progression.GetProfile(req.UserID)
	if err != nil {
		return nil, err
	}
	startInfo, err := LevelFor(profile.TotalXP)
	if err != nil {
		return nil, err
	}

	local := req.Timestamp.In(s.Location)
	logDate := local.Format(dayLayout)

	early := req.Type == models.EventWeightLog && local.Hour() < EarlyBirdHour
	targetMet := req.Type == models.EventCalorieLog &&
		req.Payload.TargetCalories != nil &&
		*req.Payload.Calories >= *req.Payload.TargetCalories

	xp := baseXP(req.Type)
	if early {
		xp += EarlyBirdBonus
	}
	if targetMet {
		xp += TargetHitBonus
	}

	result := &RecordResult{XPAwarded: xp}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// The calendar only moves forward: no event of any type may land on
		// a day before the user's latest recorded activity.
		var latest sql.NullString
		if err := tx.Model(&models.TrackedEvent{}).
			Where("user_id = ?", req.UserID).
			Select("max(log_date)").
			Scan(&latest).Error; err != nil {
			return err
		}
		if latest.Valid && logDate < latest.String {
			return ErrOutOfOrderActivity
		}

		event := &models.TrackedEvent{
			ID:         uuid.NewString(),
			UserID:     req.UserID,
			Type:       req.Type,
			OccurredAt: req.Timestamp,
			LogDate:    logDate,
			Payload:    req.Payload,
			EarlyLog:   early,
			TargetMet:  targetMet,
			XPAwarded:  xp,
		}
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		result.Event = event

		if req.Type == models.EventWeightLog {
			if err := tx.Model(&models.UserProfile{}).Where("id = ?", req.UserID).
				Update("current_weight", *req.Payload.Weight).Error; err != nil {
				return err
			}
		}

		if _, err := s.Progression.AwardXP(tx, req.UserID, xp, string(req.Type)); err != nil {
			return err
		}

		// Streak touches; an out-of-order date aborts the whole chain.
		switch req.Type {
		case models.EventWeightLog:
			if _, err := s.Streaks.Touch(tx, req.UserID, models.StreakWeightLog, logDate); err != nil {
				return err
			}
		case models.EventCalorieLog:
			if _, err := s.Streaks.Touch(tx, req.UserID, models.StreakCalorieLog, logDate); err != nil {
				return err
			}
			if targetMet {
				if _, err := s.Streaks.Touch(tx, req.UserID, models.StreakCalorieTarget, logDate); err != nil {
					return err
				}
			}
		}

		completed, err := s.Quests.EvaluateAll(tx, req.UserID, logDate, req.Timestamp)
		if err != nil {
			return err
		}
		result.CompletedQuests = completed

		newly, err := s.Achievements.Evaluate(tx, req.UserID)
		if err != nil {
			return err
		}
		result.NewAchievements = newly

		final, err := getProfile(tx, req.UserID)
		if err != nil {
			return err
		}
		finalInfo, err := LevelFor(final.TotalXP)
		if err != nil {
			return err
		}
		result.NewTotalXP = final.TotalXP
		result.LeveledUp = finalInfo.Level > startInfo.Level
		result.NewLevel = finalInfo.Level
		result.NewTitle = finalInfo.Title
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GrantXP is the admin-facing award path: no event, just a serialized ledger
// increment followed by an achievement pass.
func (s *EventService) GrantXP(userID string, xp int64, reason string) (*XPAward, []models.Achievement, error) {
	defer s.Locks.Lock(userID)()

	var award *XPAward
	var newly []models.Achievement
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		award, err = s.Progression.AwardXP(tx, userID, xp, reason)
		if err != nil {
			return err
		}
		newly, err = s.Achievements.Evaluate(tx, userID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return award, newly, nil
}

// Today is the current calendar day in the engine's configured location.
func (s *EventService) Today() string {
	return s.Now().In(s.Location).Format(dayLayout)
}

// Milestones is the personal leaderboard: the user's weigh-ins ranked
// lightest first, charting the climb against their past self.
func (s *EventService) Milestones(userID string, limit int) ([]models.TrackedEvent, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	var events []models.TrackedEvent
	err := s.DB.Where("user_id = ? AND type = ?", userID, models.EventWeightLog).
		Order("weight ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// History returns a user's events of one type, newest first.
func (s *EventService) History(userID string, eventType models.EventType, limit int) ([]models.TrackedEvent, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var events []models.TrackedEvent
	err := s.DB.Where("user_id = ? AND type = ?", userID, eventType).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
