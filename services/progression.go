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

var (
	// ErrNegativeXP guards the ledger: total XP is monotonically
	// non-decreasing, so no award may carry a negative amount.
	ErrNegativeXP = errors.New("xp award must not be negative")

	// ErrInvalidTotalXP marks a negative cumulative XP value, an invariant
	// violation wherever it is observed.
	ErrInvalidTotalXP = errors.New("total xp must not be negative")

	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameTaken   = errors.New("username already taken")
)

// LevelInfo is the derived leveling state for a cumulative XP value.
type LevelInfo struct {
	Level       int    `json:"level"`
	Title       string `json:"title"`
	XPIntoLevel int64  `json:"xp_into_level"`
	XPToNext    int64  `json:"xp_to_next"` // 0 at the top level
}

// LevelFor derives level and title from cumulative XP against the immutable
// threshold table: greatest threshold ≤ totalXP, title from the highest
// titled level at or below it. Titles are sparse.
func LevelFor(totalXP int64) (LevelInfo, error) {
	if totalXP < 0 {
		return LevelInfo{}, ErrInvalidTotalXP
	}

	info := LevelInfo{}
	for i, row := range models.LevelThresholds {
		if row.XPRequired > totalXP {
			info.XPToNext = row.XPRequired - totalXP
			break
		}
		info.Level = row.Level
		info.XPIntoLevel = totalXP - row.XPRequired
		if row.Title != "" {
			info.Title = row.Title
		}
		if i == len(models.LevelThresholds)-1 {
			info.XPToNext = 0
		}
	}
	return info, nil
}

// XPAward reports the ledger state after one award.
type XPAward struct {
	TotalXP   int64  `json:"total_xp"`
	LeveledUp bool   `json:"leveled_up"`
	NewLevel  int    `json:"new_level"`
	NewTitle  string `json:"new_title"`
}

// ProgressionService owns the XP ledger and the profile aggregate.
type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// CreateProfileRequest carries the bootstrap fields for a new user.
type CreateProfileRequest struct {
	Username     string    `json:"username"`
	StartWeight  float64   `json:"start_weight"`
	TargetWeight float64   `json:"target_weight"`
	TargetDate   time.Time `json:"target_date"`
}

// CreateProfile inserts the profile plus its zeroed streak rows in one
// transaction.
func (s *ProgressionService) CreateProfile(req CreateProfileRequest) (*models.UserProfile, error) {
	if req.Username == "" {
		return nil, fmt.Errorf("%w: username required", ErrInvalidPayload)
	}
	if req.StartWeight <= 0 {
		return nil, fmt.Errorf("%w: start weight must be positive", ErrInvalidPayload)
	}
	if req.TargetWeight == 0 {
		req.TargetWeight = 90
	}

	profile := &models.UserProfile{
		ID:            uuid.NewString(),
		Username:      req.Username,
		StartWeight:   req.StartWeight,
		CurrentWeight: req.StartWeight,
		TargetWeight:  req.TargetWeight,
		TargetDate:    req.TargetDate,
		StartDate:     time.Now(),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UserProfile{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		for _, st := range models.DefaultStreakTypes {
			streak := models.Streak{
				ID:         uuid.NewString(),
				UserID:     profile.ID,
				StreakType: st,
			}
			if err := tx.Create(&streak).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎮 Profile created: %s (%s) start=%.1fkg target=%.1fkg",
		profile.Username, profile.ID, profile.StartWeight, profile.TargetWeight)
	return profile, nil
}

// GetProfile loads one profile by ID.
func (s *ProgressionService) GetProfile(userID string) (*models.UserProfile, error) {
	return getProfile(s.DB, userID)
}

func getProfile(tx *gorm.DB, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := tx.Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// AwardXP increments the ledger inside the caller's transaction and reports
// any level transition. The amount must be non-negative: the ledger is never
// decremented, corrections arrive as new events.
func (s *ProgressionService) AwardXP(tx *gorm.DB, userID string, xp int64, reason string) (*XPAward, error) {
	if xp < 0 {
		return nil, ErrNegativeXP
	}

	profile, err := getProfile(tx, userID)
	if err != nil {
		return nil, err
	}

	before, err := LevelFor(profile.TotalXP)
	if err != nil {
		return nil, err
	}

	newTotal := profile.TotalXP + xp
	after, err := LevelFor(newTotal)
	if err != nil {
		return nil, err
	}

	if err := tx.Model(&models.UserProfile{}).Where("id = ?", userID).
		Update("total_xp", newTotal).Error; err != nil {
		return nil, err
	}

	award := &XPAward{
		TotalXP:   newTotal,
		LeveledUp: after.Level > before.Level,
		NewLevel:  after.Level,
		NewTitle:  after.Title,
	}
	if award.LeveledUp {
		log.Printf("🎮 Level up: user=%s → lvl %d %q (total XP %d, reason: %s)",
			userID, after.Level, after.Title, newTotal, reason)
	}
	return award, nil
}

// ProgressSummary is the read model for the progress endpoint.
type ProgressSummary struct {
	UserID      string `json:"user_id"`
	TotalXP     int64  `json:"total_xp"`
	Level       int    `json:"level"`
	Title       string `json:"title"`
	XPIntoLevel int64  `json:"xp_into_level"`
	XPToNext    int64  `json:"xp_to_next_level"`
}

// Progress derives the current level state for one user.
func (s *ProgressionService) Progress(userID string) (*ProgressSummary, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	info, err := LevelFor(profile.TotalXP)
	if err != nil {
		return nil, err
	}
	return &ProgressSummary{
		UserID:      profile.ID,
		TotalXP:     profile.TotalXP,
		Level:       info.Level,
		Title:       info.Title,
		XPIntoLevel: info.XPIntoLevel,
		XPToNext:    info.XPToNext,
	}, nil
}
