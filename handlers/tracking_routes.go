// handlers/tracking_routes.go
package handlers

import (
	"errors"
	"fmt"
	"time"

	"weight-gain-rpg/middleware"
	"weight-gain-rpg/models"
	"weight-gain-rpg/services"
	"weight-gain-rpg/utils"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps engine rejections onto HTTP statuses. Validation
// failures happen before any mutation, so a 4xx here means nothing was
// written.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidPayload),
		errors.Is(err, services.ErrUnknownEventType),
		errors.Is(err, services.ErrFutureTimestamp),
		errors.Is(err, services.ErrNegativeXP),
		errors.Is(err, services.ErrUnknownQuest):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrOutOfOrderActivity),
		errors.Is(err, services.ErrUsernameTaken):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrAchievementNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

func errJSON(c *fiber.Ctx, err error, msg string) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}

func recordResponse(c *fiber.Ctx, result *services.RecordResult, msg string) error {
	return c.JSON(fiber.Map{
		"message":                     fmt.Sprintf("%s +%d XP!", msg, result.XPAwarded),
		"xp_awarded":                  result.XPAwarded,
		"new_total_xp":                result.NewTotalXP,
		"leveled_up":                  result.LeveledUp,
		"new_level":                   result.NewLevel,
		"new_title":                   result.NewTitle,
		"completed_quests":            result.CompletedQuests,
		"newly_unlocked_achievements": result.NewAchievements,
	})
}

// SetupTrackingRoutes wires profile bootstrap and the four event-recording
// endpoints. Everything under /s/ expects gateway-forwarded user context.
func SetupTrackingRoutes(app *fiber.App, events *services.EventService, progression *services.ProgressionService) {
	app.Post("/init", func(c *fiber.Ctx) error {
		var req services.CreateProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		profile, err := progression.CreateProfile(req)
		if err != nil {
			return errJSON(c, err, "failed to create profile")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"user_id": profile.ID,
			"message": fmt.Sprintf("Welcome, %s! Your journey begins! 🎮", profile.Username),
		})
	})

	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Post("/weight", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Weight   *float64   `json:"weight"`
			Notes    string     `json:"notes"`
			LoggedAt *time.Time `json:"logged_at"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		evReq := services.EventRequest{
			UserID:  userID,
			Type:    models.EventWeightLog,
			Payload: models.EventPayload{Weight: req.Weight, Notes: req.Notes},
		}
		if req.LoggedAt != nil {
			evReq.Timestamp = *req.LoggedAt
		}
		result, err := events.RecordEvent(evReq)
		if err != nil {
			return errJSON(c, err, "failed to log weight")
		}
		return recordResponse(c, result, "Weight logged! 💪")
	})

	securedGroup.Post("/calories", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Calories       *int       `json:"calories"`
			TargetCalories *int       `json:"target_calories"`
			LoggedAt       *time.Time `json:"logged_at"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		evReq := services.EventRequest{
			UserID:  userID,
			Type:    models.EventCalorieLog,
			Payload: models.EventPayload{Calories: req.Calories, TargetCalories: req.TargetCalories},
		}
		if req.LoggedAt != nil {
			evReq.Timestamp = *req.LoggedAt
		}
		result, err := events.RecordEvent(evReq)
		if err != nil {
			return errJSON(c, err, "failed to log calories")
		}
		return recordResponse(c, result, "Calories logged! 🍔")
	})

	securedGroup.Post("/journal", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var req struct {
			Text string `json:"entry_text"`
			Mood string `json:"mood"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Mood == "" {
			req.Mood = "neutral"
		}

		result, err := events.RecordEvent(services.EventRequest{
			UserID:  userID,
			Type:    models.EventJournal,
			Payload: models.EventPayload{Text: req.Text, Mood: req.Mood},
		})
		if err != nil {
			return errJSON(c, err, "failed to save journal entry")
		}
		return recordResponse(c, result, "Journal entry saved! 📝")
	})

	securedGroup.Post("/photo", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		caption := c.FormValue("caption")

		fileHeader, err := c.FormFile("photo")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no photo provided", "cause": err.Error()})
		}

		key := utils.PhotoObjectKey(userID, caption, time.Now())
		url, err := utils.UploadProgressPhoto(fileHeader, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "photo upload failed", "cause": err.Error()})
		}

		result, err := events.RecordEvent(services.EventRequest{
			UserID:  userID,
			Type:    models.EventPhoto,
			Payload: models.EventPayload{PhotoURL: url, Caption: caption},
		})
		if err != nil {
			return errJSON(c, err, "failed to record photo")
		}
		return recordResponse(c, result, "Photo uploaded! 📸")
	})

	securedGroup.Get("/weight/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		logs, err := events.History(userID, models.EventWeightLog, c.QueryInt("limit", 100))
		if err != nil {
			return errJSON(c, err, "failed to get weight history")
		}
		return c.JSON(fiber.Map{"logs": logs})
	})

	securedGroup.Get("/photos", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		photos, err := events.History(userID, models.EventPhoto, c.QueryInt("limit", 100))
		if err != nil {
			return errJSON(c, err, "failed to get photos")
		}
		return c.JSON(fiber.Map{"photos": photos})
	})
}
