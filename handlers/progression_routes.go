// handlers/progression_routes.go
package handlers

import (
	"weight-gain-rpg/middleware"
	"weight-gain-rpg/services"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressionRoutes wires the read side of the engine plus achievement
// bookkeeping and the admin XP grant.
func SetupProgressionRoutes(app *fiber.App,
	events *services.EventService,
	progression *services.ProgressionService,
	streaks *services.StreakService,
	quests *services.QuestService,
	achievements *services.AchievementService,
	power *services.PowerLevelService) {

	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		summary, err := progression.Progress(userID)
		if err != nil {
			return errJSON(c, err, "failed to get progress")
		}
		return c.JSON(summary)
	})

	securedGroup.Get("/streaks", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		all, err := streaks.Get(userID)
		if err != nil {
			return errJSON(c, err, "failed to get streaks")
		}
		return c.JSON(fiber.Map{"streaks": all})
	})

	securedGroup.Get("/quests", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		date := c.Query("date", events.Today())
		statuses, err := quests.DailyQuests(userID, date)
		if err != nil {
			return errJSON(c, err, "failed to get quests")
		}
		return c.JSON(fiber.Map{"date": date, "quests": statuses})
	})

	securedGroup.Get("/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		if c.QueryBool("unseen", false) {
			unseen, err := achievements.List(userID, true)
			if err != nil {
				return errJSON(c, err, "failed to get achievements")
			}
			return c.JSON(fiber.Map{"achievements": unseen})
		}

		grouped, err := achievements.ListGrouped(userID)
		if err != nil {
			return errJSON(c, err, "failed to get achievements")
		}
		return c.JSON(fiber.Map{"achievements": grouped})
	})

	securedGroup.Post("/achievements/:key/seen", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := achievements.MarkSeen(userID, c.Params("key")); err != nil {
			return errJSON(c, err, "failed to mark achievement seen")
		}
		return c.JSON(fiber.Map{"message": "marked seen"})
	})

	securedGroup.Get("/leaderboard", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		milestones, err := events.Milestones(userID, c.QueryInt("limit", 10))
		if err != nil {
			return errJSON(c, err, "failed to get milestones")
		}
		return c.JSON(fiber.Map{"milestones": milestones})
	})

	securedGroup.Get("/stats", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		stats, err := power.Compute(userID)
		if err != nil {
			return errJSON(c, err, "failed to compute stats")
		}
		return c.JSON(stats)
	})

	securedGroup.Get("/stats/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		snaps, err := power.SnapshotHistory(userID, c.QueryInt("limit", 30))
		if err != nil {
			return errJSON(c, err, "failed to get snapshot history")
		}
		return c.JSON(fiber.Map{"snapshots": snaps})
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
			XP     int64  `json:"xp" validate:"required,min=1"`
			Reason string `json:"reason" validate:"max=255"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		award, newly, err := events.GrantXP(req.UserID, req.XP, req.Reason)
		if err != nil {
			return errJSON(c, err, "XP award failed")
		}
		return c.JSON(fiber.Map{
			"message":                     "XP granted successfully",
			"user_id":                     req.UserID,
			"xp":                          req.XP,
			"total_xp":                    award.TotalXP,
			"leveled_up":                  award.LeveledUp,
			"newly_unlocked_achievements": newly,
		})
	})
}
