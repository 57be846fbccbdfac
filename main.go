package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"weight-gain-rpg/handlers"
	"weight-gain-rpg/models"
	"weight-gain-rpg/services"
	"weight-gain-rpg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // progress photos
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	// The five mutable tables plus the snapshot history. Reference catalogs
	// (levels, quests, achievements) are process data, never migrated.
	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.TrackedEvent{},
		&models.Streak{},
		&models.QuestProgress{},
		&models.UserAchievement{},
		&models.StatsSnapshot{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	location := time.Local
	if tz := os.Getenv("ENGINE_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Fatalf("invalid ENGINE_TIMEZONE %q: %v", tz, err)
		}
		location = loc
	}

	locks := services.NewUserLocks()
	progressionService := services.NewProgressionService(db)
	streakService := services.NewStreakService(db)
	questService := services.NewQuestService(db, progressionService, streakService, locks)
	achievementService := services.NewAchievementService(db, progressionService)
	eventService := services.NewEventService(db, progressionService, streakService, questService, achievementService, locks)
	eventService.Location = location
	powerLevelService := services.NewPowerLevelService(db, streakService)

	powerLevelService.StartSnapshotScheduler()

	handlers.SetupTrackingRoutes(app, eventService, progressionService)
	handlers.SetupProgressionRoutes(app, eventService, progressionService, streakService, questService, achievementService, powerLevelService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Daily stats snapshot scheduler running")
	log.Printf("✅ Engine calendar: %s", location)
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
