package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/fableforge/fable/config"
	"github.com/fableforge/fable/internal/api/middleware"
	"github.com/fableforge/fable/internal/db"
	"github.com/fableforge/fable/internal/db/repos"
	"github.com/fableforge/fable/internal/generator"
	"github.com/fableforge/fable/internal/logger"
	"github.com/fableforge/fable/internal/services"
	"github.com/fableforge/fable/pkg/api/v1/handlers"
	"github.com/fableforge/fable/pkg/api/v1/routes"
)

func main() {
	// Load .env file if present; env vars win otherwise
	_ = godotenv.Load()

	logger.InitializeAndConfigure()

	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", db.DefaultHost),
		User:     config.GetEnv("DB_USER", db.DefaultUser),
		Password: config.GetEnv("DB_PASSWORD", db.DefaultPassword),
		DBName:   config.GetEnv("DB_NAME", db.DefaultDBName),
		Port:     config.GetEnvInt("DB_PORT", db.DefaultPort),
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	jobRepo := repos.NewJobRepository(database)
	storyRepo := repos.NewStoryRepository(database)

	gen, err := generator.NewOpenAI(
		os.Getenv("OPENAI_API_KEY"),
		config.GetEnv("OPENAI_MODEL", generator.DefaultModel),
		storyRepo,
	)
	if err != nil {
		logger.Fatalf("Failed to create story generator: %v", err)
	}

	dispatcher := services.NewDispatcher(config.GetEnvInt("JOB_QUEUE_SIZE", services.DefaultQueueSize))
	jobService := services.NewJobService(database, jobRepo, gen, dispatcher)
	storyService := services.NewStoryService(storyRepo)

	// Worker pool for background story generation
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	dispatcher.Start(ctx, &wg, config.GetEnvInt("JOB_WORKERS", 4), jobService)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})
	app.Use(recover.New())
	app.Use(middleware.Logger())

	routes.RegisterRoutes(app,
		handlers.NewStoryHandler(jobService, storyService),
		handlers.NewJobHandler(jobService),
	)

	// Shut the workers down when the process is asked to stop
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("Shutting down...")
		cancel()
		wg.Wait()
		_ = app.Shutdown()
	}()

	port := config.GetEnv("PORT", routes.DefaultPort)
	if err := app.Listen(":" + port); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
