package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ForumHub/ForumHub-backend/internal/ai"
	"github.com/ForumHub/ForumHub-backend/internal/api"
	"github.com/ForumHub/ForumHub-backend/internal/cache"
	"github.com/ForumHub/ForumHub-backend/internal/config"
	"github.com/ForumHub/ForumHub-backend/internal/database"
	"github.com/ForumHub/ForumHub-backend/internal/models"
	"github.com/ForumHub/ForumHub-backend/internal/scheduler"
)

func main() {
	// load config
	cfg, err := config.LoadConfig("internal/config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// initialize database
	if err := database.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// execute database migration
	if err := database.Migrate(
		&models.User{},
		&models.Topic{},
		&models.Comment{},
		&models.Category{},
		&models.Tag{},
		&models.TopicTag{},
		&models.TopicLike{},
		&models.CommentLike{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// redis 不可用时降级运行：登出改为仅客户端丢弃令牌
	if cfg.Redis.Address != "" {
		if err := cache.Initialize(cfg.Redis); err != nil {
			log.Printf("Warning: Failed to connect redis, token revocation disabled: %v", err)
		} else {
			defer cache.GetRedisCache().Close()
		}
	}

	// initialize AI tag suggestion service
	var aiService *ai.AIService
	if cfg.AI.Enabled {
		aiService, err = ai.NewAIService(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize AI service: %v", err)
		}
	}

	// initialize hotness scheduler
	hotnessScheduler := scheduler.NewHotnessScheduler()
	if err := hotnessScheduler.Start(); err != nil {
		log.Fatalf("Failed to start hotness scheduler: %v", err)
	}
	defer hotnessScheduler.Stop()

	// set up routes
	router := api.SetupRoutes(aiService)

	// create http server
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		hotnessScheduler.Stop()

		if err := server.Close(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server is starting on %s", cfg.Server.Address)
	log.Println("Hotness scheduler is running (counters and hot flags refresh every 30 minutes)")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}
