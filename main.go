package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"civicdesk/config"
	"civicdesk/internal/handler"
	"civicdesk/internal/messaging"
	"civicdesk/internal/middleware"
	"civicdesk/internal/repository"
	"civicdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Initialize repositories
	issueRepo := repository.NewIssueRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	// Connect to RabbitMQ and start the event pipeline. An empty host disables
	// messaging; issue mutations still succeed without it.
	var outbox service.OutboxStore
	if cfg.RabbitMQ.Host != "" {
		rmq, err := messaging.NewRabbitMQ(
			cfg.RabbitMQ.Host,
			cfg.RabbitMQ.Port,
			cfg.RabbitMQ.User,
			cfg.RabbitMQ.Password,
		)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer rmq.Close()

		worker := messaging.NewOutboxWorker(outboxRepo, rmq)
		worker.Start()
		defer worker.Stop()

		consumer := messaging.NewEventConsumer(rmq, notificationRepo)
		consumer.Start()
		defer consumer.Stop()

		outbox = outboxRepo
	} else {
		log.Println("Messaging disabled (no RabbitMQ host configured)")
	}

	// Initialize services
	issueService := service.NewIssueService(issueRepo, assignmentRepo, outbox)
	authService := service.NewAuthService(userRepo, cfg.JWT)
	commentService := service.NewCommentService(commentRepo, issueRepo)
	analyticsService := service.NewAnalyticsService(issueRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	// Initialize handlers
	issueHandler := handler.NewIssueHandler(issueService)
	authHandler := handler.NewAuthHandler(authService)
	commentHandler := handler.NewCommentHandler(commentService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Setup Gin
	r := gin.Default()

	r.GET("/health", issueHandler.Health)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.Auth(cfg.JWT.Secret), authHandler.Me)
	}

	authRequired := middleware.Auth(cfg.JWT.Secret)

	createMiddleware := []gin.HandlerFunc{authRequired}
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis")
		createMiddleware = append(createMiddleware, middleware.IssueRateLimit(redisClient, cfg.RateLimit.IssuesPerDay))
	} else {
		log.Println("Rate limiting disabled (no Redis address configured)")
	}

	issues := r.Group("/issues")
	{
		issues.POST("", append(createMiddleware, issueHandler.CreateIssue)...)
		issues.GET("", issueHandler.ListIssues)
		issues.GET("/:id", issueHandler.GetIssue)
		issues.PATCH("/:id", authRequired, issueHandler.UpdateIssue)
		issues.DELETE("/:id", authRequired, issueHandler.DeleteIssue)
		issues.POST("/:id/comments", authRequired, commentHandler.AddComment)
		issues.GET("/:id/comments", authRequired, commentHandler.ListComments)
	}

	r.GET("/analytics", analyticsHandler.GetAnalytics)

	notifications := r.Group("/notifications", authRequired)
	{
		notifications.GET("", notificationHandler.GetNotifications)
		notifications.PATCH("/:id/read", notificationHandler.MarkAsRead)
		notifications.PATCH("/read-all", notificationHandler.MarkAllAsRead)
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("civicdesk starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
