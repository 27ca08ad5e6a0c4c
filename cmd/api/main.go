package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sanmiguel-edu/colegio-api/internal/config"
	"github.com/sanmiguel-edu/colegio-api/internal/database"
	"github.com/sanmiguel-edu/colegio-api/internal/handler"
	"github.com/sanmiguel-edu/colegio-api/internal/middleware"
	"github.com/sanmiguel-edu/colegio-api/internal/models"
	"github.com/sanmiguel-edu/colegio-api/internal/repository"
	"github.com/sanmiguel-edu/colegio-api/internal/router"
	"github.com/sanmiguel-edu/colegio-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.GradeLevel{},
		&models.Section{},
		&models.Student{},
		&models.Subject{},
		&models.Course{},
		&models.Trimester{},
		&models.Task{},
		&models.GradeEntry{},
		&models.PromotionRun{},
		&models.PromotionAuditRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	gradebookRepo := repository.NewGradebookRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	aggregator := service.NewGradeAggregator(gradebookRepo, studentRepo, logger)
	promotionService := service.NewPromotionService(studentRepo, catalogRepo, promotionRepo, aggregator, redisClient, validate, cfg.DefaultMinPassing, logger)
	reportCardService := service.NewReportCardService(studentRepo, catalogRepo, aggregator, redisClient, cfg.StatusCacheTTL, logger)
	auditService := service.NewAuditService(auditRepo, logger)

	promotionHandler := handler.NewPromotionHandler(promotionService, logger)
	auditHandler := handler.NewAuditHandler(auditService, logger)
	reportCardHandler := handler.NewReportCardHandler(reportCardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		PromotionHandler:  promotionHandler,
		AuditHandler:      auditHandler,
		ReportCardHandler: reportCardHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
