package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"courier-booking/config"
	"courier-booking/database"
	"courier-booking/events"
	"courier-booking/logger"
	"courier-booking/repository"
	"courier-booking/routes"
	"courier-booking/services/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warning("KAFKA_BROKERS not set, shipment events will only be logged")
		return events.LogPublisher{}
	}
	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		logger.Error("Failed to connect to kafka, falling back to log publisher", err)
		return events.LogPublisher{}
	}
	logger.Success("Publishing shipment events to kafka topic " + cfg.KafkaTopic)
	return publisher
}

func newNotifier(cfg *config.Config) events.Notifier {
	if cfg.RabbitMQURL == "" {
		logger.Warning("RABBITMQ_URL not set, notifications will only be logged")
		return events.LogNotifier{}
	}
	notifier, err := events.NewRabbitNotifier(cfg.RabbitMQURL, cfg.NotificationQueue)
	if err != nil {
		logger.Error("Failed to connect to rabbitmq, falling back to log notifier", err)
		return events.LogNotifier{}
	}
	logger.Success("Queueing notifications on " + cfg.NotificationQueue)
	return notifier
}

func main() {
	cfg := config.Load()

	logFile, err := logger.Setup(cfg.LogDir)
	if err != nil {
		logger.Error("Failed to set up log file, logging to stdout only", err)
	} else {
		defer logFile.Close()
	}

	if cfg.JWTSecret == config.DefaultJWTSecret {
		if cfg.IsProduction() {
			logger.Fatal("JWT_SECRET must be set in production")
		}
		logger.Warning("JWT_SECRET not set, using the development default")
	}

	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       10 * 1024 * 1024, // QR uploads are capped at 5MB
	})

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return
	}

	asyncLogger := logger.NewAsyncLogger(db)
	go asyncLogger.ProcessLog()

	publisher := newPublisher(cfg)
	notifier := newNotifier(cfg)

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Users:        repository.NewGormUserRepository(db),
		Shipments:    repository.NewGormShipmentRepository(db),
		QRCodes:      repository.NewGormQRCodeRepository(db),
		Hasher:       auth.NewPasswordHasher(auth.DefaultHashParams),
		Tokens:       auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Publisher:    publisher,
		Notifier:     notifier,
		AsyncLogger:  asyncLogger,
		UploadDir:    cfg.UploadDir,
		SecureCookie: cfg.IsProduction(),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", err)
		}
	}()

	logger.Success("Server is running on ip: " + cfg.AppHost + " port: " + cfg.AppPort +
		"\n\t\t\t\t\t\t******************************************************************************************\n")
	if err := app.Listen(cfg.Addr()); err != nil {
		logger.Error("Server stopped", err)
	}

	asyncLogger.Close()
	if err := publisher.Close(); err != nil {
		logger.Error("Failed to close event publisher", err)
	}
	if err := notifier.Close(); err != nil {
		logger.Error("Failed to close notifier", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
