package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Airlectric/E-commerce-notifications-microservice/broker"
	"github.com/Airlectric/E-commerce-notifications-microservice/config"
	"github.com/Airlectric/E-commerce-notifications-microservice/consumer"
	"github.com/Airlectric/E-commerce-notifications-microservice/controllers"
	"github.com/Airlectric/E-commerce-notifications-microservice/database"
	"github.com/Airlectric/E-commerce-notifications-microservice/models"
	"github.com/Airlectric/E-commerce-notifications-microservice/repository"
	"github.com/Airlectric/E-commerce-notifications-microservice/routes"
	"github.com/Airlectric/E-commerce-notifications-microservice/sender"
	"github.com/Airlectric/E-commerce-notifications-microservice/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg := config.Load()

	// Delivery log store
	logDB, err := database.ConnectPostgres(logger, &models.NotificationLog{})
	if err != nil {
		logger.Fatal("Postgres connection failed", zap.Error(err))
	}

	// User projection store
	mongoClient, userDB, err := database.ConnectMongo(logger, cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		logger.Fatal("MongoDB connection failed", zap.Error(err))
	}

	// Email transport
	emailSender, err := sender.NewSMTPSender()
	if err != nil {
		logger.Fatal("Failed to init SMTP sender", zap.Error(err))
	}

	// Broker
	mq, err := broker.Connect(logger, cfg.AMQPURL)
	if err != nil {
		logger.Fatal("AMQP connection failed", zap.Error(err))
	}
	if err := mq.DeclareQueues(
		models.QueueProductEvents,
		models.QueueOrderEvents,
		models.QueueAuthEvents,
		models.QueueUserDataSync,
	); err != nil {
		logger.Fatal("Queue declaration failed", zap.Error(err))
	}

	// Dependency injection
	userRepo := repository.NewUserRepository(userDB)
	notificationRepo := repository.NewNotificationRepository(logDB)
	dispatcher := services.NewDispatcher(notificationRepo, emailSender, logger)
	router := services.NewRouter(userRepo, dispatcher, logger)
	notificationController := controllers.NewNotificationController(dispatcher, logger)

	// Consumers
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	queueConsumer := consumer.New(mq.Channel, router, logger, cfg.MaxInFlight)
	if err := queueConsumer.Start(consumerCtx); err != nil {
		logger.Fatal("Failed to start queue consumer", zap.Error(err))
	}

	// HTTP read API
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	})

	routes.RegisterRoutes(r, notificationController)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Notifications microservice started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	consumerCancel()
	queueConsumer.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := mq.Close(); err != nil {
		logger.Error("AMQP close error", zap.Error(err))
	}
	if err := database.CloseMongo(mongoClient); err != nil {
		logger.Error("MongoDB close error", zap.Error(err))
	}
	if err := database.ClosePostgres(logDB); err != nil {
		logger.Error("Postgres close error", zap.Error(err))
	}

	logger.Info("Notifications microservice stopped gracefully")
}
