package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gadget-rental/config"
	"gadget-rental/internal/api"
	"gadget-rental/internal/broker"
	"gadget-rental/internal/notify"
	"gadget-rental/internal/redisclient"
	"gadget-rental/internal/rental"
	"gadget-rental/internal/service"
	"gadget-rental/internal/store"
	"gadget-rental/internal/util"
	"gadget-rental/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "gadget-rental",
	Short: "Gadget rental storefront and back-office API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the email worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func settingsFrom(cfg *config.Config) service.Settings {
	b := cfg.Business
	return service.Settings{
		Policy: rental.Policy{
			DepositThreshold: b.DepositThreshold,
			DepositRate:      b.DepositRate,
			MaxRentalDays:    b.MaxRentalDays,
		},
		LowStockThreshold: b.LowStockThreshold,
		FeaturedLimit:     b.FeaturedLimit,
		SessionTTL:        b.SessionTTL,
		CheckoutLockTTL:   b.CheckoutLockTTL,
		IdempotencyTTL:    b.IdempotencyTTL,
		ReminderCooldown:  b.ReminderCooldown,
	}
}

func runServer() error {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting gadget rental service")

	tp, err := util.InitTracer("gadget-rental", cfg.Observ.JaegerEndpoint)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	logger.Info("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicRental)
	defer producer.Close()
	logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicRental))

	events := broker.NewEventPublisher(producer)
	settings := settingsFrom(cfg)

	cart := service.NewCartService(db, redisClient, settings)
	services := api.Services{
		Accounts:      service.NewAccountService(db, redisClient, events, settings),
		Catalog:       service.NewCatalogService(db, settings),
		Cart:          cart,
		Checkout:      service.NewCheckoutService(db, redisClient, events, settings),
		Payments:      service.NewPaymentService(db, events),
		Orders:        service.NewOrderService(db, events),
		Reviews:       service.NewReviewService(db),
		Wishlist:      service.NewWishlistService(db, cart),
		Notifications: service.NewNotificationService(db),
		Feedback:      service.NewFeedbackService(db),
		Admin:         service.NewAdminService(db, settings),
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicRental, cfg.Kafka.ConsumerGroup)
	emailWorker := worker.NewEmailWorker(consumer, notify.NewMailer(cfg.Business.Currency))
	go func() {
		if err := emailWorker.Start(workerCtx); err != nil {
			logger.Error("Email worker error", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(services, map[string]api.Pinger{
		"postgres": db,
		"redis":    redisClient,
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if err := emailWorker.Stop(); err != nil {
		logger.Error("Failed to stop email worker", zap.Error(err))
	}

	logger.Info("Server exited")
	return nil
}
