package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/vshuttle/api"
	"github.com/Domenick1991/vshuttle/config"
	"github.com/Domenick1991/vshuttle/internal/bootstrap"
	"github.com/Domenick1991/vshuttle/internal/cache"
	"github.com/Domenick1991/vshuttle/internal/catalog"
	"github.com/Domenick1991/vshuttle/internal/kafka"
	"github.com/Domenick1991/vshuttle/internal/metrics"
	"github.com/Domenick1991/vshuttle/internal/repository"
	"github.com/Domenick1991/vshuttle/internal/service/inventory"
	"github.com/Domenick1991/vshuttle/internal/service/ledger"
	"github.com/Domenick1991/vshuttle/internal/service/tracker"
	"github.com/Domenick1991/vshuttle/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg := logger.New("vshuttle-api", cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.AvailabilityCacheSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	collector := metrics.NewCollector()
	if cfg.Metrics.Address != "" {
		metricsSrv := collector.Serve(cfg.Metrics.Address)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	cat := catalog.New()
	riderRepo := repository.NewRiderRepository(pool)

	inventoryService := inventory.NewInventoryService(cat, riderRepo, redisCache,
		inventory.WithMetrics(collector),
	)
	ledgerService := ledger.NewLedgerService(
		riderRepo,
		inventoryService,
		cat,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.SeatHoldTTLSeconds)*time.Second,
		logg,
		ledger.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		ledger.WithMetrics(collector),
	)
	trackerService := tracker.NewTrackerService(cat, ledgerService,
		tracker.WithMetrics(collector),
	)

	handlers := bootstrap.Handlers{
		Routes:         api.NewRouteHandler(cat, inventoryService),
		Riders:         api.NewRiderHandler(riderRepo),
		Bookings:       api.NewBookingHandler(ledgerService, riderRepo),
		Tracking:       api.NewTrackingHandler(trackerService, riderRepo),
		TrackingStream: api.NewTrackingStreamHandler(trackerService, riderRepo, time.Duration(cfg.Tracking.PushIntervalSeconds)*time.Second),
	}

	if err := bootstrap.Run(ctx, cfg, logg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
