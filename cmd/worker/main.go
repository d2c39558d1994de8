package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/vshuttle/config"
	"github.com/Domenick1991/vshuttle/internal/kafka"
	"github.com/Domenick1991/vshuttle/internal/notify"
	"github.com/Domenick1991/vshuttle/pkg/logger"
	kafkaGo "github.com/segmentio/kafka-go"
)

// The worker drains the notifications topic and forwards booking events to
// the rider-facing notifier.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg := logger.New("vshuttle-worker", cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	notifier := notify.NewNotifier(logg)

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.BookingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logg.WarnContext(ctx, "failed to decode booking event", slog.String("error", err.Error()))
			return nil
		}
		return notifier.Send(ctx, event)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logg.Error("consumer stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
