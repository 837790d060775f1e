// The worker consumes mutation events from RabbitMQ and delivers
// notifications for users who have them enabled. Delivery here is a log
// line; a push or email sender would slot in behind the same loop.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okozlov/finflow/internal/events"
	"github.com/okozlov/finflow/internal/infra/postgres"
	"github.com/okozlov/finflow/internal/logger"
)

func main() {
	var (
		dsn     = flag.String("db", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
		amqpURL = flag.String("amqp", os.Getenv("AMQP_URL"), "RabbitMQ URL (or set AMQP_URL)")
	)
	flag.Parse()

	log := logger.New()

	if *dsn == "" {
		log.Fatal().Msg("No database configured; set DATABASE_URL or -db")
	}
	if *amqpURL == "" {
		log.Fatal().Msg("No AMQP URL configured; set AMQP_URL or -amqp")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := postgres.New(ctx, *dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close()

	consumer, err := events.NewRabbitMQConsumer(*amqpURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
	}
	defer consumer.Close()

	handler := func(ctx context.Context, event events.Event) error {
		settings, err := store.GetUserSettings(ctx, event.UserID)
		if err != nil {
			log.Error().Err(err).Str("user_id", event.UserID).Msg("Failed to load settings")
			return err
		}

		if !settings.Notifications {
			log.Debug().
				Str("type", event.Type).
				Str("user_id", event.UserID).
				Msg("Notification suppressed by user settings")
			return nil
		}

		log.Info().
			Str("type", event.Type).
			Str("user_id", event.UserID).
			Str("entity_id", event.EntityID).
			Msg(notificationMessage(event))
		return nil
	}

	go func() {
		log.Info().Msg("Worker started, waiting for events...")
		if err := consumer.Consume(ctx, handler); err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("Consumer stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker...")
	cancel()
	log.Info().Msg("Worker stopped")
}

func notificationMessage(event events.Event) string {
	switch event.Type {
	case events.TransactionCreated:
		return "Transaction recorded"
	case events.TransactionDeleted:
		return "Transaction removed"
	case events.SubscriptionCreated:
		return "Subscription added"
	case events.SubscriptionDeleted:
		return "Subscription removed"
	case events.ExportCompleted:
		return "Your CSV export is ready"
	default:
		return "Account activity"
	}
}
