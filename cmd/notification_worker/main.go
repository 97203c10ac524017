package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/config"
	pginfra "github.com/oksasatya/vidtube-api/internal/infrastructure/postgres"
	"github.com/oksasatya/vidtube-api/pkg/events"
	"github.com/oksasatya/vidtube-api/pkg/helpers"
	"github.com/oksasatya/vidtube-api/pkg/mailer"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notifier", cfg.Env, cfg.LogLevel)
	if cfg.RabbitMQURL == "" {
		logger.Fatal("RABBITMQ_URL not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.WithError(err).Fatal("amqp dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.WithError(err).Fatal("amqp channel")
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	if err := helpers.BindQueue(ch, cfg.EventsExchange, cfg.NotifyQueue, events.UserRegistered, events.VideoPublished); err != nil {
		logger.WithError(err).Fatal("queue setup")
	}
	msgs, err := ch.Consume(cfg.NotifyQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	n := &notifier{
		cfg:    cfg,
		users:  pginfra.NewUserRepository(pool),
		subs:   pginfra.NewSubscriptionRepository(pool),
		sender: mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		logger: logger,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			c, cancel := context.WithTimeout(ctx, 2*time.Minute)
			err := n.handle(c, msg.Body)
			cancel()
			switch {
			case err == nil:
				_ = msg.Ack(false)
			case errors.Is(err, errDrop):
				helpers.LogError(logger, "dropping message", err, logrus.Fields{"routing_key": msg.RoutingKey})
				_ = msg.Nack(false, false)
			default:
				helpers.LogWarn(logger, "requeueing message", err, logrus.Fields{"routing_key": msg.RoutingKey})
				_ = msg.Nack(false, true)
			}
		}
	}()

	helpers.LogInfo(logger, "notification worker listening", logrus.Fields{"queue": cfg.NotifyQueue, "exchange": cfg.EventsExchange})
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		_ = ch.Close()
	case <-done:
		logger.Warn("delivery channel closed")
		return
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}
