package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iyhunko/shop-with-sqs/internal/config"
	"github.com/iyhunko/shop-with-sqs/internal/logger"
	"github.com/iyhunko/shop-with-sqs/internal/metrics"
	"github.com/iyhunko/shop-with-sqs/internal/model"
	"github.com/iyhunko/shop-with-sqs/internal/notification"
	"github.com/iyhunko/shop-with-sqs/internal/rabbitmq"
	sqspkg "github.com/iyhunko/shop-with-sqs/internal/sqs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.LoadNotificationFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer, err := notification.NewSMTPMailer(conf.Mail)
	handleErr("creating mailer", err)
	dispatcher := notification.NewDispatcher(mailer, conf.Mail.ShopName)

	consume, closeBroker, err := openConsumer(ctx, conf.Broker, dispatcher.Handle)
	handleErr("connecting to broker", err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consume(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Consumer error", slog.Any("err", err))
		}
	}()

	metricsServer := metrics.StartMetricsServer(conf.MetricsServer.Port)

	slog.Info("Notification service started. Listening for messages...", slog.String("broker", conf.Broker.Kind))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
	case <-done:
	}
	slog.Info("Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		slog.Warn("consumer did not stop in time")
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("err", err))
	}
	if err := closeBroker(); err != nil {
		slog.Error("broker close failed", slog.Any("err", err))
	}
}

func openConsumer(ctx context.Context, conf config.Broker, handler func(context.Context, model.OrderNotification) error) (func(context.Context) error, func() error, error) {
	if conf.Kind == config.BrokerRabbitMQ {
		broker, err := rabbitmq.NewBroker(conf.RabbitMQ)
		if err != nil {
			return nil, nil, err
		}
		return func(ctx context.Context) error { return broker.Consume(ctx, handler) }, broker.Close, nil
	}

	client, err := sqspkg.NewClient(ctx, conf.AWS)
	if err != nil {
		return nil, nil, err
	}
	consumer := sqspkg.NewConsumer(client, conf.AWS.SQSQueueURL, handler)
	return consumer.Start, func() error { return nil }, nil
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
