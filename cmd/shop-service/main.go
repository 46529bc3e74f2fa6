package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/shop-with-sqs/internal/config"
	httpAPI "github.com/iyhunko/shop-with-sqs/internal/http"
	"github.com/iyhunko/shop-with-sqs/internal/http/controller"
	"github.com/iyhunko/shop-with-sqs/internal/logger"
	"github.com/iyhunko/shop-with-sqs/internal/metrics"
	"github.com/iyhunko/shop-with-sqs/internal/rabbitmq"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
	"github.com/iyhunko/shop-with-sqs/internal/repository/mongo"
	"github.com/iyhunko/shop-with-sqs/internal/repository/sql"
	"github.com/iyhunko/shop-with-sqs/internal/service"
	sqspkg "github.com/iyhunko/shop-with-sqs/internal/sqs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)
	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, conf.Database)
	handleErr("starting database", err)

	publisher, closePublisher, err := openPublisher(ctx, conf.Broker)
	handleErr("connecting to broker", err)

	// Orders are updated together with their outbox event; the worker ships events to the broker.
	outboxWorker := service.NewOutboxWorker(store.Events, publisher, conf.OutboxInterval)
	go outboxWorker.Start(ctx)

	router := httpAPI.InitRouter(gin.New(), httpAPI.Controllers{
		Base:     controller.New(store.Ping),
		Products: controller.NewProductController(service.NewProductService(store.Products)),
		Orders:   controller.NewOrderController(service.NewOrderService(store.Orders, store.Transactions)),
		Messages: controller.NewMessageController(service.NewMessageService(store.Messages)),
	})

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("HTTP server starting", slog.String("port", conf.HTTPServer.Port), slog.String("db_driver", conf.Database.Driver), slog.String("broker", conf.Broker.Kind))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metricsServer := metrics.StartMetricsServer(conf.MetricsServer.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", slog.Any("err", err))
	}
	outboxWorker.Stop()
	cancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("err", err))
	}
	if err := closePublisher(); err != nil {
		slog.Error("broker close failed", slog.Any("err", err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		slog.Error("database close failed", slog.Any("err", err))
	}
}

func openStore(ctx context.Context, conf config.DB) (*repository.Store, error) {
	if conf.Driver == config.DriverMongo {
		storage, err := mongo.New(ctx, conf.Mongo)
		if err != nil {
			return nil, err
		}
		if err := storage.RequireReplicaSet(ctx); err != nil {
			_ = storage.Close(context.Background())
			return nil, err
		}
		if err := storage.CreateIndexes(ctx); err != nil {
			slog.Warn("failed to create indexes", slog.Any("err", err))
		}
		return mongo.NewStore(storage), nil
	}

	db, err := sql.StartDB(ctx, conf)
	if err != nil {
		return nil, err
	}
	return sql.NewStore(db), nil
}

func openPublisher(ctx context.Context, conf config.Broker) (service.NotificationPublisher, func() error, error) {
	if conf.Kind == config.BrokerRabbitMQ {
		broker, err := rabbitmq.NewBroker(conf.RabbitMQ)
		if err != nil {
			return nil, nil, err
		}
		return broker, broker.Close, nil
	}

	client, err := sqspkg.NewClient(ctx, conf.AWS)
	if err != nil {
		return nil, nil, err
	}
	return sqspkg.NewPublisher(client, conf.AWS.SQSQueueURL), func() error { return nil }, nil
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
