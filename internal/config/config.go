package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DebugModeEnv is the environment variable for debug mode.
	DebugModeEnv = "DEBUG_MODE"

	// DBDriverEnv selects the storage backend: "postgres" or "mongo".
	DBDriverEnv = "DB_DRIVER"

	// DBHostEnv is the environment variable for database host.
	DBHostEnv = "DB_HOST"

	// DBPortEnv is the environment variable for database port.
	DBPortEnv = "DB_PORT"

	// DBUserEnv is the environment variable for database user.
	DBUserEnv = "DB_USER"

	// DBPassEnv is the environment variable for database password.
	DBPassEnv = "DB_PASS"

	// DBNameEnv is the environment variable for database name.
	DBNameEnv = "DB_NAME"

	// MongoURIEnv is the MongoDB connection string.
	MongoURIEnv = "MONGODB_URI"

	// MongoDatabaseEnv is the MongoDB database name.
	MongoDatabaseEnv = "MONGODB_DATABASE"

	// HTTPServerPortEnv is the environment variable for HTTP server port.
	HTTPServerPortEnv = "HTTP_SERVER_PORT"

	// MetricsServerPortEnv is the environment variable for metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// EnvFilePath is the environment variable for .env file path (only for local/test environment).
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"

	// BrokerEnv selects the notification transport: "sqs" or "rabbitmq".
	BrokerEnv = "BROKER"

	// AWSRegionEnv is the environment variable for AWS region.
	AWSRegionEnv = "AWS_REGION"

	// AWSEndpointEnv is the environment variable for AWS endpoint.
	AWSEndpointEnv = "AWS_ENDPOINT"

	// SQSQueueURLEnv is the environment variable for SQS queue URL.
	SQSQueueURLEnv = "SQS_QUEUE_URL"

	// RabbitMQURLEnv is the AMQP connection URL.
	RabbitMQURLEnv = "RABBITMQ_URL"

	// RabbitMQQueueEnv is the queue carrying order notifications.
	RabbitMQQueueEnv = "RABBITMQ_QUEUE"

	// RabbitMQPrefetchEnv is the consumer prefetch count.
	RabbitMQPrefetchEnv = "RABBITMQ_PREFETCH_COUNT"

	// OutboxIntervalEnv is how often the outbox worker polls for pending events.
	OutboxIntervalEnv = "OUTBOX_INTERVAL"

	// SMTPHostEnv is the mail server host.
	SMTPHostEnv = "SMTP_HOST"

	// SMTPPortEnv is the mail server port.
	SMTPPortEnv = "SMTP_PORT"

	// EmailUserEnv is the mail account, also used as the sender address.
	EmailUserEnv = "EMAIL_USER"

	// EmailPassEnv is the mail account password.
	EmailPassEnv = "EMAIL_PASS"

	// ShopNameEnv is the shop name printed in emails.
	ShopNameEnv = "SHOP_NAME"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"

	BrokerSQS      = "sqs"
	BrokerRabbitMQ = "rabbitmq"

	defaultMongoDatabase    = "shop"
	defaultRabbitMQQueue    = "order-notifications"
	defaultRabbitMQPrefetch = 10
	defaultOutboxInterval   = 2 * time.Second
	defaultSMTPHost         = "smtp.gmail.com"
	defaultSMTPPort         = "587"
	defaultShopName         = "খিচুড়ি ঘর"
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")

	// ErrUnsupportedValue is returned when an enumerated setting holds an unknown value.
	ErrUnsupportedValue = errors.New("unsupported config value")
)

// Config represents the shop service configuration.
type Config struct {
	DebugMode      bool
	Database       DB
	HTTPServer     Server
	MetricsServer  Server
	Broker         Broker
	OutboxInterval time.Duration
}

// NotificationConfig represents the notification service configuration.
type NotificationConfig struct {
	DebugMode     bool
	MetricsServer Server
	Broker        Broker
	Mail          Mail
}

// Broker represents the notification transport settings.
type Broker struct {
	Kind     string
	AWS      AWSConfig
	RabbitMQ RabbitMQConfig
}

// AWSConfig represents AWS-specific configuration settings.
type AWSConfig struct {
	Region      string
	Endpoint    string
	SQSQueueURL string
}

// RabbitMQConfig represents RabbitMQ connection settings.
type RabbitMQConfig struct {
	URL           string
	Queue         string
	PrefetchCount int
}

// DB represents database configuration settings.
type DB struct {
	Driver   string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	Mongo    MongoConfig
}

// MongoConfig represents MongoDB connection settings.
type MongoConfig struct {
	URI      string
	Database string
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

// Mail represents SMTP settings of the outbound mail transport.
type Mail struct {
	Host     string
	Port     string
	User     string
	Password string
	ShopName string
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		_, err := strconv.Atoi(value)
		if err != nil {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.String("error", err.Error()))
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func (d DB) validate() error {
	switch d.Driver {
	case DriverPostgres:
		if err := allNonEmpty(map[string]string{
			DBHostEnv: d.Host,
			DBUserEnv: d.User,
			DBNameEnv: d.Name,
		}); err != nil {
			return err
		}
		return allNumbers(map[string]string{DBPortEnv: d.Port})
	case DriverMongo:
		return allNonEmpty(map[string]string{MongoURIEnv: d.Mongo.URI})
	default:
		return fmt.Errorf("%w for key %s: %q", ErrUnsupportedValue, DBDriverEnv, d.Driver)
	}
}

func (b Broker) validate() error {
	switch b.Kind {
	case BrokerSQS:
		return allNonEmpty(map[string]string{SQSQueueURLEnv: b.AWS.SQSQueueURL})
	case BrokerRabbitMQ:
		return allNonEmpty(map[string]string{
			RabbitMQURLEnv:   b.RabbitMQ.URL,
			RabbitMQQueueEnv: b.RabbitMQ.Queue,
		})
	default:
		return fmt.Errorf("%w for key %s: %q", ErrUnsupportedValue, BrokerEnv, b.Kind)
	}
}

func (c *Config) validate() error {
	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database configuration incomplete: %w", err)
	}

	if err := allNonEmpty(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("server port configuration incomplete: %w", err)
	}

	if err := allNumbers(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	if err := c.Broker.validate(); err != nil {
		return fmt.Errorf("broker configuration incomplete: %w", err)
	}

	return nil
}

func (c *NotificationConfig) validate() error {
	if err := allNonEmpty(map[string]string{
		MetricsServerPortEnv: c.MetricsServer.Port,
		EmailUserEnv:         c.Mail.User,
	}); err != nil {
		return fmt.Errorf("notification configuration incomplete: %w", err)
	}

	if err := allNumbers(map[string]string{
		MetricsServerPortEnv: c.MetricsServer.Port,
		SMTPPortEnv:          c.Mail.Port,
	}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	if err := c.Broker.validate(); err != nil {
		return fmt.Errorf("broker configuration incomplete: %w", err)
	}

	return nil
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if val, err := strconv.Atoi(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if val, err := time.ParseDuration(os.Getenv(name)); err == nil && val > 0 {
		return val
	}
	return defaultValue
}

func getEnv(name, defaultValue string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return defaultValue
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func applyDefaultEnvFile() {
	envPath := os.Getenv(EnvFilePath)
	if envPath == "" {
		envPath = DefaultEnvFilePath
	}
	if err := ApplyEnvFile(envPath); err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Info("failed to load from .env", slog.Any("err", err))
	}
}

func loadBroker() Broker {
	return Broker{
		Kind: getEnv(BrokerEnv, BrokerSQS),
		AWS: AWSConfig{
			Region:      os.Getenv(AWSRegionEnv),
			Endpoint:    os.Getenv(AWSEndpointEnv),
			SQSQueueURL: os.Getenv(SQSQueueURLEnv),
		},
		RabbitMQ: RabbitMQConfig{
			URL:           os.Getenv(RabbitMQURLEnv),
			Queue:         getEnv(RabbitMQQueueEnv, defaultRabbitMQQueue),
			PrefetchCount: getEnvAsInt(RabbitMQPrefetchEnv, defaultRabbitMQPrefetch),
		},
	}
}

// LoadFromEnv loads the shop service configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	applyDefaultEnvFile()

	conf := &Config{
		DebugMode: getEnvAsBool(DebugModeEnv, false),
		Database: DB{
			Driver:   getEnv(DBDriverEnv, DriverPostgres),
			Host:     os.Getenv(DBHostEnv),
			User:     os.Getenv(DBUserEnv),
			Password: os.Getenv(DBPassEnv),
			Name:     os.Getenv(DBNameEnv),
			Port:     os.Getenv(DBPortEnv),
			Mongo: MongoConfig{
				URI:      os.Getenv(MongoURIEnv),
				Database: getEnv(MongoDatabaseEnv, defaultMongoDatabase),
			},
		},
		HTTPServer: Server{
			Port: os.Getenv(HTTPServerPortEnv),
		},
		MetricsServer: Server{
			Port: os.Getenv(MetricsServerPortEnv),
		},
		Broker:         loadBroker(),
		OutboxInterval: getEnvAsDuration(OutboxIntervalEnv, defaultOutboxInterval),
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}

// LoadNotificationFromEnv loads the notification service configuration from environment variables and validates it.
func LoadNotificationFromEnv() (*NotificationConfig, error) {
	applyDefaultEnvFile()

	conf := &NotificationConfig{
		DebugMode: getEnvAsBool(DebugModeEnv, false),
		MetricsServer: Server{
			Port: os.Getenv(MetricsServerPortEnv),
		},
		Broker: loadBroker(),
		Mail: Mail{
			Host:     getEnv(SMTPHostEnv, defaultSMTPHost),
			Port:     getEnv(SMTPPortEnv, defaultSMTPPort),
			User:     os.Getenv(EmailUserEnv),
			Password: os.Getenv(EmailPassEnv),
			ShopName: getEnv(ShopNameEnv, defaultShopName),
		},
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}
