package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/iyhunko/shop-with-sqs/internal/config"
	"github.com/iyhunko/shop-with-sqs/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	// DefaultMigrationsPath is where the service looks for schema migrations at startup.
	DefaultMigrationsPath = "file://migrations"

	// PostgreSQL error codes. See https://www.postgresql.org/docs/16/errcodes-appendix.html
	pgUniqueViolationErrCode = "23505"
	pgCheckViolationErrCode  = "23514"
)

// StartDB opens the PostgreSQL connection and brings the schema up to date.
func StartDB(ctx context.Context, dbConf config.DB) (*sql.DB, error) {
	dbCon, err := startDBConnection(ctx, dbConf)
	if err != nil {
		slog.Error("failed to initialize DB connection", slog.Any("err", err))
		return nil, fmt.Errorf("failed to initialize DB connection: %w", err)
	}
	slog.Info("DB connection done")
	if err = RunMigrations(dbCon, DefaultMigrationsPath); err != nil {
		slog.Error("failed to run migrations", slog.Any("err", err))
		_ = dbCon.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("DB migration done")
	return dbCon, nil
}

func startDBConnection(ctx context.Context, conf config.DB) (*sql.DB, error) {
	dsnTmp := "host=%s user=%s password=%s dbname=%s port=%s sslmode=disable"
	dsn := fmt.Sprintf(dsnTmp, conf.Host, conf.User, conf.Password, conf.Name, conf.Port)
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// RunMigrations applies every pending migration found at sourceURL.
func RunMigrations(db *sql.DB, sourceURL string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// NewStore wires the PostgreSQL repositories around db.
func NewStore(db *sql.DB) *repository.Store {
	return &repository.Store{
		Products:     NewProductRepository(db),
		Orders:       NewOrderRepository(db),
		Messages:     NewMessageRepository(db),
		Events:       NewEventRepository(db),
		Transactions: NewTransactionalRepository(db),
		Ping:         db.PingContext,
		Close: func(context.Context) error {
			return db.Close()
		},
	}
}

// translateError maps constraint failures reported by the server to repository errors.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolationErrCode, pgCheckViolationErrCode:
		return &repository.ConstraintError{Constraint: pgErr.ConstraintName, Detail: pgErr.Message}
	}
	return err
}
