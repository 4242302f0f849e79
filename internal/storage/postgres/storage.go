package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/domain/repository"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxPool interface {
	querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// factory hands out repositories bound to a pool or to a transaction.
type factory struct {
	db querier
}

func (f factory) Clients() repository.ClientRepository {
	return &clientRepository{db: f.db}
}

func (f factory) Catalog() repository.CatalogRepository {
	return &catalogRepository{db: f.db}
}

func (f factory) Batches() repository.BatchRepository {
	return &batchRepository{db: f.db}
}

func (f factory) Orders() repository.OrderRepository {
	return &orderRepository{db: f.db}
}

func (f factory) Payments() repository.PaymentRepository {
	return &paymentRepository{db: f.db}
}

func (f factory) Settlement() repository.SettlementRepository {
	return &settlementRepository{db: f.db}
}

func (f factory) Plans() repository.PlanRepository {
	return &planRepository{db: f.db}
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	factory
	pool   pgxPool
	logger *slog.Logger
}

var _ repository.Store = (*Storage)(nil)

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := newWithPool(pool, logger)
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

func newWithPool(pool pgxPool, logger *slog.Logger) *Storage {
	return &Storage{factory: factory{db: pool}, pool: pool, logger: logger}
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS repositories (
            id BIGSERIAL PRIMARY KEY,
            name TEXT UNIQUE NOT NULL,
            opened BOOLEAN NOT NULL DEFAULT TRUE,
            days BOOLEAN[] NOT NULL DEFAULT '{f,f,f,f,f,f,f}',
            latitude DOUBLE PRECISION,
            longitude DOUBLE PRECISION
        )`,
		`CREATE TABLE IF NOT EXISTS clients (
            id BIGSERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            repository_id BIGINT NOT NULL REFERENCES repositories(id),
            wallet NUMERIC(12,2) NOT NULL DEFAULT 0,
            disabled BOOLEAN NOT NULL DEFAULT FALSE,
            admin BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id BIGSERIAL PRIMARY KEY,
            name TEXT UNIQUE NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
            load NUMERIC(10,3) NOT NULL CHECK (load >= 0),
            available BOOLEAN NOT NULL DEFAULT TRUE
        )`,
		`CREATE TABLE IF NOT EXISTS batches (
            id BIGSERIAL PRIMARY KEY,
            date TIMESTAMPTZ UNIQUE NOT NULL,
            capacity INTEGER NOT NULL CHECK (capacity > 0),
            opened BOOLEAN NOT NULL DEFAULT TRUE
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id BIGSERIAL PRIMARY KEY,
            client_id BIGINT NOT NULL REFERENCES clients(id),
            amount NUMERIC(12,2) NOT NULL,
            mode TEXT NOT NULL,
            reference TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            client_id BIGINT NOT NULL REFERENCES clients(id),
            batch_id BIGINT NOT NULL REFERENCES batches(id),
            total NUMERIC(12,2) NOT NULL DEFAULT 0,
            payment_id BIGINT REFERENCES payments(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (client_id, batch_id)
        )`,
		`CREATE TABLE IF NOT EXISTS order_lines (
            order_id BIGINT NOT NULL REFERENCES orders(id),
            product_id BIGINT NOT NULL REFERENCES products(id),
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            PRIMARY KEY (order_id, product_id)
        )`,
		`CREATE TABLE IF NOT EXISTS settlement_state (
            id SMALLINT PRIMARY KEY CHECK (id = 1),
            last_invoice_date TIMESTAMPTZ NOT NULL
        )`,
		`INSERT INTO settlement_state (id, last_invoice_date) VALUES (1, 'epoch') ON CONFLICT (id) DO NOTHING`,
		`CREATE INDEX IF NOT EXISTS idx_orders_batch ON orders(batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_unpaid ON orders(client_id, created_at) WHERE payment_id IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_payments_client ON payments(client_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction runs fn with repositories bound to one transaction.
// Any error returned by fn rolls the transaction back.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(repository.Factory) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) && s.logger != nil {
				s.logger.Warn("transaction rollback failed", slog.String("error", rbErr.Error()))
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(factory{db: tx})
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	return err
}
