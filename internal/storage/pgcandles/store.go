// Package pgcandles persists backfilled candles in Postgres.
package pgcandles

import (
	"context"

	"github.com/dipward/dipward/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const createTable = `
CREATE TABLE IF NOT EXISTS candles (
	exchange   TEXT    NOT NULL,
	symbol     TEXT    NOT NULL,
	open_time  BIGINT  NOT NULL,
	open       NUMERIC NOT NULL,
	high       NUMERIC NOT NULL,
	low        NUMERIC NOT NULL,
	close      NUMERIC NOT NULL,
	volume     NUMERIC NOT NULL,
	close_time BIGINT  NOT NULL,
	PRIMARY KEY (exchange, symbol, open_time)
)`

const insertCandle = `
INSERT INTO candles (exchange, symbol, open_time, open, high, low, close, volume, close_time)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (exchange, symbol, open_time) DO NOTHING`

// Store is a Postgres-backed candle store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the candles table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}

	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "create candles table")
	}

	return &Store{pool: pool}, nil
}

// SaveBatch inserts the candles in one batch. Re-inserting an already stored
// candle is a no-op, so re-running a backfill is safe.
func (s *Store) SaveBatch(ctx context.Context, exchange string, pair domain.Pair, candles []domain.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range candles {
		batch.Queue(insertCandle, exchange, pair.Symbol(), c.OpenTime, c.Open, c.High, c.Low, c.Close, c.Volume, c.CloseTime)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range candles {
		if _, err := results.Exec(); err != nil {
			return errors.Wrapf(err, "insert candles for %s on %s", pair.String(), exchange)
		}
	}

	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
