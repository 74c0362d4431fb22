package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

// PostgresStore implements Store on a pgx connection pool. The grid
// config is stored as jsonb so schema changes in GridConfig do not
// require migrations.
type PostgresStore struct {
	pool  *pgxpool.Pool
	limit int
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to dsn, bootstraps the table, and returns
// a store retaining at most limit records (non-positive means
// DefaultLimit).
func NewPostgresStore(ctx context.Context, dsn string, limit int) (*PostgresStore, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool, limit: limit}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS grid_run_history (
			id                        TEXT PRIMARY KEY,
			created_at                TIMESTAMPTZ NOT NULL,
			symbol                    TEXT NOT NULL,
			config                    JSONB NOT NULL,
			total_return              DOUBLE PRECISION NOT NULL,
			total_return_rate_percent DOUBLE PRECISION NOT NULL,
			trade_count               INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create grid_run_history: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	cfgJSON, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO grid_run_history (
			id, created_at, symbol, config,
			total_return, total_return_rate_percent, trade_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		rec.ID, rec.CreatedAt, rec.Config.Symbol, cfgJSON,
		rec.Summary.TotalReturn, rec.Summary.TotalReturnRatePercent, rec.Summary.TradeCount,
	)
	if err != nil {
		return fmt.Errorf("insert run record: %w", err)
	}

	// Keep only the newest records.
	_, err = tx.Exec(ctx, `
		DELETE FROM grid_run_history
		WHERE id NOT IN (
			SELECT id FROM grid_run_history
			ORDER BY created_at DESC
			LIMIT $1
		)
	`, s.limit)
	if err != nil {
		return fmt.Errorf("prune run history: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, created_at, config,
		       total_return, total_return_rate_percent, trade_count
		FROM grid_run_history
		ORDER BY created_at DESC
		LIMIT $1
	`, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list run history: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, s.limit)
	for rows.Next() {
		var rec Record
		var cfgJSON []byte
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &cfgJSON,
			&rec.Summary.TotalReturn, &rec.Summary.TotalReturnRatePercent,
			&rec.Summary.TradeCount); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		var cfg model.GridConfig
		if err := json.Unmarshal(cfgJSON, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
		rec.Config = cfg
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM grid_run_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete run record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
