package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/tariff-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it,
// which keeps the Postgres store unit-testable without a live database.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS presets (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name       TEXT NOT NULL UNIQUE,
	overrides  JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_presets_name ON presets(name);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SavePreset(ctx context.Context, name string, overrides []model.TariffOverride) (*Preset, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	overridesJSON, err := json.Marshal(overrides)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal overrides")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO presets (id, name, overrides, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (name) DO UPDATE SET overrides = EXCLUDED.overrides, updated_at = EXCLUDED.updated_at`,
		id, name, string(overridesJSON), now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: save preset %s", name)
	}

	return s.GetPreset(ctx, name)
}

func (s *PostgresStore) GetPreset(ctx context.Context, name string) (*Preset, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, overrides, created_at, updated_at FROM presets WHERE name = $1`,
		name,
	)

	var p Preset
	var overridesJSON string
	err := row.Scan(&p.ID, &p.Name, &overridesJSON, &p.CreatedAt, &p.UpdatedAt)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrPresetNotFound, "postgres: %s", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get preset %s", name)
	}
	if err := json.Unmarshal([]byte(overridesJSON), &p.Overrides); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal overrides for %s", name)
	}
	return &p, nil
}

func (s *PostgresStore) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, overrides, created_at, updated_at FROM presets ORDER BY name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list presets")
	}
	defer rows.Close()

	var presets []Preset
	for rows.Next() {
		var p Preset
		var overridesJSON string
		if err := rows.Scan(&p.ID, &p.Name, &overridesJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan preset")
		}
		if err := json.Unmarshal([]byte(overridesJSON), &p.Overrides); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal overrides for %s", p.Name)
		}
		presets = append(presets, p)
	}
	return presets, eris.Wrap(rows.Err(), "postgres: list presets iterate")
}

func (s *PostgresStore) DeletePreset(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM presets WHERE name = $1`, name)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete preset %s", name)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrPresetNotFound, "postgres: %s", name)
	}
	return nil
}
