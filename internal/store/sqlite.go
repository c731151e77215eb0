package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/tariff-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS presets (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	overrides  TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_presets_name ON presets(name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SavePreset(ctx context.Context, name string, overrides []model.TariffOverride) (*Preset, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	overridesJSON, err := json.Marshal(overrides)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal overrides")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO presets (id, name, overrides, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET overrides = excluded.overrides, updated_at = excluded.updated_at`,
		id, name, string(overridesJSON), now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: save preset %s", name)
	}

	// Re-read so an upsert over an existing name reports its original ID.
	return s.GetPreset(ctx, name)
}

func (s *SQLiteStore) GetPreset(ctx context.Context, name string) (*Preset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, overrides, created_at, updated_at FROM presets WHERE name = ?`,
		name,
	)

	var p Preset
	var overridesJSON string
	err := row.Scan(&p.ID, &p.Name, &overridesJSON, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrPresetNotFound, "sqlite: %s", name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get preset %s", name)
	}
	if err := json.Unmarshal([]byte(overridesJSON), &p.Overrides); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal overrides for %s", name)
	}
	return &p, nil
}

func (s *SQLiteStore) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, overrides, created_at, updated_at FROM presets ORDER BY name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list presets")
	}
	defer rows.Close()

	var presets []Preset
	for rows.Next() {
		var p Preset
		var overridesJSON string
		if err := rows.Scan(&p.ID, &p.Name, &overridesJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan preset")
		}
		if err := json.Unmarshal([]byte(overridesJSON), &p.Overrides); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal overrides for %s", p.Name)
		}
		presets = append(presets, p)
	}
	return presets, eris.Wrap(rows.Err(), "sqlite: list presets iterate")
}

func (s *SQLiteStore) DeletePreset(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete preset %s", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrPresetNotFound, "sqlite: %s", name)
	}
	return nil
}
