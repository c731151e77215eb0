// Package store persists named override presets. A preset is a reusable set
// of user tariff overrides that can be applied to any computation; computed
// results themselves are never stored.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tariff-cli/internal/model"
)

// ErrPresetNotFound is returned when a preset lookup or delete matches no row.
var ErrPresetNotFound = eris.New("preset not found")

// Preset is a named, saved set of tariff overrides.
type Preset struct {
	ID        string                 `json:"id" yaml:"id"`
	Name      string                 `json:"name" yaml:"name"`
	Overrides []model.TariffOverride `json:"overrides" yaml:"overrides"`
	CreatedAt time.Time              `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time              `json:"updated_at" yaml:"updated_at"`
}

// Store defines the persistence interface for override presets.
type Store interface {
	// SavePreset inserts or replaces the preset with the given name.
	SavePreset(ctx context.Context, name string, overrides []model.TariffOverride) (*Preset, error)
	GetPreset(ctx context.Context, name string) (*Preset, error)
	ListPresets(ctx context.Context) ([]Preset, error)
	DeletePreset(ctx context.Context, name string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the given driver. SQLite is the default and needs
// no external service; Postgres is for shared deployments.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
