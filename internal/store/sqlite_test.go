package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tariff-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "presets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleOverrides() []model.TariffOverride {
	rate := 25.0
	return []model.TariffOverride{
		{ComponentClass: "Motor", OriginCountry: "Germany", UserRatePct: &rate},
		{ComponentClass: "Housing", OriginCountry: "China"},
	}
}

func TestSQLiteSaveAndGetPreset(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := s.SavePreset(ctx, "q3-motors", sampleOverrides())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "q3-motors", saved.Name)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := s.GetPreset(ctx, "q3-motors")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	require.Len(t, got.Overrides, 2)
	require.NotNil(t, got.Overrides[0].UserRatePct)
	assert.Equal(t, 25.0, *got.Overrides[0].UserRatePct)
	assert.Nil(t, got.Overrides[1].UserRatePct)
}

func TestSQLiteSavePresetUpsert(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := s.SavePreset(ctx, "baseline", sampleOverrides())
	require.NoError(t, err)

	rate := 5.0
	second, err := s.SavePreset(ctx, "baseline", []model.TariffOverride{
		{ComponentClass: "Motor", OriginCountry: "Serbia", UserRatePct: &rate},
	})
	require.NoError(t, err)

	// Same name keeps the original row identity.
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Overrides, 1)
	assert.Equal(t, "Serbia", second.Overrides[0].OriginCountry)

	all, err := s.ListPresets(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLiteListPresetsSorted(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := s.SavePreset(ctx, name, nil)
		require.NoError(t, err)
	}

	all, err := s.ListPresets(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Name)
	assert.Equal(t, "mid", all[1].Name)
	assert.Equal(t, "zeta", all[2].Name)
}

func TestSQLitePresetNotFound(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := s.GetPreset(ctx, "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrPresetNotFound))

	err = s.DeletePreset(ctx, "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrPresetNotFound))
}

func TestSQLiteDeletePreset(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := s.SavePreset(ctx, "temp", sampleOverrides())
	require.NoError(t, err)

	require.NoError(t, s.DeletePreset(ctx, "temp"))

	_, err = s.GetPreset(ctx, "temp")
	assert.True(t, eris.Is(err, ErrPresetNotFound))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
