package workbook

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cell string
		want float64
		nan  bool
	}{
		{"plain", "12.5", 12.5, false},
		{"padded", "  3 ", 3, false},
		{"thousands separator", "1,250.75", 1250.75, false},
		{"negative", "-4.2", -4.2, false},
		{"empty is missing", "", 0, true},
		{"text is missing", "n/a", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Float(tt.cell)
			if tt.nan {
				assert.True(t, math.IsNaN(got))
				return
			}
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestOptionalFloat(t *testing.T) {
	t.Parallel()

	assert.Nil(t, OptionalFloat(""))
	assert.Nil(t, OptionalFloat("oops"))

	got := OptionalFloat("7.5")
	require.NotNil(t, got)
	assert.InDelta(t, 7.5, *got, 1e-9)
}

func TestDate(t *testing.T) {
	t.Parallel()
	want := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cell string
	}{
		{"iso", "2025-07-01"},
		{"iso with time", "2025-07-01 09:30:00"},
		{"us short", "7/1/25"},
		{"us long", "7/1/2025"},
		{"xlsx short", "07-01-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, want.Equal(Date(tt.cell)), "parsed %v", Date(tt.cell))
		})
	}

	assert.True(t, Date("not a date").IsZero())
	assert.True(t, Date("").IsZero())
}
