package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func TestNewTimeRange(t *testing.T) {
	now := at(9, 0)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"valid future range", at(13, 0), at(14, 0), false},
		{"end equals start", at(13, 0), at(13, 0), true},
		{"end before start", at(14, 0), at(13, 0), true},
		{"spans midnight", at(23, 0), at(23, 0).Add(2 * time.Hour), true},
		{"start in the past", at(8, 0), at(10, 0), true},
		{"start equals now", now, at(10, 0), true},
		{"starts one minute from now", at(9, 1), at(10, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := NewTimeRange(tt.start, tt.end, now)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidRange), "must wrap ErrInvalidRange")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, rng.Start)
			assert.Equal(t, tt.end, rng.End)
		})
	}
}

func TestNewTimeRangeNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	start := time.Date(2026, 9, 1, 16, 0, 0, 0, loc) // 13:00 UTC
	end := time.Date(2026, 9, 1, 17, 0, 0, 0, loc)

	rng, err := NewTimeRange(start, end, at(9, 0))
	require.NoError(t, err)
	assert.Equal(t, at(13, 0), rng.Start)
	assert.Equal(t, time.UTC, rng.Start.Location())
}

func TestOverlaps(t *testing.T) {
	base := TimeRange{Start: at(13, 0), End: at(14, 0)}

	tests := []struct {
		name  string
		other TimeRange
		want  bool
	}{
		{"identical", TimeRange{Start: at(13, 0), End: at(14, 0)}, true},
		{"partial overlap", TimeRange{Start: at(13, 30), End: at(14, 30)}, true},
		{"contained", TimeRange{Start: at(13, 15), End: at(13, 45)}, true},
		{"containing", TimeRange{Start: at(12, 0), End: at(15, 0)}, true},
		{"touching at end", TimeRange{Start: at(14, 0), End: at(15, 0)}, false},
		{"touching at start", TimeRange{Start: at(12, 0), End: at(13, 0)}, false},
		{"disjoint after", TimeRange{Start: at(15, 0), End: at(16, 0)}, false},
		{"disjoint before", TimeRange{Start: at(10, 0), End: at(11, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			// the predicate is symmetric
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestDay(t *testing.T) {
	rng := TimeRange{Start: at(13, 30), End: at(14, 30)}
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), rng.Day())
}
