package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleCovers(t *testing.T) {
	ws := WorkingSchedule{OpenTime: "09:00:00", CloseTime: "18:00:00"}

	tests := []struct {
		name string
		rng  TimeRange
		want bool
	}{
		{"inside hours", TimeRange{Start: at(10, 0), End: at(12, 0)}, true},
		{"exactly open to close", TimeRange{Start: at(9, 0), End: at(18, 0)}, true},
		{"starts before open", TimeRange{Start: at(8, 30), End: at(10, 0)}, false},
		{"ends after close", TimeRange{Start: at(17, 0), End: at(19, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ws.Covers(tt.rng))
		})
	}
}

func TestScheduleCoversShortClockForm(t *testing.T) {
	ws := WorkingSchedule{OpenTime: "09:00", CloseTime: "18:00"}
	assert.True(t, ws.Covers(TimeRange{Start: at(10, 0), End: at(12, 0)}))
}

func TestScheduleCoversMalformedClock(t *testing.T) {
	ws := WorkingSchedule{OpenTime: "not-a-clock", CloseTime: "18:00:00"}
	assert.False(t, ws.Covers(TimeRange{Start: at(10, 0), End: at(12, 0)}))
}
