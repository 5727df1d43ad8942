package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInitialStatus(t *testing.T) {
	now := at(12, 0)

	tests := []struct {
		name  string
		start time.Time
		want  Status
	}{
		{"starts in 5 minutes", at(12, 5), StatusConfirmed},
		{"starts in exactly 30 minutes", at(12, 30), StatusConfirmed},
		{"starts in 31 minutes", at(12, 31), StatusNew},
		{"starts in 2 hours", at(14, 0), StatusNew},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InitialStatus(tt.start, now))
		})
	}
}

func TestStatusActive(t *testing.T) {
	assert.True(t, StatusNew.Active())
	assert.True(t, StatusConfirmed.Active())
	assert.False(t, StatusCancelled.Active())
	assert.False(t, StatusPassed.Active())
}

func TestCanCancel(t *testing.T) {
	tests := []struct {
		status  Status
		wantErr error
	}{
		{StatusNew, nil},
		{StatusConfirmed, nil},
		{StatusPassed, ErrAlreadyPassed},
		{StatusCancelled, ErrAlreadyCancelled},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			err := tt.status.CanCancel()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestReservationRange(t *testing.T) {
	r := Reservation{SessionStart: at(13, 0), SessionEnd: at(14, 0)}
	rng := r.Range()
	assert.Equal(t, at(13, 0), rng.Start)
	assert.Equal(t, at(14, 0), rng.End)
}
