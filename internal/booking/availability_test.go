package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avokadim/coworking-backend/internal/model"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func rng(sh, sm, eh, em int) model.TimeRange {
	return model.TimeRange{Start: at(sh, sm), End: at(eh, em)}
}

func seat(id uint64, pt model.PlaceType) model.Seat {
	return model.Seat{ID: id, CoworkingID: "cw1", PlaceType: pt, SeatsCount: 1}
}

func res(seatID uint64, status model.Status, sh, sm, eh, em int) model.Reservation {
	return model.Reservation{
		SeatID:       seatID,
		Status:       status,
		SessionStart: at(sh, sm),
		SessionEnd:   at(eh, em),
	}
}

func TestFindFreeSeatSingleRoom(t *testing.T) {
	rooms := []model.Seat{seat(1, model.PlaceMeetingRoom)}
	taken := map[uint64][]model.Reservation{
		1: {res(1, model.StatusConfirmed, 13, 0, 14, 0)},
	}

	// overlapping request fails
	_, ok := FindFreeSeat(rooms, taken, rng(13, 30, 14, 30))
	assert.False(t, ok)

	// adjacent request succeeds, [13:00,14:00) does not block [14:00,15:00)
	got, ok := FindFreeSeat(rooms, taken, rng(14, 0, 15, 0))
	require.True(t, ok)
	assert.Equal(t, uint64(1), got.ID)
}

func TestFindFreeSeatCancelledNeverBlocks(t *testing.T) {
	rooms := []model.Seat{seat(1, model.PlaceMeetingRoom)}
	taken := map[uint64][]model.Reservation{
		1: {
			res(1, model.StatusCancelled, 13, 0, 14, 0),
			res(1, model.StatusPassed, 13, 0, 14, 0),
		},
	}
	got, ok := FindFreeSeat(rooms, taken, rng(13, 0, 14, 0))
	require.True(t, ok)
	assert.Equal(t, uint64(1), got.ID)
}

func TestFindFreeSeatPoolExhaustion(t *testing.T) {
	tables := []model.Seat{seat(1, model.PlaceTable), seat(2, model.PlaceTable)}
	taken := map[uint64][]model.Reservation{}
	want := rng(10, 0, 12, 0)

	// two seats, two bookings fit
	s1, ok := FindFreeSeat(tables, taken, want)
	require.True(t, ok)
	taken[s1.ID] = append(taken[s1.ID], res(s1.ID, model.StatusNew, 10, 0, 12, 0))

	s2, ok := FindFreeSeat(tables, taken, want)
	require.True(t, ok)
	assert.NotEqual(t, s1.ID, s2.ID)
	taken[s2.ID] = append(taken[s2.ID], res(s2.ID, model.StatusNew, 10, 0, 12, 0))

	// third overlapping booking has nowhere to go
	_, ok = FindFreeSeat(tables, taken, want)
	assert.False(t, ok)

	// but a disjoint slot on the same day is still free
	_, ok = FindFreeSeat(tables, taken, rng(12, 0, 13, 0))
	assert.True(t, ok)
}

func TestFindFreeSeatSkipsBusySeat(t *testing.T) {
	tables := []model.Seat{seat(1, model.PlaceTable), seat(2, model.PlaceTable)}
	taken := map[uint64][]model.Reservation{
		1: {res(1, model.StatusConfirmed, 10, 0, 12, 0)},
	}
	got, ok := FindFreeSeat(tables, taken, rng(11, 0, 13, 0))
	require.True(t, ok)
	assert.Equal(t, uint64(2), got.ID)
}

func TestFindFreeSeatIsReadOnly(t *testing.T) {
	tables := []model.Seat{seat(1, model.PlaceTable)}
	taken := map[uint64][]model.Reservation{}
	want := rng(10, 0, 11, 0)

	// availability checks do not consume seats
	for i := 0; i < 3; i++ {
		got, ok := FindFreeSeat(tables, taken, want)
		require.True(t, ok)
		assert.Equal(t, uint64(1), got.ID)
	}
}

func TestConflicts(t *testing.T) {
	active := []model.Reservation{res(1, model.StatusNew, 13, 0, 14, 0)}
	assert.True(t, Conflicts(active, rng(13, 30, 14, 30)))
	assert.False(t, Conflicts(active, rng(14, 0, 15, 0)))
	assert.False(t, Conflicts(nil, rng(13, 0, 14, 0)))
}

func TestHasFreeSeat(t *testing.T) {
	tables := []model.Seat{seat(1, model.PlaceTable)}
	taken := map[uint64][]model.Reservation{
		1: {res(1, model.StatusConfirmed, 10, 0, 12, 0)},
	}
	assert.False(t, HasFreeSeat(tables, taken, rng(11, 0, 13, 0)))
	assert.True(t, HasFreeSeat(tables, taken, rng(12, 0, 13, 0)))
	assert.False(t, HasFreeSeat(nil, nil, rng(12, 0, 13, 0)))
}
