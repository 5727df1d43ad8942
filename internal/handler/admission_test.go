package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avokadim/coworking-backend/internal/model"
	"github.com/avokadim/coworking-backend/internal/repository"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func tableSeat(id uint64) model.Seat {
	return model.Seat{ID: id, CoworkingID: "cw1", PlaceType: model.PlaceTable, SeatsCount: 1}
}

func TestAdmitDecisionNonBusinessDay(t *testing.T) {
	rng := model.TimeRange{Start: at(13, 0), End: at(14, 0)}

	// a business exception rejects even with a fully free pool
	seats := []model.Seat{tableSeat(1), tableSeat(2)}
	_, _, err := admitDecision(7, true, seats, nil, rng, at(9, 0))
	assert.ErrorIs(t, err, repository.ErrNonBusinessDay)

	// and takes precedence over the empty-pool outcome
	_, _, err = admitDecision(7, true, nil, nil, rng, at(9, 0))
	assert.ErrorIs(t, err, repository.ErrNonBusinessDay)
}

func TestAdmitDecisionNoAvailableSeat(t *testing.T) {
	rng := model.TimeRange{Start: at(13, 0), End: at(14, 0)}
	seats := []model.Seat{tableSeat(1)}
	active := map[uint64][]model.Reservation{
		1: {{SeatID: 1, Status: model.StatusConfirmed, SessionStart: at(13, 30), SessionEnd: at(14, 30)}},
	}

	_, _, err := admitDecision(7, false, seats, active, rng, at(9, 0))
	assert.ErrorIs(t, err, repository.ErrNoAvailableSeat)

	// empty pool is the same outcome
	_, _, err = admitDecision(7, false, nil, nil, rng, at(9, 0))
	assert.ErrorIs(t, err, repository.ErrNoAvailableSeat)
}

func TestAdmitDecisionGrantsSeat(t *testing.T) {
	rng := model.TimeRange{Start: at(13, 0), End: at(14, 0)}
	seats := []model.Seat{tableSeat(1), tableSeat(2)}
	active := map[uint64][]model.Reservation{
		1: {{SeatID: 1, Status: model.StatusConfirmed, SessionStart: at(13, 0), SessionEnd: at(14, 0)}},
	}

	res, seat, err := admitDecision(7, false, seats, active, rng, at(9, 0))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seat.ID)
	assert.Equal(t, uint64(7), res.UserID)
	assert.Equal(t, uint64(2), res.SeatID)
	assert.Equal(t, rng.Start, res.SessionStart)
	assert.Equal(t, rng.End, res.SessionEnd)
	assert.Equal(t, model.StatusNew, res.Status)
}

func TestAdmitDecisionAutoConfirmsShortLead(t *testing.T) {
	rng := model.TimeRange{Start: at(13, 0), End: at(14, 0)}
	seats := []model.Seat{tableSeat(1)}

	res, _, err := admitDecision(7, false, seats, nil, rng, at(12, 40))
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, res.Status)
}
