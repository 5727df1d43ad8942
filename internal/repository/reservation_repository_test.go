package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avokadim/coworking-backend/internal/model"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func TestActiveBySeatTxLocksMatchingRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rng := model.TimeRange{Start: at(13, 0), End: at(14, 0)}
	created := at(9, 0)

	mock.ExpectBegin()
	// the read must lock the rows it sees: a reservation committed by a
	// concurrent transaction while this one waited on the seat locks has
	// to show up here, not the snapshot from before the wait
	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE seat_id IN \(\?,\?\) AND status IN \('NEW','CONFIRMED'\) AND session_start < \? AND session_end > \? FOR UPDATE`).
		WithArgs(uint64(1), uint64(2), rng.End, rng.Start).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "seat_id", "session_start", "session_end", "status", "created_at"}).
			AddRow(10, 7, 1, at(13, 0), at(14, 0), "CONFIRMED", created).
			AddRow(11, 8, 1, at(12, 0), at(13, 30), "NEW", created))

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := NewReservationRepo(db)
	active, err := repo.ActiveBySeatTx(context.Background(), tx, []uint64{1, 2}, rng)
	require.NoError(t, err)

	assert.Len(t, active[1], 2)
	assert.Empty(t, active[2])
	assert.Equal(t, model.StatusConfirmed, active[1][0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveBySeatTxEmptySeatList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	repo := NewReservationRepo(db)
	active, err := repo.ActiveBySeatTx(context.Background(), tx, nil, model.TimeRange{Start: at(13, 0), End: at(14, 0)})
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPassedOnlyTouchesEndedActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := at(15, 0)
	mock.ExpectExec(`UPDATE reservations SET status = 'PASSED' WHERE session_end <= \? AND status IN \('NEW','CONFIRMED'\)`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewReservationRepo(db)
	n, err := repo.MarkPassed(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
