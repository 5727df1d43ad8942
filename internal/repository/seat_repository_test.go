package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avokadim/coworking-backend/internal/model"
)

func TestSeatGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM seats WHERE id = \?`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "coworking_id", "place_type", "label", "description", "seats_count"}).
			AddRow(5, "cw1", "MEETING_ROOM", "Room A", nil, 8))

	repo := NewSeatRepo(db)
	seat, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, uint64(5), seat.ID)
	assert.Equal(t, "cw1", seat.CoworkingID)
	assert.Equal(t, model.PlaceMeetingRoom, seat.PlaceType)
	require.NotNil(t, seat.Label)
	assert.Equal(t, "Room A", *seat.Label)
	assert.Nil(t, seat.Description)
	assert.Equal(t, uint16(8), seat.SeatsCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatGetByIDUnknown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM seats WHERE id = \?`).
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	repo := NewSeatRepo(db)
	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
