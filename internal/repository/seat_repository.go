package repository

import (
	"context"
	"database/sql"

	"github.com/avokadim/coworking-backend/internal/model"
)

// SeatRepo provides access to the seat pool of a coworking. Seats are
// created once during admin setup and are immutable afterwards; the
// reservation path only ever reads them.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a SeatRepo bound to the given database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// CreatePool inserts the seat pool for a coworking in one transaction:
// tablePlaces anonymous single-person table seats plus the given meeting
// rooms (label, description and capacity taken from each element).
func (r *SeatRepo) CreatePool(ctx context.Context, coworkingID string, tablePlaces int, rooms []model.Seat) ([]model.Seat, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `INSERT INTO seats (coworking_id, place_type, label, description, seats_count) VALUES (?, ?, ?, ?, ?)`
	created := make([]model.Seat, 0, tablePlaces+len(rooms))
	for i := 0; i < tablePlaces; i++ {
		res, err := tx.ExecContext(ctx, q, coworkingID, model.PlaceTable, nil, nil, 1)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		created = append(created, model.Seat{
			ID:          uint64(id),
			CoworkingID: coworkingID,
			PlaceType:   model.PlaceTable,
			SeatsCount:  1,
		})
	}
	for _, room := range rooms {
		res, err := tx.ExecContext(ctx, q, coworkingID, model.PlaceMeetingRoom, room.Label, room.Description, room.SeatsCount)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		room.ID = uint64(id)
		room.CoworkingID = coworkingID
		room.PlaceType = model.PlaceMeetingRoom
		created = append(created, room)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return created, nil
}

// GetByID loads one seat.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (model.Seat, error) {
	const q = `SELECT id, coworking_id, place_type, label, description, seats_count
	           FROM seats WHERE id = ?`
	var (
		s           model.Seat
		label, desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.CoworkingID, &s.PlaceType, &label, &desc, &s.SeatsCount)
	if err != nil {
		return model.Seat{}, err
	}
	if label.Valid {
		l := label.String
		s.Label = &l
	}
	if desc.Valid {
		d := desc.String
		s.Description = &d
	}
	return s, nil
}

// ListByCoworking returns every seat of a coworking ordered by id.
func (r *SeatRepo) ListByCoworking(ctx context.Context, coworkingID string) ([]model.Seat, error) {
	const q = `SELECT id, coworking_id, place_type, label, description, seats_count
	           FROM seats WHERE coworking_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, coworkingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}

// ListByTypeForUpdateTx loads the candidate seats of one place type and
// locks their rows for the duration of the transaction. The lock
// serializes concurrent reservation attempts against the same pool, so
// the availability check and the insert behave atomically.
func (r *SeatRepo) ListByTypeForUpdateTx(ctx context.Context, tx *sql.Tx, coworkingID string, placeType model.PlaceType) ([]model.Seat, error) {
	const q = `SELECT id, coworking_id, place_type, label, description, seats_count
	           FROM seats WHERE coworking_id = ? AND place_type = ? ORDER BY id FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, coworkingID, string(placeType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}

func scanSeats(rows *sql.Rows) ([]model.Seat, error) {
	out := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		var label, desc sql.NullString
		if err := rows.Scan(&s.ID, &s.CoworkingID, &s.PlaceType, &label, &desc, &s.SeatsCount); err != nil {
			return nil, err
		}
		if label.Valid {
			l := label.String
			s.Label = &l
		}
		if desc.Valid {
			d := desc.String
			s.Description = &d
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
