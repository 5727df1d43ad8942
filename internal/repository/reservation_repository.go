package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/avokadim/coworking-backend/internal/model"
)

// ReservationRepo persists reservations. Rows are never deleted:
// cancellation and expiry are status transitions, so the booking history
// stays intact. All timestamps are stored and compared in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning the coworking, seat and reservation repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// ActiveBySeatTx loads the active (NEW or CONFIRMED) reservations of the
// given seats that overlap rng, grouped by seat ID. The SQL range filter
// mirrors the half-open overlap predicate but is only a pre-narrowing;
// callers re-check with booking.Conflicts before deciding. The query is
// a locking read: under REPEATABLE READ a plain SELECT would replay the
// transaction's snapshot and miss reservations committed while this
// transaction waited on the seat locks.
func (r *ReservationRepo) ActiveBySeatTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64, rng model.TimeRange) (map[uint64][]model.Reservation, error) {
	out := make(map[uint64][]model.Reservation, len(seatIDs))
	if len(seatIDs) == 0 {
		return out, nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(seatIDs)), ",")
	q := `SELECT id, user_id, seat_id, session_start, session_end, status, created_at
	      FROM reservations
	      WHERE seat_id IN (` + placeholders + `)
	        AND status IN ('NEW','CONFIRMED')
	        AND session_start < ? AND session_end > ?
	      FOR UPDATE`
	args := make([]interface{}, 0, len(seatIDs)+2)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	args = append(args, rng.End, rng.Start)
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.SeatID, &res.SessionStart, &res.SessionEnd, &res.Status, &res.CreatedAt); err != nil {
			return nil, err
		}
		out[res.SeatID] = append(out[res.SeatID], res)
	}
	return out, rows.Err()
}

// CreateTx inserts a reservation within the caller's transaction and
// reads back the generated ID and created_at. Status must already be
// decided by the state machine.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, seat_id, session_start, session_end, status) VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.UserID, res.SeatID, res.SessionStart.UTC(), res.SessionEnd.UTC(), string(res.Status))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT created_at FROM reservations WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt)
}

// GetForUpdateTx loads a reservation and locks its row, so the status
// check and the cancellation update cannot race with a concurrent
// transition. Returns ErrReservationNotFound for unknown IDs.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	const q = `SELECT id, user_id, seat_id, session_start, session_end, status, created_at
	           FROM reservations WHERE id = ? FOR UPDATE`
	var res model.Reservation
	err := tx.QueryRowContext(ctx, q, id).Scan(&res.ID, &res.UserID, &res.SeatID, &res.SessionStart, &res.SessionEnd, &res.Status, &res.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrReservationNotFound
	}
	return res, err
}

// MarkCancelledTx flips a reservation to CANCELLED inside the caller's
// transaction. State checks belong to the caller (model.Status.CanCancel).
func (r *ReservationRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE reservations SET status = 'CANCELLED' WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, id)
	return err
}

// ReservationDetail is a reservation joined with its seat and coworking,
// as returned to the owning user.
type ReservationDetail struct {
	ID           uint64       `json:"id"`
	SessionStart time.Time    `json:"session_start"`
	SessionEnd   time.Time    `json:"session_end"`
	Status       model.Status `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	Seat         struct {
		ID         uint64          `json:"id"`
		PlaceType  model.PlaceType `json:"place_type"`
		Label      *string         `json:"label,omitempty"`
		SeatsCount uint16          `json:"seats_count"`
	} `json:"seat"`
	Coworking struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Address string `json:"address"`
	} `json:"coworking"`
}

// ListByUser returns the user's non-cancelled reservations whose session
// starts today or later, ordered by session_start ascending, each with
// seat and coworking detail.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.session_start, r.session_end, r.status, r.created_at,
	                  s.id, s.place_type, s.label, s.seats_count,
	                  c.id, c.title, c.address
	           FROM reservations r
	           JOIN seats s ON s.id = r.seat_id
	           JOIN coworkings c ON c.id = s.coworking_id
	           WHERE r.user_id = ?
	             AND r.status <> 'CANCELLED'
	             AND DATE(r.session_start) >= UTC_DATE()
	           ORDER BY r.session_start ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		var label sql.NullString
		if err := rows.Scan(&d.ID, &d.SessionStart, &d.SessionEnd, &d.Status, &d.CreatedAt,
			&d.Seat.ID, &d.Seat.PlaceType, &label, &d.Seat.SeatsCount,
			&d.Coworking.ID, &d.Coworking.Title, &d.Coworking.Address); err != nil {
			return nil, err
		}
		if label.Valid {
			l := label.String
			d.Seat.Label = &l
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByID loads one reservation. Returns ErrReservationNotFound for
// unknown IDs.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	const q = `SELECT id, user_id, seat_id, session_start, session_end, status, created_at
	           FROM reservations WHERE id = ?`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, id).Scan(&res.ID, &res.UserID, &res.SeatID, &res.SessionStart, &res.SessionEnd, &res.Status, &res.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrReservationNotFound
	}
	return res, err
}

// MarkPassed transitions every active reservation whose session ended at
// or before `now` to PASSED and reports how many rows changed. Run by
// the sweeper process; the API only ever reads the resulting status.
func (r *ReservationRepo) MarkPassed(ctx context.Context, now time.Time) (int64, error) {
	const q = `UPDATE reservations SET status = 'PASSED'
	           WHERE session_end <= ? AND status IN ('NEW','CONFIRMED')`
	res, err := r.db.ExecContext(ctx, q, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
