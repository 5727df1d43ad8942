package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/avokadim/coworking-backend/internal/booking"
	"github.com/avokadim/coworking-backend/internal/model"
)

// CoworkingRepo provides access to coworkings, their weekly schedules and
// their business exceptions. Seat pools live in SeatRepo; reservations in
// ReservationRepo. Coworking metadata is created by admin action and its
// identity never changes.
type CoworkingRepo struct {
	db *sql.DB
}

// NewCoworkingRepo returns a CoworkingRepo bound to the given database.
func NewCoworkingRepo(db *sql.DB) *CoworkingRepo { return &CoworkingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span multiple repositories.
func (r *CoworkingRepo) DB() *sql.DB { return r.db }

// rowQuerier is satisfied by both *sql.DB and *sql.Tx, letting lookup
// helpers run inside or outside a transaction without duplication.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Create inserts a coworking row. The caller assigns the opaque ID.
func (r *CoworkingRepo) Create(ctx context.Context, c *model.Coworking) error {
	const q = `INSERT INTO coworkings (id, title, institute, description, address) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, c.ID, c.Title, c.Institute, c.Description, c.Address); err != nil {
		return err
	}
	const sel = `SELECT created_at FROM coworkings WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, c.ID).Scan(&c.CreatedAt)
}

// GetByID loads a single coworking. Returns ErrCoworkingNotFound when
// the ID is unknown.
func (r *CoworkingRepo) GetByID(ctx context.Context, id string) (model.Coworking, error) {
	const q = `SELECT id, title, institute, description, address, created_at FROM coworkings WHERE id = ?`
	var c model.Coworking
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Title, &c.Institute, &c.Description, &c.Address, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Coworking{}, ErrCoworkingNotFound
	}
	return c, err
}

// ExistsTx checks a coworking ID inside a transaction; used by the
// reservation create path before any seat work.
func (r *CoworkingRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM coworkings WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCoworkingNotFound
	}
	return err
}

// SearchParams filters coworkings by substring match on text fields.
// Empty fields do not constrain the result.
type SearchParams struct {
	Title     string
	Institute string
	Address   string
}

// Search returns coworkings matching the params, newest first.
func (r *CoworkingRepo) Search(ctx context.Context, p SearchParams) ([]model.Coworking, error) {
	where := []string{}
	args := []interface{}{}
	if s := strings.TrimSpace(p.Title); s != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	if s := strings.TrimSpace(p.Institute); s != "" {
		where = append(where, "LOWER(institute) LIKE ?")
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	if s := strings.TrimSpace(p.Address); s != "" {
		where = append(where, "LOWER(address) LIKE ?")
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	q := `SELECT id, title, institute, description, address, created_at
	      FROM coworkings WHERE ` + cond + `
	      ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Coworking, 0)
	for rows.Next() {
		var c model.Coworking
		if err := rows.Scan(&c.ID, &c.Title, &c.Institute, &c.Description, &c.Address, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RegisterSchedule replaces the weekly schedule of a coworking in one
// transaction. At most one entry per weekday is enforced by a unique
// key; re-registering a weekday overwrites it.
func (r *CoworkingRepo) RegisterSchedule(ctx context.Context, coworkingID string, entries []model.WorkingSchedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `INSERT INTO working_schedules (coworking_id, week_day, open_time, close_time)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE open_time = VALUES(open_time), close_time = VALUES(close_time)`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, q, coworkingID, int(e.WeekDay), e.OpenTime, e.CloseTime); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListSchedules returns all schedule rows of a coworking ordered by weekday.
func (r *CoworkingRepo) ListSchedules(ctx context.Context, coworkingID string) ([]model.WorkingSchedule, error) {
	const q = `SELECT id, coworking_id, week_day, open_time, close_time
	           FROM working_schedules WHERE coworking_id = ? ORDER BY week_day`
	rows, err := r.db.QueryContext(ctx, q, coworkingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSchedules(rows)
}

// ScheduleFor returns the schedule row for one weekday, or nil when the
// coworking has no restriction on that day.
func (r *CoworkingRepo) ScheduleFor(ctx context.Context, coworkingID string, day time.Weekday) (*model.WorkingSchedule, error) {
	const q = `SELECT id, coworking_id, week_day, open_time, close_time
	           FROM working_schedules WHERE coworking_id = ? AND week_day = ?`
	var ws model.WorkingSchedule
	var wd int
	err := r.db.QueryRowContext(ctx, q, coworkingID, int(day)).Scan(&ws.ID, &ws.CoworkingID, &wd, &ws.OpenTime, &ws.CloseTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ws.WeekDay = time.Weekday(wd)
	return &ws, nil
}

// CreateBusinessException registers a non-business day. The unique key
// on (coworking_id, day) makes re-registration idempotent.
func (r *CoworkingRepo) CreateBusinessException(ctx context.Context, e *model.BusinessException) error {
	const q = `INSERT INTO business_exceptions (coworking_id, day, name, description)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE name = VALUES(name), description = VALUES(description)`
	_, err := r.db.ExecContext(ctx, q, e.CoworkingID, e.Day.UTC().Format("2006-01-02"), e.Name, e.Description)
	return err
}

// ListBusinessExceptions returns exceptions on or after `from`, soonest first.
func (r *CoworkingRepo) ListBusinessExceptions(ctx context.Context, coworkingID string, from time.Time) ([]model.BusinessException, error) {
	const q = `SELECT id, coworking_id, day, name, description
	           FROM business_exceptions WHERE coworking_id = ? AND day >= ? ORDER BY day`
	rows, err := r.db.QueryContext(ctx, q, coworkingID, from.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BusinessException, 0)
	for rows.Next() {
		var e model.BusinessException
		var desc sql.NullString
		if err := rows.Scan(&e.ID, &e.CoworkingID, &e.Day, &e.Name, &desc); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			e.Description = &d
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// HasBusinessException reports whether a coworking registered the given
// date as a non-business day.
func (r *CoworkingRepo) HasBusinessException(ctx context.Context, coworkingID string, day time.Time) (bool, error) {
	return hasBusinessException(ctx, r.db, coworkingID, day)
}

// HasBusinessExceptionTx is the transactional variant used inside the
// reservation create path.
func (r *CoworkingRepo) HasBusinessExceptionTx(ctx context.Context, tx *sql.Tx, coworkingID string, day time.Time) (bool, error) {
	return hasBusinessException(ctx, tx, coworkingID, day)
}

func hasBusinessException(ctx context.Context, q rowQuerier, coworkingID string, day time.Time) (bool, error) {
	const query = `SELECT 1 FROM business_exceptions WHERE coworking_id = ? AND day = ?`
	var one int
	err := q.QueryRowContext(ctx, query, coworkingID, day.UTC().Format("2006-01-02")).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SearchAvailable returns coworkings with at least one free seat of any
// type for the whole range. The SQL narrows candidates (no business
// exception that day, only active reservations overlapping the range);
// the final availability decision is made in Go with the same overlap
// predicate the create path uses. The working-hours filter is advisory:
// a coworking without a schedule row for that weekday is unrestricted.
func (r *CoworkingRepo) SearchAvailable(ctx context.Context, rng model.TimeRange) ([]model.Coworking, error) {
	day := rng.Day()
	const candQ = `SELECT c.id, c.title, c.institute, c.description, c.address, c.created_at
	               FROM coworkings c
	               LEFT JOIN business_exceptions be ON be.coworking_id = c.id AND be.day = ?
	               WHERE be.id IS NULL
	               ORDER BY c.title`
	rows, err := r.db.QueryContext(ctx, candQ, day.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	candidates := make([]model.Coworking, 0)
	ids := make([]interface{}, 0)
	for rows.Next() {
		var c model.Coworking
		if err := rows.Scan(&c.ID, &c.Title, &c.Institute, &c.Description, &c.Address, &c.CreatedAt); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")

	// Working-hours filter: drop candidates whose schedule row for this
	// weekday exists but does not cover the range.
	schedQ := `SELECT id, coworking_id, week_day, open_time, close_time
	           FROM working_schedules
	           WHERE week_day = ? AND coworking_id IN (` + placeholders + `)`
	schedArgs := append([]interface{}{int(rng.Start.UTC().Weekday())}, ids...)
	srows, err := r.db.QueryContext(ctx, schedQ, schedArgs...)
	if err != nil {
		return nil, err
	}
	schedules, err := scanSchedules(srows)
	srows.Close()
	if err != nil {
		return nil, err
	}
	closed := make(map[string]bool)
	for i := range schedules {
		if !schedules[i].Covers(rng) {
			closed[schedules[i].CoworkingID] = true
		}
	}

	// Seat pools with their overlapping active reservations. The range
	// condition here mirrors TimeRange.Overlaps and only pre-narrows the
	// rows the predicate will see.
	seatQ := `SELECT s.id, s.coworking_id, s.place_type, s.label, s.description, s.seats_count,
	                 r.id, r.user_id, r.session_start, r.session_end, r.status, r.created_at
	          FROM seats s
	          LEFT JOIN reservations r ON r.seat_id = s.id
	             AND r.status IN ('NEW','CONFIRMED')
	             AND r.session_start < ? AND r.session_end > ?
	          WHERE s.coworking_id IN (` + placeholders + `)`
	seatArgs := append([]interface{}{rng.End, rng.Start}, ids...)
	qrows, err := r.db.QueryContext(ctx, seatQ, seatArgs...)
	if err != nil {
		return nil, err
	}
	defer qrows.Close()

	seatsByCoworking := make(map[string][]model.Seat)
	seen := make(map[uint64]bool)
	activeBySeat := make(map[uint64][]model.Reservation)
	for qrows.Next() {
		var (
			seat    model.Seat
			label   sql.NullString
			desc    sql.NullString
			resID   sql.NullInt64
			userID  sql.NullInt64
			start   sql.NullTime
			end     sql.NullTime
			status  sql.NullString
			created sql.NullTime
		)
		if err := qrows.Scan(&seat.ID, &seat.CoworkingID, &seat.PlaceType, &label, &desc, &seat.SeatsCount,
			&resID, &userID, &start, &end, &status, &created); err != nil {
			return nil, err
		}
		if label.Valid {
			l := label.String
			seat.Label = &l
		}
		if desc.Valid {
			d := desc.String
			seat.Description = &d
		}
		if !seen[seat.ID] {
			seen[seat.ID] = true
			seatsByCoworking[seat.CoworkingID] = append(seatsByCoworking[seat.CoworkingID], seat)
		}
		if resID.Valid {
			activeBySeat[seat.ID] = append(activeBySeat[seat.ID], model.Reservation{
				ID:           uint64(resID.Int64),
				UserID:       uint64(userID.Int64),
				SeatID:       seat.ID,
				SessionStart: start.Time,
				SessionEnd:   end.Time,
				Status:       model.Status(status.String),
				CreatedAt:    created.Time,
			})
		}
	}
	if err := qrows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.Coworking, 0, len(candidates))
	for _, c := range candidates {
		if closed[c.ID] {
			continue
		}
		if booking.HasFreeSeat(seatsByCoworking[c.ID], activeBySeat, rng) {
			out = append(out, c)
		}
	}
	return out, nil
}

func scanSchedules(rows *sql.Rows) ([]model.WorkingSchedule, error) {
	out := make([]model.WorkingSchedule, 0)
	for rows.Next() {
		var ws model.WorkingSchedule
		var wd int
		if err := rows.Scan(&ws.ID, &ws.CoworkingID, &wd, &ws.OpenTime, &ws.CloseTime); err != nil {
			return nil, err
		}
		ws.WeekDay = time.Weekday(wd)
		out = append(out, ws)
	}
	return out, rows.Err()
}
