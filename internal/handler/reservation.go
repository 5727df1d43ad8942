package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/avokadim/coworking-backend/internal/booking"
	"github.com/avokadim/coworking-backend/internal/model"
	"github.com/avokadim/coworking-backend/internal/queue"
	"github.com/avokadim/coworking-backend/internal/repository"
	"github.com/avokadim/coworking-backend/internal/service"
)

// ReservationHandler performs admission control for reservations. All
// methods assume JWT authentication and role checks already ran in
// middleware. Create and Cancel run inside a transaction with row locks
// so concurrent requests for the last free seat cannot both succeed.
type ReservationHandler struct {
	Coworkings   *repository.CoworkingRepo
	Seats        *repository.SeatRepo
	Reservations *repository.ReservationRepo
	Log          *zap.Logger
}

func NewReservationHandler(cw *repository.CoworkingRepo, seats *repository.SeatRepo, res *repository.ReservationRepo, log *zap.Logger) *ReservationHandler {
	if cw == nil || seats == nil || res == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Coworkings: cw, Seats: seats, Reservations: res, Log: log}
}

type createReservationReq struct {
	CoworkingID  string `json:"coworking_id"`
	PlaceType    string `json:"place_type"`
	SessionStart string `json:"session_start"` // RFC 3339
	SessionEnd   string `json:"session_end"`
}

type reservationResp struct {
	ID           uint64       `json:"id"`
	SeatID       uint64       `json:"seat_id"`
	SeatLabel    *string      `json:"seat_label,omitempty"`
	Status       model.Status `json:"status"`
	SessionStart time.Time    `json:"session_start"`
	SessionEnd   time.Time    `json:"session_end"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Create handles POST /v1/reservations. The seat is picked by the
// server; the client only names the coworking and place type.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CoworkingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "coworking_id required"})
	}
	placeType, ok := model.ParsePlaceType(req.PlaceType)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "place_type must be TABLE or MEETING_ROOM"})
	}
	start, end, err := parseSessionTimes(req.SessionStart, req.SessionEnd)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_start/session_end must be RFC 3339 timestamps"})
	}

	now := time.Now()
	rng, err := model.NewTimeRange(start, end, now)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, seat, err := h.admit(ctx, userID, req.CoworkingID, placeType, rng, now)
	if err != nil {
		return reservationError(c, err)
	}

	h.publishEvent(c, "created", res, seat)

	return c.JSON(http.StatusCreated, reservationResp{
		ID:           res.ID,
		SeatID:       seat.ID,
		SeatLabel:    seat.Label,
		Status:       res.Status,
		SessionStart: res.SessionStart,
		SessionEnd:   res.SessionEnd,
		CreatedAt:    res.CreatedAt,
	})
}

// admit runs the admission pipeline inside one transaction. Validation
// order is fixed: coworking existence, then the business-day check, then
// seat availability. Locking every candidate seat row serializes
// concurrent requests for the same pool, so two calls can never admit
// two overlapping reservations onto one seat.
func (h *ReservationHandler) admit(ctx context.Context, userID uint64, coworkingID string, placeType model.PlaceType, rng model.TimeRange, now time.Time) (model.Reservation, model.Seat, error) {
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, model.Seat{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Coworkings.ExistsTx(ctx, tx, coworkingID); err != nil {
		return model.Reservation{}, model.Seat{}, err
	}

	blocked, err := h.Coworkings.HasBusinessExceptionTx(ctx, tx, coworkingID, rng.Day())
	if err != nil {
		return model.Reservation{}, model.Seat{}, err
	}

	var (
		seats  []model.Seat
		active map[uint64][]model.Reservation
	)
	if !blocked {
		seats, err = h.Seats.ListByTypeForUpdateTx(ctx, tx, coworkingID, placeType)
		if err != nil {
			return model.Reservation{}, model.Seat{}, err
		}
		seatIDs := make([]uint64, 0, len(seats))
		for _, s := range seats {
			seatIDs = append(seatIDs, s.ID)
		}
		active, err = h.Reservations.ActiveBySeatTx(ctx, tx, seatIDs, rng)
		if err != nil {
			return model.Reservation{}, model.Seat{}, err
		}
	}

	res, seat, err := admitDecision(userID, blocked, seats, active, rng, now)
	if err != nil {
		return model.Reservation{}, model.Seat{}, err
	}
	if err := h.Reservations.CreateTx(ctx, tx, &res); err != nil {
		return model.Reservation{}, model.Seat{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, model.Seat{}, err
	}
	committed = true
	return res, seat, nil
}

// admitDecision applies the admission rules in their fixed order over
// data already read inside the transaction: a business exception on the
// session day rejects before any seat is considered, then the pool is
// searched for a free seat, then the initial status is decided.
func admitDecision(userID uint64, nonBusinessDay bool, seats []model.Seat, active map[uint64][]model.Reservation, rng model.TimeRange, now time.Time) (model.Reservation, model.Seat, error) {
	if nonBusinessDay {
		return model.Reservation{}, model.Seat{}, repository.ErrNonBusinessDay
	}
	seat, ok := booking.FindFreeSeat(seats, active, rng)
	if !ok {
		return model.Reservation{}, model.Seat{}, repository.ErrNoAvailableSeat
	}
	res := model.Reservation{
		UserID:       userID,
		SeatID:       seat.ID,
		SessionStart: rng.Start,
		SessionEnd:   rng.End,
		Status:       model.InitialStatus(rng.Start, now),
	}
	return res, seat, nil
}

// Cancel handles DELETE /v1/reservations/:id. Only the owner may cancel,
// and only while the reservation is NEW or CONFIRMED. The row is kept
// with status CANCELLED; the seat becomes available again immediately.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.cancel(ctx, userID, id)
	if err != nil {
		return reservationError(c, err)
	}

	// cancelled events carry the same seat detail as created ones
	seat, err := h.Seats.GetByID(ctx, res.SeatID)
	if err != nil {
		seat = model.Seat{ID: res.SeatID}
	}
	h.publishEvent(c, "cancelled", res, seat)

	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.StatusCancelled})
}

// cancel flips a reservation to CANCELLED inside a transaction. The row
// lock keeps the status check and the update atomic against the sweeper.
func (h *ReservationHandler) cancel(ctx context.Context, userID, id uint64) (model.Reservation, error) {
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if res.UserID != userID {
		return model.Reservation{}, repository.ErrForbidden
	}
	if err := res.Status.CanCancel(); err != nil {
		return model.Reservation{}, err
	}
	if err := h.Reservations.MarkCancelledTx(ctx, tx, id); err != nil {
		return model.Reservation{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	committed = true
	res.Status = model.StatusCancelled
	return res, nil
}

// ListMine handles GET /v1/my-reservations: the caller's non-cancelled
// reservations from today on, with seat and coworking detail.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": items})
}

// reservationError translates domain sentinels into HTTP responses.
// Anything unmatched is an infrastructure failure.
func reservationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrCoworkingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "coworking not found"})
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, repository.ErrNonBusinessDay):
		return c.JSON(http.StatusConflict, echo.Map{"error": "coworking is closed on that day"})
	case errors.Is(err, repository.ErrNoAvailableSeat):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no available seat"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your reservation"})
	case errors.Is(err, model.ErrAlreadyPassed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already passed"})
	case errors.Is(err, model.ErrAlreadyCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already cancelled"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// publishEvent fires a reservation event in the background. Broker
// failures are logged, never surfaced: the reservation is already
// committed by the time this runs.
func (h *ReservationHandler) publishEvent(c echo.Context, kind string, res model.Reservation, seat model.Seat) {
	title := ""
	if seat.CoworkingID != "" {
		if cw, err := h.Coworkings.GetByID(c.Request().Context(), seat.CoworkingID); err == nil {
			title = cw.Title
		}
	}
	ev := queue.ReservationEvent{
		Kind:           kind,
		ReservationID:  res.ID,
		UserID:         res.UserID,
		CoworkingID:    seat.CoworkingID,
		CoworkingTitle: title,
		SeatID:         res.SeatID,
		SeatLabel:      seat.Label,
		PlaceType:      string(seat.PlaceType),
		Status:         string(res.Status),
		SessionStart:   res.SessionStart.UTC().Format(time.RFC3339),
		SessionEnd:     res.SessionEnd.UTC().Format(time.RFC3339),
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := service.PublishReservationEvent(ctx, ev); err != nil && h.Log != nil {
			h.Log.Warn("publish reservation event failed", zap.Error(err))
		}
	}()
}
