package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avokadim/coworking-backend/internal/model"
	"github.com/avokadim/coworking-backend/internal/repository"
)

// BrowseHandler serves the unauthenticated coworking catalog.
type BrowseHandler struct {
	Coworkings *repository.CoworkingRepo
	Seats      *repository.SeatRepo
}

func NewBrowseHandler(cw *repository.CoworkingRepo, seats *repository.SeatRepo) *BrowseHandler {
	if cw == nil || seats == nil {
		panic("nil repository passed to NewBrowseHandler")
	}
	return &BrowseHandler{Coworkings: cw, Seats: seats}
}

type scheduleResp struct {
	WeekDay   int    `json:"week_day"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type seatResp struct {
	ID          uint64          `json:"id"`
	PlaceType   model.PlaceType `json:"place_type"`
	Label       *string         `json:"label,omitempty"`
	Description *string         `json:"description,omitempty"`
	SeatsCount  uint16          `json:"seats_count"`
}

type exceptionResp struct {
	Day         string  `json:"day"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type coworkingDetailResp struct {
	coworkingResp
	Schedules  []scheduleResp  `json:"schedules"`
	Seats      []seatResp      `json:"seats"`
	Exceptions []exceptionResp `json:"business_exceptions"`
}

// List returns coworkings, optionally filtered by ?title=&institute=&address=.
func (h *BrowseHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Coworkings.Search(ctx, repository.SearchParams{
		Title:     c.QueryParam("title"),
		Institute: c.QueryParam("institute"),
		Address:   c.QueryParam("address"),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]coworkingResp, 0, len(items))
	for _, cw := range items {
		out = append(out, toCoworkingResp(cw))
	}
	return c.JSON(http.StatusOK, echo.Map{"coworkings": out})
}

// Get returns one coworking with its schedule, seat pool and upcoming
// non-business days.
func (h *BrowseHandler) Get(c echo.Context) error {
	id := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cw, err := h.Coworkings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCoworkingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coworking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	schedules, err := h.Coworkings.ListSchedules(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	seats, err := h.Seats.ListByCoworking(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	exceptions, err := h.Coworkings.ListBusinessExceptions(ctx, id, todayUTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	resp := coworkingDetailResp{
		coworkingResp: toCoworkingResp(cw),
		Schedules:     make([]scheduleResp, 0, len(schedules)),
		Seats:         make([]seatResp, 0, len(seats)),
		Exceptions:    make([]exceptionResp, 0, len(exceptions)),
	}
	for _, s := range schedules {
		resp.Schedules = append(resp.Schedules, scheduleResp{WeekDay: int(s.WeekDay), OpenTime: s.OpenTime, CloseTime: s.CloseTime})
	}
	for _, s := range seats {
		resp.Seats = append(resp.Seats, seatResp{ID: s.ID, PlaceType: s.PlaceType, Label: s.Label, Description: s.Description, SeatsCount: s.SeatsCount})
	}
	for _, e := range exceptions {
		resp.Exceptions = append(resp.Exceptions, exceptionResp{Day: e.Day.Format("2006-01-02"), Name: e.Name, Description: e.Description})
	}
	return c.JSON(http.StatusOK, resp)
}

// SearchAvailable returns coworkings with at least one free seat for the
// session range given as ?from=&to= (RFC 3339). The range must satisfy
// the same validity rules as a reservation.
func (h *BrowseHandler) SearchAvailable(c echo.Context) error {
	from, to, err := parseSessionTimes(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from/to must be RFC 3339 timestamps"})
	}
	rng, err := model.NewTimeRange(from, to, time.Now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Coworkings.SearchAvailable(ctx, rng)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]coworkingResp, 0, len(items))
	for _, cw := range items {
		out = append(out, toCoworkingResp(cw))
	}
	return c.JSON(http.StatusOK, echo.Map{"coworkings": out})
}

func todayUTC() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
