package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avokadim/coworking-backend/internal/model"
	"github.com/avokadim/coworking-backend/internal/repository"
)

// AdminHandler bundles the repositories admins use to set up coworkings.
type AdminHandler struct {
	Coworkings *repository.CoworkingRepo
	Seats      *repository.SeatRepo
}

func NewAdminHandler(cw *repository.CoworkingRepo, seats *repository.SeatRepo) *AdminHandler {
	if cw == nil || seats == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Coworkings: cw, Seats: seats}
}

// ----- DTOs -----

type createCoworkingReq struct {
	Title       string `json:"title"`
	Institute   string `json:"institute"`
	Description string `json:"description"`
	Address     string `json:"address"`
}

type coworkingResp struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Institute   string    `json:"institute"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

type scheduleEntryReq struct {
	WeekDay   int    `json:"week_day"` // 0 = Sunday .. 6 = Saturday
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type roomReq struct {
	Label       string  `json:"label"`
	Description *string `json:"description,omitempty"`
	SeatsCount  uint16  `json:"seats_count"`
}

type createSeatsReq struct {
	TablePlaces  int       `json:"table_places"`
	MeetingRooms []roomReq `json:"meeting_rooms"`
}

type exceptionReq struct {
	Day         string  `json:"day"` // "2006-01-02"
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func toCoworkingResp(c model.Coworking) coworkingResp {
	return coworkingResp{
		ID: c.ID, Title: c.Title, Institute: c.Institute,
		Description: c.Description, Address: c.Address, CreatedAt: c.CreatedAt,
	}
}

// CreateCoworking registers a new coworking space. The opaque ID is
// assigned here and never changes.
func (h *AdminHandler) CreateCoworking(c echo.Context) error {
	var req createCoworkingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Address = strings.TrimSpace(req.Address)
	if req.Title == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/address required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cw := model.Coworking{
		ID:          strings.ReplaceAll(uuid.NewString(), "-", ""),
		Title:       req.Title,
		Institute:   strings.TrimSpace(req.Institute),
		Description: strings.TrimSpace(req.Description),
		Address:     req.Address,
	}
	if err := h.Coworkings.Create(ctx, &cw); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create coworking failed"})
	}
	return c.JSON(http.StatusCreated, toCoworkingResp(cw))
}

// RegisterSchedule sets the weekly open hours of a coworking. Posting a
// weekday that already has hours overwrites it.
func (h *AdminHandler) RegisterSchedule(c echo.Context) error {
	id := c.Param("id")
	var req []scheduleEntryReq
	if err := c.Bind(&req); err != nil || len(req) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule entries required"})
	}

	entries := make([]model.WorkingSchedule, 0, len(req))
	for _, e := range req {
		if e.WeekDay < 0 || e.WeekDay > 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "week_day must be 0..6"})
		}
		open, err := normalizeClock(e.OpenTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid open_time"})
		}
		close, err := normalizeClock(e.CloseTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid close_time"})
		}
		if close <= open {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "close_time must be after open_time"})
		}
		entries = append(entries, model.WorkingSchedule{
			CoworkingID: id,
			WeekDay:     time.Weekday(e.WeekDay),
			OpenTime:    open,
			CloseTime:   close,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Coworkings.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCoworkingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coworking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Coworkings.RegisterSchedule(ctx, id, entries); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "register schedule failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "schedule registered", "entries": len(entries)})
}

// CreateSeats provisions the seat pool of a coworking in one shot:
// N anonymous table places plus the listed meeting rooms.
func (h *AdminHandler) CreateSeats(c echo.Context) error {
	id := c.Param("id")
	var req createSeatsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TablePlaces < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_places must not be negative"})
	}
	if req.TablePlaces == 0 && len(req.MeetingRooms) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one seat required"})
	}

	rooms := make([]model.Seat, 0, len(req.MeetingRooms))
	for _, r := range req.MeetingRooms {
		label := strings.TrimSpace(r.Label)
		if label == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "meeting room label required"})
		}
		if r.SeatsCount == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "meeting room seats_count required"})
		}
		rooms = append(rooms, model.Seat{
			CoworkingID: id,
			PlaceType:   model.PlaceMeetingRoom,
			Label:       &label,
			Description: r.Description,
			SeatsCount:  r.SeatsCount,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Coworkings.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCoworkingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coworking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	created, err := h.Seats.CreatePool(ctx, id, req.TablePlaces, rooms)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seats failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": len(created)})
}

// CreateBusinessException declares a non-business day for a coworking.
func (h *AdminHandler) CreateBusinessException(c echo.Context) error {
	id := c.Param("id")
	var req exceptionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	day, err := time.Parse("2006-01-02", strings.TrimSpace(req.Day))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be YYYY-MM-DD"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Coworkings.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCoworkingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coworking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	exc := model.BusinessException{
		CoworkingID: id,
		Day:         day.UTC(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := h.Coworkings.CreateBusinessException(ctx, &exc); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create exception failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": exc.ID, "day": exc.Day.Format("2006-01-02"), "name": exc.Name})
}

// normalizeClock validates "HH:MM" or "HH:MM:SS" and returns the
// canonical "HH:MM:SS" form stored in the TIME column.
func normalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format("15:04:05"), nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", err
	}
	return t.Format("15:04:05"), nil
}
