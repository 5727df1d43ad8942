package model

import (
	"time"
)

// WorkingSchedule mirrors the `working_schedules` table: at most one row
// per coworking and weekday. WeekDay uses Go's time.Weekday numbering
// (Sunday == 0). Absence of a row for a weekday means the coworking has
// no hour restriction on that day; the schedule is advisory and only
// filters search listings, never blocks reservation creation.
type WorkingSchedule struct {
	ID          uint64
	CoworkingID string
	WeekDay     time.Weekday
	OpenTime    string // "HH:MM:SS", as stored in the TIME column
	CloseTime   string
}

// Covers reports whether the session range falls entirely inside the
// open hours. Ranges never span midnight, so comparing seconds-of-day
// is sufficient.
func (ws *WorkingSchedule) Covers(rng TimeRange) bool {
	open, okOpen := parseClock(ws.OpenTime)
	close, okClose := parseClock(ws.CloseTime)
	if !okOpen || !okClose {
		return false
	}
	return secondsOfDay(rng.Start) >= open && secondsOfDay(rng.End) <= close
}

// BusinessException mirrors the `business_exceptions` table. A row for a
// coworking and calendar date means no reservation may start on that
// date, regardless of working hours.
type BusinessException struct {
	ID          uint64
	CoworkingID string
	Day         time.Time // date at UTC midnight
	Name        string
	Description *string
}

func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		// seconds are optional in admin input
		t, err = time.Parse("15:04", s)
		if err != nil {
			return 0, false
		}
	}
	return secondsOfDay(t), true
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
