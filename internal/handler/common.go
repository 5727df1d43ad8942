package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every database round trip made from a handler.
const dbTimeout = 5 * time.Second

// getUserID extracts the authenticated user ID set by the JWT middleware.
// JWT claims round-trip through JSON, so the subject usually arrives as
// a float64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseSessionTimes reads RFC 3339 from/to values out of two strings.
func parseSessionTimes(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse(time.RFC3339, toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
