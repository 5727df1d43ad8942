package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/coworkings/abc", nil)
	req.RemoteAddr = "10.0.0.5:51234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/coworkings/:id")

	// buckets by route pattern, not the concrete URL, and carries no
	// user component since the limiter runs pre-auth
	assert.Equal(t, "rl:10.0.0.5:/v1/coworkings/:id", rateKey("rl", c))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(3), asInt64(int64(3)))
	assert.Equal(t, int64(3), asInt64(3))
	assert.Equal(t, int64(3), asInt64("3"))
	assert.Equal(t, int64(0), asInt64("not-a-number"))
	assert.Equal(t, int64(0), asInt64(nil))
}
