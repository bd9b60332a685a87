package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coachhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestQueryTime(t *testing.T) {
	c := testContext("/?from=2026-03-02&to=2026-03-09T12:30:00Z&bad=yesterday")

	from, err := queryTime(c, "from")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), from)

	to, err := queryTime(c, "to")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 12, 30, 0, 0, time.UTC), to)

	missing, err := queryTime(c, "since")
	require.NoError(t, err)
	assert.True(t, missing.IsZero())

	_, err = queryTime(c, "bad")
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
}

func TestQueryInt(t *testing.T) {
	c := testContext("/?days=14&limit=ten")

	n, err := queryInt(c, "days")
	require.NoError(t, err)
	assert.Equal(t, 14, n)

	_, err = queryInt(c, "limit")
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
}

func TestDeviceFrom(t *testing.T) {
	c := testContext("/")
	_, ok := deviceFrom(c)
	assert.False(t, ok)

	c.Request.Header.Set("X-Device-ID", "pixel-8")
	c.Request.Header.Set("X-Device-Name", "Ana's phone")
	d, ok := deviceFrom(c)
	require.True(t, ok)
	assert.Equal(t, "pixel-8", d.DeviceID)
	assert.Equal(t, "Ana's phone", d.DeviceName)
}
