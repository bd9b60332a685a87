package handlers

import (
	"strconv"
	"strings"
	"time"

	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the shared logger tagged with the caller, when known.
func getLogger(c *gin.Context) *zap.Logger {
	logger := utils.GetLogger()
	if userID := c.GetString(utils.CtxUserID); userID != "" {
		return logger.With(zap.String("userID", userID))
	}
	return logger
}

func viewer(c *gin.Context) models.Viewer {
	return middleware.ViewerFrom(c)
}

// deviceFrom builds the login device from the X-Device-* headers.
func deviceFrom(c *gin.Context) (models.Device, bool) {
	id := c.GetString("deviceIDHeader")
	if id == "" {
		id = strings.TrimSpace(c.GetHeader("X-Device-ID"))
	}
	if id == "" {
		return models.Device{}, false
	}
	name := c.GetString("deviceName")
	if name == "" {
		name = strings.TrimSpace(c.GetHeader("X-Device-Name"))
	}
	return models.Device{DeviceID: id, DeviceName: name}, true
}

// queryTime accepts either an RFC 3339 timestamp or a YYYY-MM-DD date.
func queryTime(c *gin.Context, key string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(utils.DateLayout, raw)
	if err != nil {
		return time.Time{}, utils.BadRequest(key + " must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	return t, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.BadRequest(key + " must be an integer")
	}
	return n, nil
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		getLogger(c).Debug("Invalid request body", zap.Error(err))
		utils.RespondError(c, utils.BadRequest("invalid request body: "+err.Error()))
		return false
	}
	return true
}
