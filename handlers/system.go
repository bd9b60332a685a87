package handlers

import (
	"net/http"

	"coachhub/config"
	"coachhub/services/realtime"
	"coachhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConfigHandler handles GET /api/config with the endpoints the mobile client should use.
func ConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, config.ClientEndpoints())
}

// HealthHandler handles GET /health with the latest dependency snapshot.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status.Status(), "checks": status})
}

// SocketHandler upgrades authenticated requests to realtime event streams.
type SocketHandler struct {
	Hub *realtime.Hub
}

// ServeWSHandler handles GET /ws. The connection lives until either side closes it.
func (h *SocketHandler) ServeWSHandler(c *gin.Context) {
	userID := c.GetString(utils.CtxUserID)
	if err := h.Hub.Serve(c.Writer, c.Request, userID); err != nil {
		// The upgrader has already written the failure response.
		getLogger(c).Warn("Websocket upgrade failed", zap.Error(err))
	}
}
