package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// DeviceDetailsMiddleware copies the device headers into the context.
func DeviceDetailsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("deviceIDHeader", strings.TrimSpace(c.GetHeader("X-Device-ID")))
		c.Set("deviceName", strings.TrimSpace(c.GetHeader("X-Device-Name")))
		c.Set("clientIP", getClientIP(c))
		c.Next()
	}
}
