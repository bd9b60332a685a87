// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = time.Hour

// AnalyticsCachePrefix prefixes cached doctor dashboards.
const AnalyticsCachePrefix = "analytics:dashboard:"

// Context keys set by the auth middleware.
const (
	CtxUserID   = "userID"
	CtxRole     = "role"
	CtxDeviceID = "deviceID"
)
