package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coachhub/database/repository/repotest"
	"coachhub/models"
	"coachhub/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	auth  *Authenticator
	mr    *miniredis.Miniredis
	token string
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	token, err := tokens.GenerateToken(utils.TokenClaims{UserID: "d1", Role: string(models.RoleDoctor), DeviceID: "phone"})
	require.NoError(t, err)

	users := repotest.NewUsers(models.User{
		ID: "d1", Role: models.RoleDoctor, Email: "d1@example.com",
		Devices: []models.Device{{DeviceID: "phone", TokenHash: utils.HashToken(token)}},
	})
	return &authFixture{
		auth:  &Authenticator{Tokens: tokens, Users: users, AuthCache: cache},
		mr:    mr,
		token: token,
	}
}

func (f *authFixture) router(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{f.auth.JWTAuthMiddleware()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		v := ViewerFrom(c)
		c.JSON(http.StatusOK, gin.H{"user": v.UserID, "role": v.Role, "device": c.GetString(utils.CtxDeviceID)})
	})
	r.GET("/private", handlers...)
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	f := newAuthFixture(t)
	w := get(f.router(), "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthFallsBackToStoredHashAndPrimesCache(t *testing.T) {
	f := newAuthFixture(t)

	w := get(f.router(), "/private", f.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"d1","role":"doctor","device":"phone"}`, w.Body.String())

	cached, err := f.mr.Get(utils.AuthCacheKey("d1", "phone"))
	require.NoError(t, err)
	assert.Equal(t, utils.HashToken(f.token), cached)
	assert.Equal(t, utils.AuthCacheTTL, f.mr.TTL(utils.AuthCacheKey("d1", "phone")))
}

func TestJWTAuthRejectsSupersededToken(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.mr.Set(utils.AuthCacheKey("d1", "phone"), "another-hash"))

	w := get(f.router(), "/private", f.token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRejectsRevokedDevice(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.auth.Users.RemoveDevice(context.Background(), "d1", "phone"))

	w := get(f.router(), "/private", f.token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthAcceptsQueryToken(t *testing.T) {
	f := newAuthFixture(t)
	w := get(f.router(), "/private?token="+f.token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthRejectsForgedToken(t *testing.T) {
	f := newAuthFixture(t)
	forged, err := utils.NewTokenIssuer("other-secret", time.Hour).
		GenerateToken(utils.TokenClaims{UserID: "d1", Role: "doctor", DeviceID: "phone"})
	require.NoError(t, err)

	w := get(f.router(), "/private", forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	f := newAuthFixture(t)

	w := get(f.router(RequireRole(models.RoleClient)), "/private", f.token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(f.router(RequireRole(models.RoleClient, models.RoleDoctor)), "/private", f.token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestGetClientIP(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "192.0.2.7:5123"
	assert.Equal(t, "192.0.2.7", getClientIP(c))

	c.Request.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", getClientIP(c))

	c.Request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", getClientIP(c))
}
