package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userRepo "coachhub/database/repository/user"
	"coachhub/models"
	"coachhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Authenticator validates bearer tokens against the per-device token hash.
type Authenticator struct {
	Tokens    *utils.TokenIssuer
	Users     userRepo.UserRepository
	AuthCache *redis.Client
}

var errTokenRevoked = errors.New("token revoked or superseded")

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	// Browsers cannot set headers on a websocket handshake.
	return c.Query("token")
}

// Verify checks the token signature, then compares its hash with the cached hash for the
// device, falling back to the hash stored on the user record.
func (a *Authenticator) Verify(ctx context.Context, token string) (utils.TokenClaims, error) {
	claims, err := a.Tokens.ExtractClaims(token)
	if err != nil {
		return utils.TokenClaims{}, err
	}
	hash := utils.HashToken(token)
	key := utils.AuthCacheKey(claims.UserID, claims.DeviceID)

	if a.AuthCache != nil {
		cached, err := a.AuthCache.Get(ctx, key).Result()
		switch {
		case err == nil && cached == hash:
			_ = a.AuthCache.Expire(ctx, key, utils.AuthCacheTTL).Err()
			return claims, nil
		case err == nil:
			return utils.TokenClaims{}, errTokenRevoked
		case !errors.Is(err, redis.Nil):
			utils.GetLogger().Warn("Auth cache unavailable, falling back to DB", zap.Error(err))
		}
	}

	stored, err := a.Users.GetDeviceTokenHash(ctx, claims.UserID, claims.DeviceID)
	if err != nil {
		return utils.TokenClaims{}, err
	}
	if stored == "" || stored != hash {
		return utils.TokenClaims{}, errTokenRevoked
	}
	if a.AuthCache != nil {
		_ = a.AuthCache.Set(ctx, key, hash, utils.AuthCacheTTL).Err()
	}
	return claims, nil
}

// JWTAuthMiddleware rejects requests without a valid, unrevoked token and stores the caller's identity.
func (a *Authenticator) JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "missing bearer token")
			return
		}
		claims, err := a.Verify(c.Request.Context(), token)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "invalid or revoked token")
			return
		}
		c.Set(utils.CtxUserID, claims.UserID)
		c.Set(utils.CtxRole, claims.Role)
		c.Set(utils.CtxDeviceID, claims.DeviceID)
		c.Next()
	}
}

// RequireRole only lets callers with one of roles through. It must run after JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.Role(c.GetString(utils.CtxRole))
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, "Forbidden", "this endpoint is not available for role "+string(role))
	}
}

// ViewerFrom returns the authenticated caller.
func ViewerFrom(c *gin.Context) models.Viewer {
	return models.Viewer{
		UserID: c.GetString(utils.CtxUserID),
		Role:   models.Role(c.GetString(utils.CtxRole)),
	}
}
