package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenClaims are the identity fields carried by an access token.
type TokenClaims struct {
	UserID   string
	Role     string
	DeviceID string
}

// TokenIssuer signs and validates access tokens with a shared HMAC secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// GenerateToken creates a signed JWT token for the given user, role and device.
func (ti *TokenIssuer) GenerateToken(claims TokenClaims) (string, error) {
	now := time.Now()
	mc := jwt.MapClaims{
		"sub":    claims.UserID,
		"role":   claims.Role,
		"device": claims.DeviceID,
		"iat":    now.Unix(),
		"exp":    now.Add(ti.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return token.SignedString(ti.secret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func (ti *TokenIssuer) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return ti.secret, nil
	})
}

// ExtractClaims validates tokenString and returns its identity claims.
func (ti *TokenIssuer) ExtractClaims(tokenString string) (TokenClaims, error) {
	token, err := ti.ValidateToken(tokenString)
	if err != nil {
		return TokenClaims{}, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return TokenClaims{}, errors.New("invalid token")
	}

	sub, _ := mc["sub"].(string)
	role, _ := mc["role"].(string)
	device, _ := mc["device"].(string)
	if sub == "" || role == "" || device == "" {
		return TokenClaims{}, errors.New("token is missing identity claims")
	}
	return TokenClaims{UserID: sub, Role: role, DeviceID: device}, nil
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
