package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is wrapped by repositories when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is wrapped by repositories when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate")
	// ErrConflict is wrapped by repositories when a guarded write finds the document in another state.
	ErrConflict = errors.New("conflict")
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// AppError carries the HTTP status a service failure should be reported with.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(status int, msg string, err error) *AppError {
	return &AppError{Status: status, Message: msg, Err: err}
}

func BadRequest(msg string) *AppError { return newAppError(http.StatusBadRequest, msg, nil) }

func Unauthorized(msg string) *AppError { return newAppError(http.StatusUnauthorized, msg, nil) }

func Forbidden(msg string) *AppError { return newAppError(http.StatusForbidden, msg, nil) }

func NotFound(msg string, err error) *AppError { return newAppError(http.StatusNotFound, msg, err) }

func Conflict(msg string) *AppError { return newAppError(http.StatusConflict, msg, nil) }

func Unavailable(msg string) *AppError {
	return newAppError(http.StatusServiceUnavailable, msg, nil)
}

func Internal(msg string, err error) *AppError {
	return newAppError(http.StatusInternalServerError, msg, err)
}

// StatusOf reports the HTTP status for err.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.Int("status", status), zap.String("details", details))
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details})
}

// RespondError writes err using the status and message of the AppError it wraps.
// Errors without one are reported as a generic 500 and logged in full.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		details := ""
		if appErr.Err != nil && appErr.Status < http.StatusInternalServerError {
			details = appErr.Err.Error()
		}
		if appErr.Status >= http.StatusInternalServerError {
			GetLogger().Error(appErr.Message, zap.Error(appErr.Err))
		}
		JSONError(c, appErr.Status, appErr.Message, details)
	case errors.Is(err, ErrNotFound):
		JSONError(c, http.StatusNotFound, "Resource not found", "")
	default:
		GetLogger().Error("Unhandled service error", zap.Error(err))
		JSONError(c, http.StatusInternalServerError, "Internal Server Error", "Please try again later.")
	}
}
