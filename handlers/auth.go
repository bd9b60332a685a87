package handlers

import (
	"net/http"

	"coachhub/services/storage"
	"coachhub/services/user"
	"coachhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves authentication and the caller's own account.
type UserHandler struct {
	UserService user.UserService
	Storage     storage.StorageService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler handles POST /api/auth/register.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	device, ok := deviceFrom(c)
	if !ok {
		utils.RespondError(c, utils.BadRequest("Missing device details: X-Device-ID"))
		return
	}
	var req user.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.UserService.Register(c.Request.Context(), req, device)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("User registered", zap.String("id", resp.User.ID), zap.String("role", string(resp.User.Role)))
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler handles POST /api/auth/login.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	device, ok := deviceFrom(c)
	if !ok {
		utils.RespondError(c, utils.BadRequest("Missing device details: X-Device-ID"))
		return
	}
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.UserService.Login(c.Request.Context(), req.Email, req.Password, device)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LogoutHandler handles POST /api/auth/logout and revokes the current device token.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	userID := c.GetString(utils.CtxUserID)
	deviceID := c.GetString(utils.CtxDeviceID)
	if err := h.UserService.Logout(c.Request.Context(), userID, deviceID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
