package handlers

import (
	"net/http"
	"strings"

	"coachhub/models"
	"coachhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxAvatarBytes = 5 << 20

// GetMeHandler handles GET /api/me.
func (h *UserHandler) GetMeHandler(c *gin.Context) {
	usr, err := h.UserService.GetUserByID(c.Request.Context(), c.GetString(utils.CtxUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateMeHandler handles PATCH /api/me.
func (h *UserHandler) UpdateMeHandler(c *gin.Context) {
	var update models.UserUpdate
	if !bindJSON(c, &update) {
		return
	}
	usr, err := h.UserService.UpdateUser(c.Request.Context(), c.GetString(utils.CtxUserID), update)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

type fcmTokenRequest struct {
	Token string `json:"token"`
}

// UpdateFCMTokenHandler handles PUT /api/me/fcm-token.
func (h *UserHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var req fcmTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.UserService.UpdateFCMToken(c.Request.Context(), c.GetString(utils.CtxUserID), strings.TrimSpace(req.Token)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAvatarHandler handles POST /api/me/avatar with a multipart "file" field.
func (h *UserHandler) UploadAvatarHandler(c *gin.Context) {
	logger := getLogger(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes)

	header, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, utils.BadRequest("missing image file"))
		return
	}
	file, err := header.Open()
	if err != nil {
		logger.Error("Failed to open uploaded avatar", zap.Error(err))
		utils.RespondError(c, utils.BadRequest("unreadable image file"))
		return
	}
	defer file.Close()

	url, err := h.Storage.UploadAvatar(c.Request.Context(), c.GetString(utils.CtxUserID), file)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profileImage": url})
}
