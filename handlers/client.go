package handlers

import (
	"net/http"
	"strings"

	"coachhub/models"
	"coachhub/services/client"
	"coachhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClientHandler serves a doctor's client roster.
type ClientHandler struct {
	ClientService client.ClientService
}

// ListClientsHandler handles GET /api/clients?search=&status=&tag=&sort=&limit=&offset=.
func (h *ClientHandler) ListClientsHandler(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	filter := models.ClientFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Status: models.ClientStatus(c.Query("status")),
		Tag:    strings.TrimSpace(c.Query("tag")),
		Sort:   c.Query("sort"),
		Limit:  int64(limit),
		Offset: int64(offset),
	}
	list, err := h.ClientService.ListClients(c.Request.Context(), c.GetString(utils.CtxUserID), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": list, "count": len(list)})
}

// GetClientHandler handles GET /api/clients/:id.
func (h *ClientHandler) GetClientHandler(c *gin.Context) {
	details, err := h.ClientService.GetClientProfile(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// CreateClientHandler handles POST /api/clients.
func (h *ClientHandler) CreateClientHandler(c *gin.Context) {
	var input client.CreateClientInput
	if !bindJSON(c, &input) {
		return
	}
	doctorID := c.GetString(utils.CtxUserID)
	usr, err := h.ClientService.CreateClient(c.Request.Context(), doctorID, input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("Client enrolled", zap.String("clientID", usr.ID))
	c.JSON(http.StatusCreated, usr)
}

// UpdateClientHandler handles PATCH /api/clients/:id.
func (h *ClientHandler) UpdateClientHandler(c *gin.Context) {
	var patch models.ClientPatch
	if !bindJSON(c, &patch) {
		return
	}
	usr, err := h.ClientService.UpdateClient(c.Request.Context(), c.GetString(utils.CtxUserID), c.Param("id"), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}
