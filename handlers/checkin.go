package handlers

import (
	"net/http"

	"coachhub/services/checkin"
	"coachhub/utils"

	"github.com/gin-gonic/gin"
)

// CheckInHandler serves client self reports.
type CheckInHandler struct {
	CheckInService checkin.CheckInService
}

// SubmitCheckInHandler handles POST /api/checkins. Only clients submit check-ins.
func (h *CheckInHandler) SubmitCheckInHandler(c *gin.Context) {
	var in checkin.CheckInInput
	if !bindJSON(c, &in) {
		return
	}
	ci, err := h.CheckInService.SubmitCheckIn(c.Request.Context(), c.GetString(utils.CtxUserID), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ci)
}

// ListCheckInsHandler handles GET /api/clients/:id/checkins?from=&to=.
func (h *CheckInHandler) ListCheckInsHandler(c *gin.Context) {
	from, err := queryTime(c, "from")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	to, err := queryTime(c, "to")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	list, err := h.CheckInService.ListCheckIns(c.Request.Context(), viewer(c), c.Param("id"), from, to)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
