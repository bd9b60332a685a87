package handlers

import (
	"net/http"

	"coachhub/models"
	"coachhub/services/appointment"
	"coachhub/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler serves appointment scheduling.
type AppointmentHandler struct {
	AppointmentService appointment.AppointmentService
}

type statusRequest struct {
	Status models.AppointmentStatus `json:"status"`
}

// CreateAppointmentHandler handles POST /api/appointments.
func (h *AppointmentHandler) CreateAppointmentHandler(c *gin.Context) {
	var in appointment.AppointmentInput
	if !bindJSON(c, &in) {
		return
	}
	appt, err := h.AppointmentService.CreateAppointment(c.Request.Context(), c.GetString(utils.CtxUserID), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// ListAppointmentsHandler handles GET /api/appointments?from=&to=&status=&clientId=.
func (h *AppointmentHandler) ListAppointmentsHandler(c *gin.Context) {
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
	q := models.AppointmentQuery{
		ClientID: c.Query("clientId"),
		From:     from,
		To:       to,
		Status:   models.AppointmentStatus(c.Query("status")),
	}
	appts, err := h.AppointmentService.ListAppointments(c.Request.Context(), viewer(c), q)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

// UpdateStatusHandler handles PATCH /api/appointments/:id/status.
func (h *AppointmentHandler) UpdateStatusHandler(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	appt, err := h.AppointmentService.UpdateStatus(c.Request.Context(), viewer(c), c.Param("id"), req.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// CancelAppointmentHandler handles POST /api/appointments/:id/cancel.
func (h *AppointmentHandler) CancelAppointmentHandler(c *gin.Context) {
	appt, err := h.AppointmentService.Cancel(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}
