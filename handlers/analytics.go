package handlers

import (
	"net/http"

	"coachhub/services/activity"
	"coachhub/services/analytics"
	"coachhub/utils"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves dashboards, client analytics and weekly activity.
type AnalyticsHandler struct {
	AnalyticsService analytics.AnalyticsService
	ActivityService  activity.ActivityService
}

// DashboardHandler handles GET /api/dashboard.
func (h *AnalyticsHandler) DashboardHandler(c *gin.Context) {
	dash, err := h.AnalyticsService.DoctorDashboard(c.Request.Context(), c.GetString(utils.CtxUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// ClientAnalyticsHandler handles GET /api/clients/:id/analytics?days=.
func (h *AnalyticsHandler) ClientAnalyticsHandler(c *gin.Context) {
	days, err := queryInt(c, "days")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	report, err := h.AnalyticsService.ClientAnalytics(c.Request.Context(), viewer(c), c.Param("id"), days)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// WeeklyActivityHandler handles GET /api/clients/:id/activity?weekStart=.
func (h *AnalyticsHandler) WeeklyActivityHandler(c *gin.Context) {
	weekStart, err := queryTime(c, "weekStart")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	week, err := h.ActivityService.WeeklyActivity(c.Request.Context(), viewer(c), c.Param("id"), weekStart)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}
