package handlers

import (
	"net/http"

	"coachhub/services/plan"
	"coachhub/utils"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves nutrition plans and their meals.
type PlanHandler struct {
	PlanService plan.PlanService
}

// CreatePlanHandler handles POST /api/clients/:id/plans.
func (h *PlanHandler) CreatePlanHandler(c *gin.Context) {
	var in plan.PlanInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.PlanService.CreatePlan(c.Request.Context(), c.GetString(utils.CtxUserID), c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListPlansHandler handles GET /api/clients/:id/plans.
func (h *PlanHandler) ListPlansHandler(c *gin.Context) {
	plans, err := h.PlanService.ListPlans(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlanHandler handles GET /api/plans/:id.
func (h *PlanHandler) GetPlanHandler(c *gin.Context) {
	p, err := h.PlanService.GetPlan(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdatePlanHandler handles PUT /api/plans/:id.
func (h *PlanHandler) UpdatePlanHandler(c *gin.Context) {
	var in plan.PlanInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.PlanService.UpdatePlan(c.Request.Context(), c.GetString(utils.CtxUserID), c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePlanHandler handles DELETE /api/plans/:id, removing its meals as well.
func (h *PlanHandler) DeletePlanHandler(c *gin.Context) {
	if err := h.PlanService.DeletePlan(c.Request.Context(), c.GetString(utils.CtxUserID), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
