package handlers

import (
	"net/http"

	"coachhub/services/plan"
	"coachhub/utils"

	"github.com/gin-gonic/gin"
)

type completeMealRequest struct {
	Completed *bool `json:"completed"`
}

type selectOptionRequest struct {
	Category string `json:"category"`
	Option   string `json:"option"`
	Selected *bool  `json:"selected"`
}

// AddMealHandler handles POST /api/plans/:id/meals.
func (h *PlanHandler) AddMealHandler(c *gin.Context) {
	var in plan.MealInput
	if !bindJSON(c, &in) {
		return
	}
	meal, err := h.PlanService.AddMeal(c.Request.Context(), c.GetString(utils.CtxUserID), c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// ListMealsHandler handles GET /api/plans/:id/meals?dayId=.
func (h *PlanHandler) ListMealsHandler(c *gin.Context) {
	meals, err := h.PlanService.ListMeals(c.Request.Context(), viewer(c), c.Param("id"), c.Query("dayId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

// GetMealHandler handles GET /api/meals/:id.
func (h *PlanHandler) GetMealHandler(c *gin.Context) {
	meal, err := h.PlanService.GetMeal(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// UpdateMealHandler handles PUT /api/meals/:id.
func (h *PlanHandler) UpdateMealHandler(c *gin.Context) {
	var in plan.MealInput
	if !bindJSON(c, &in) {
		return
	}
	meal, err := h.PlanService.UpdateMeal(c.Request.Context(), c.GetString(utils.CtxUserID), c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// DeleteMealHandler handles DELETE /api/meals/:id.
func (h *PlanHandler) DeleteMealHandler(c *gin.Context) {
	if err := h.PlanService.DeleteMeal(c.Request.Context(), c.GetString(utils.CtxUserID), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompleteMealHandler handles POST /api/meals/:id/complete. An empty body marks the meal completed.
func (h *PlanHandler) CompleteMealHandler(c *gin.Context) {
	var req completeMealRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}
	meal, err := h.PlanService.CompleteMeal(c.Request.Context(), viewer(c), c.Param("id"), completed)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// SelectOptionHandler handles POST /api/meals/:id/select-option.
func (h *PlanHandler) SelectOptionHandler(c *gin.Context) {
	var req selectOptionRequest
	if !bindJSON(c, &req) {
		return
	}
	selected := true
	if req.Selected != nil {
		selected = *req.Selected
	}
	meal, err := h.PlanService.SelectOption(c.Request.Context(), viewer(c), c.Param("id"), req.Category, req.Option, selected)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}
