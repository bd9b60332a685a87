package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanFormatValid(t *testing.T) {
	assert.True(t, PlanFormatDaily.Valid())
	assert.True(t, PlanFormatGeneral.Valid())
	assert.False(t, PlanFormat("weekly").Valid())
	assert.False(t, PlanFormat("").Valid())
}

func TestMealCloneSharesNothing(t *testing.T) {
	done := time.Now()
	m := Meal{
		ID:          "m1",
		CompletedAt: &done,
		Categories: []MealCategory{
			{Name: "Protein", Options: []MealOption{{Name: "Eggs"}, {Name: "Tofu"}}},
		},
	}

	c := m.Clone()
	c.Categories[0].Options[0].Selected = true
	c.Categories[0].Name = "Changed"
	*c.CompletedAt = done.Add(time.Hour)

	assert.False(t, m.Categories[0].Options[0].Selected)
	assert.Equal(t, "Protein", m.Categories[0].Name)
	assert.Equal(t, done, *m.CompletedAt)
}

func TestCompletionStatsRate(t *testing.T) {
	assert.Equal(t, 0.0, CompletionStats{}.Rate())
	assert.InDelta(t, 0.75, CompletionStats{Total: 4, Completed: 3}.Rate(), 1e-9)
}

func TestAppointmentStatusTerminal(t *testing.T) {
	assert.False(t, AppointmentScheduled.Terminal())
	assert.True(t, AppointmentCancelled.Terminal())
	assert.True(t, AppointmentCompleted.Terminal())
	assert.False(t, AppointmentStatus("later").Valid())
}
