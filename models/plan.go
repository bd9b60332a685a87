package models

import "time"

// PlanFormat tells whether a plan's meals are organised per day or as one general list.
type PlanFormat string

const (
	PlanFormatDaily   PlanFormat = "daily"
	PlanFormatGeneral PlanFormat = "general"
)

func (f PlanFormat) Valid() bool {
	return f == PlanFormatDaily || f == PlanFormatGeneral
}

// Plan is a meal plan header assigned to a client.
type Plan struct {
	ID            string     `bson:"id" json:"id"`
	ClientID      string     `bson:"clientId" json:"clientId"`
	DoctorID      string     `bson:"doctorId" json:"doctorId"`
	Format        PlanFormat `bson:"format" json:"format"`
	Name          string     `bson:"name" json:"name"`
	LocalizedName string     `bson:"localizedName,omitempty" json:"localizedName,omitempty"`
	Tags          []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	Description   string     `bson:"description,omitempty" json:"description,omitempty"`
	StartDate     time.Time  `bson:"startDate" json:"startDate"`
	Notes         string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Meal is one meal entry within a plan.
//
// IsCompleted and Completed are both part of the stored record and are kept
// independently; completion updates only IsCompleted and CompletedAt.
type Meal struct {
	ID          string         `bson:"id" json:"id"`
	PlanID      string         `bson:"planId" json:"planId"`
	ClientID    string         `bson:"clientId" json:"clientId"`
	DayID       string         `bson:"dayId,omitempty" json:"dayId,omitempty"`
	Name        string         `bson:"name" json:"name"`
	IsCompleted bool           `bson:"isCompleted" json:"isCompleted"`
	Completed   bool           `bson:"completed" json:"completed"`
	CompletedAt *time.Time     `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Categories  []MealCategory `bson:"categories" json:"categories"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// MealCategory is a named group of choices within a meal.
type MealCategory struct {
	Name    string       `bson:"name" json:"name"`
	Options []MealOption `bson:"options" json:"options"`
}

// MealOption is a selectable food choice.
type MealOption struct {
	Name     string `bson:"name" json:"name"`
	Selected bool   `bson:"selected" json:"selected"`
}

// CloneCategories returns a deep copy so the result shares no slices with cats.
func CloneCategories(cats []MealCategory) []MealCategory {
	out := make([]MealCategory, len(cats))
	for i, c := range cats {
		opts := make([]MealOption, len(c.Options))
		copy(opts, c.Options)
		out[i] = MealCategory{Name: c.Name, Options: opts}
	}
	return out
}

// Clone returns a deep copy of the meal.
func (m Meal) Clone() Meal {
	out := m
	out.Categories = CloneCategories(m.Categories)
	if m.CompletedAt != nil {
		t := *m.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
