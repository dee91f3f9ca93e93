package models

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MealPlan is an ordered list of time slots, each holding planned meals.
type MealPlan struct {
	gorm.Model
	OwnerID  uint                          `gorm:"not null;index" json:"owner_id"`
	Owner    *User                         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title    string                        `gorm:"not null" json:"title"`
	PlanData datatypes.JSONSlice[TimeSlot] `json:"plan_data"`
}

// TimeSlot groups the meals planned for one part of the day.
type TimeSlot struct {
	Name  string        `json:"name"`
	Meals []PlannedMeal `json:"meals"`
}

// PlannedMeal is one recipe occurrence inside a time slot.
type PlannedMeal struct {
	RecipeID     uint    `json:"id"`
	Servings     float64 `json:"servings"`
	Diet         string  `json:"diet"`
	IsDairyFree  bool    `json:"isDairyFree"`
	IsGlutenFree bool    `json:"isGlutenFree"`
}

// Validate rejects plans whose meals carry an unknown diet or non-positive servings.
func (p *MealPlan) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	for _, slot := range p.PlanData {
		for idx, meal := range slot.Meals {
			if _, err := ParseDietVariant(meal.Diet); err != nil {
				errs = append(errs, fmt.Errorf("%s meal %d: %w", slot.Name, idx+1, err))
			}
			if meal.Servings <= 0 {
				errs = append(errs, fmt.Errorf("%s meal %d: servings must be positive", slot.Name, idx+1))
			}
		}
	}
	return errors.Join(errs...)
}

// BeforeSave validates the plan before it is written.
func (p *MealPlan) BeforeSave(*gorm.DB) error {
	return p.Validate()
}
