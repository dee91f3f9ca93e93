// Package shopping turns a meal plan into a categorised shopping list.
//
// The pipeline runs Aggregate, Normalize, Scale, Merge, Project and Format in
// that order. Every stage except the store lookups in Service is pure.
// Per-ingredient problems are reported as Diagnostics and never abort a list.
package shopping

import (
	"encoding/json"
	"errors"
	"fmt"

	"mealplanner/models"
)

var (
	ErrMissingMealPlan            = errors.New("shopping: meal plan not found")
	ErrMissingRecipe              = errors.New("shopping: recipe not found")
	ErrMissingIngredientReference = errors.New("shopping: ingredient not found")
	ErrMissingSubstitute          = errors.New("shopping: substitute ingredient not found")
	ErrInvalidServings            = errors.New("shopping: recipe servings must be positive")
	ErrConversionUnderflow        = errors.New("shopping: shopping conversion factors missing")
	ErrDefaultedQuantity          = errors.New("shopping: quantity defaulted")
	ErrMissingShoppingList        = errors.New("shopping: shopping list not found")
	ErrInvalidShoppingList        = errors.New("shopping: invalid shopping list")
	ErrUnknownCategory            = models.ErrUnknownCategory
)

// Diagnostic reports a problem with a single ingredient or recipe that was
// degraded or skipped instead of failing the whole list.
type Diagnostic struct {
	IngredientID uint
	RecipeID     uint
	Title        string
	Err          error
}

func (d Diagnostic) Error() string {
	switch {
	case d.Title != "":
		return fmt.Sprintf("%s: %v", d.Title, d.Err)
	case d.IngredientID != 0:
		return fmt.Sprintf("ingredient %d: %v", d.IngredientID, d.Err)
	case d.RecipeID != 0:
		return fmt.Sprintf("recipe %d: %v", d.RecipeID, d.Err)
	default:
		return d.Err.Error()
	}
}

func (d Diagnostic) Unwrap() error { return d.Err }

// MarshalJSON renders the diagnostic with its error message.
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	type view struct {
		IngredientID uint   `json:"ingredient_id,omitempty"`
		RecipeID     uint   `json:"recipe_id,omitempty"`
		Title        string `json:"title,omitempty"`
		Message      string `json:"message"`
	}
	msg := ""
	if d.Err != nil {
		msg = d.Err.Error()
	}
	return json.Marshal(view{IngredientID: d.IngredientID, RecipeID: d.RecipeID, Title: d.Title, Message: msg})
}
