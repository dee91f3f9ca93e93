package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recipe carries one ingredient list per diet variant.
type Recipe struct {
	gorm.Model
	Title       string  `gorm:"uniqueIndex;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Servings    float64 `gorm:"not null" json:"servings"` // default servings the lists are written for
	PrepTime    int     `json:"prep_time"`
	CookTime    int     `json:"cook_time"`

	OmnivoreIngredients   datatypes.JSONSlice[RecipeIngredient] `json:"omnivore_ingredients"`
	VegetarianIngredients datatypes.JSONSlice[RecipeIngredient] `json:"vegetarian_ingredients"`
	VeganIngredients      datatypes.JSONSlice[RecipeIngredient] `json:"vegan_ingredients"`
	DairyFreeIngredients  datatypes.JSONSlice[RecipeIngredient] `json:"dairy_free_ingredients"`
}

// RecipeIngredient is one line of a recipe ingredient list.
type RecipeIngredient struct {
	IngredientID uint    `json:"id"`
	Qty          float64 `json:"qty"`
	Measurement  string  `json:"measurement,omitempty"` // recipe-local unit name, empty means count
	Notes        string  `json:"notes,omitempty"`
	SubstituteID *int    `json:"substituteId,omitempty"` // legacy id of the gluten-free substitute
}

// IngredientsFor returns the ingredient list for the given diet variant.
func (r Recipe) IngredientsFor(diet DietVariant) []RecipeIngredient {
	switch diet {
	case DietOmnivore:
		return r.OmnivoreIngredients
	case DietVegetarian:
		return r.VegetarianIngredients
	case DietVegan:
		return r.VeganIngredients
	case DietDairyFree:
		return r.DairyFreeIngredients
	default:
		return nil
	}
}
