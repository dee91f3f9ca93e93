package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ShoppingList is the persisted, human-facing list for one owner and meal plan.
type ShoppingList struct {
	gorm.Model
	OwnerID       uint                                  `gorm:"not null;uniqueIndex:idx_shopping_list_owner_plan" json:"owner"`
	MealPlanID    uint                                  `gorm:"not null;uniqueIndex:idx_shopping_list_owner_plan" json:"parent_meal_plan"`
	MealPlanTitle string                                `json:"meal_plan_title"`
	Categories    datatypes.JSONSlice[ShoppingCategory] `json:"ingredients"`
}

// ShoppingCategory is one purchasing bucket of a shopping list.
type ShoppingCategory struct {
	Category    string         `json:"category"`
	Ingredients []ShoppingItem `json:"ingredients"`
}

// ShoppingItem is a single line a user shops for.
type ShoppingItem struct {
	ID           uint    `json:"_id"`
	DesiredTitle string  `json:"desiredTitle"`
	Title        string  `json:"title"`
	Qty          float64 `json:"qty"`
	Measurement  string  `json:"measurement"`
	Notes        string  `json:"notes"`
	Checked      bool    `json:"checked"`
	NeedsReview  bool    `json:"needs_review,omitempty"`
	ReviewNote   string  `json:"review_note,omitempty"`
}

// ShoppingListView is the computed list returned to callers before it is saved.
type ShoppingListView struct {
	Title         string             `json:"title"`
	Data          []ShoppingCategory `json:"data"`
	Uncategorized []ShoppingItem     `json:"uncategorized,omitempty"`
}
