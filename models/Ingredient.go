package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Ingredient is the catalogue record holding an ingredient's unit-conversion metadata.
type Ingredient struct {
	gorm.Model
	OldID           *int   `gorm:"uniqueIndex" json:"old_id,omitempty"` // legacy numeric id used by substitutions
	Title           string `gorm:"uniqueIndex;not null" json:"title"`
	Category        string `gorm:"not null" json:"category"`
	MeasurementType string `json:"measurement_type"`

	// --- Imperial ---
	ImperialBaseQty      float64 `json:"imperial_base_qty"`
	ImperialBaseUnit     string  `json:"imperial_base_unit"`
	ImperialShoppingQty  float64 `json:"imperial_shopping_qty"`
	ImperialShoppingUnit string  `json:"imperial_shopping_unit"`

	// --- Metric ---
	MetricBaseQty      float64 `json:"metric_base_qty"`
	MetricBaseUnit     string  `json:"metric_base_unit"`
	MetricShoppingQty  float64 `json:"metric_shopping_qty"`
	MetricShoppingUnit string  `json:"metric_shopping_unit"`

	Tags datatypes.JSONSlice[string] `json:"tags"`
}

// ShoppingQty returns the purchasable quantity for the given unit preference.
func (i Ingredient) ShoppingQty(pref UnitPreference) float64 {
	if pref == UnitPreferenceMetric {
		return i.MetricShoppingQty
	}
	return i.ImperialShoppingQty
}

// ShoppingUnit returns the purchasable unit for the given unit preference.
func (i Ingredient) ShoppingUnit(pref UnitPreference) string {
	if pref == UnitPreferenceMetric {
		return i.MetricShoppingUnit
	}
	return i.ImperialShoppingUnit
}
