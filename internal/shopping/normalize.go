package shopping

import (
	"fmt"
	"strings"

	"mealplanner/internal/units"
	"mealplanner/models"
)

// Normalized is one recipe ingredient line expressed in the fundamental unit
// of its ingredient's measurement type, in both imperial and metric bases.
type Normalized struct {
	Ingredient  models.Ingredient
	Type        units.MeasurementType
	Substituted bool

	// Recipe-stated values.
	Quantity    float64
	Measurement string
	Note        string

	RecipeImperial         units.Quantity
	RecipeMetric           units.Quantity
	MetricConversionFactor float64

	Issues []error
}

// Normalize converts a recipe ingredient line against the metadata of the
// ingredient it resolves to. When substituted is set, ingredient is the
// gluten-free substitute rather than the referenced ingredient.
//
// Conversion failures leave the recipe quantities at zero and are recorded on
// Issues; Project later defaults such lines and flags them for review.
func Normalize(entry models.RecipeIngredient, ingredient models.Ingredient, substituted bool) Normalized {
	n := Normalized{
		Ingredient:  ingredient,
		Substituted: substituted,
		Quantity:    entry.Qty,
		Measurement: entry.Measurement,
		Note:        entry.Notes,
	}

	mtype, err := units.ParseMeasurementType(ingredient.MeasurementType)
	if err != nil {
		n.Issues = append(n.Issues, err)
		return n
	}
	n.Type = mtype

	if mtype == units.Count {
		n.RecipeImperial = units.Quantity{Unit: units.Items, Value: entry.Qty}
		n.RecipeMetric = units.Quantity{Unit: units.Items, Value: entry.Qty}
		n.MetricConversionFactor = 1
		return n
	}

	fundamental := units.FundamentalUnit(mtype)
	n.RecipeImperial = units.Quantity{Unit: fundamental}
	n.RecipeMetric = units.Quantity{Unit: fundamental}

	base, err := units.ToFundamental(mtype, orCount(ingredient.ImperialBaseUnit), ingredient.ImperialBaseQty)
	switch {
	case err != nil:
		n.Issues = append(n.Issues, fmt.Errorf("imperial base unit: %w", err))
	case base.Value <= 0:
		n.Issues = append(n.Issues, fmt.Errorf("%w: imperial base quantity is not positive", ErrConversionUnderflow))
	default:
		n.MetricConversionFactor = ingredient.MetricBaseQty / base.Value
	}

	recipe, err := units.ToFundamental(mtype, orCount(entry.Measurement), entry.Qty)
	if err != nil {
		n.Issues = append(n.Issues, fmt.Errorf("recipe measurement: %w", err))
		return n
	}

	n.RecipeImperial.Value = recipe.Value
	n.RecipeMetric.Value = n.MetricConversionFactor * recipe.Value
	return n
}

func orCount(unit string) string {
	if strings.TrimSpace(unit) == "" {
		return string(units.Count)
	}
	return unit
}
