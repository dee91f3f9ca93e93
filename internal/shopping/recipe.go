package shopping

import (
	"context"
	"fmt"
	"math"
	"strings"

	applog "mealplanner/internal/log"
	"mealplanner/internal/units"
	"mealplanner/models"
)

// RecipeStore loads recipes. A missing recipe is (nil, nil).
type RecipeStore interface {
	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
}

// RecipeLine is a recipe ingredient line as shown to a cook. Qty is nil when
// the recipe gives no quantity.
type RecipeLine struct {
	IngredientID uint     `json:"ingredient_id"`
	Title        string   `json:"title"`
	Qty          *float64 `json:"qty"`
	Measurement  string   `json:"measurement"`
	Notes        string   `json:"notes"`
	NeedsReview  bool     `json:"needs_review,omitempty"`
	ReviewNote   string   `json:"review_note,omitempty"`
}

// RecipeIngredients is one diet variant of a recipe in a unit preference.
type RecipeIngredients struct {
	RecipeID       uint                  `json:"recipe_id"`
	Title          string                `json:"title"`
	Servings       float64               `json:"servings"`
	Diet           models.DietVariant    `json:"diet"`
	UnitPreference models.UnitPreference `json:"unit_preference"`
	Ingredients    []RecipeLine          `json:"ingredients"`
	Diagnostics    []Diagnostic          `json:"diagnostics,omitempty"`
}

// ConvertRecipeIngredients renders recipe lines for the given preference.
//
// Imperial lines keep the quantity the recipe states. Metric lines are
// converted through the fundamental unit into the ingredient's imperial base
// unit and scaled by metric_base_qty / imperial_base_qty, so they read in the
// metric base unit. Count lines, and lines measured "whole", read in Item(s)
// either way. Lines whose ingredient is missing from ingredients are dropped
// and reported; lines that cannot be converted keep the recipe's wording and
// are flagged for review.
func ConvertRecipeIngredients(lines []models.RecipeIngredient, ingredients map[uint]models.Ingredient, pref models.UnitPreference) ([]RecipeLine, []Diagnostic) {
	out := make([]RecipeLine, 0, len(lines))
	var diagnostics []Diagnostic

	for _, line := range lines {
		ing, ok := ingredients[line.IngredientID]
		if !ok {
			diagnostics = append(diagnostics, Diagnostic{IngredientID: line.IngredientID, Err: ErrMissingIngredientReference})
			continue
		}

		converted, err := convertRecipeLine(line, ing, pref)
		if err != nil {
			converted.NeedsReview = true
			converted.ReviewNote = err.Error()
			diagnostics = append(diagnostics, Diagnostic{IngredientID: ing.ID, Title: ing.Title, Err: err})
		}
		out = append(out, converted)
	}
	return out, diagnostics
}

func convertRecipeLine(line models.RecipeIngredient, ing models.Ingredient, pref models.UnitPreference) (RecipeLine, error) {
	stated := RecipeLine{
		IngredientID: ing.ID,
		Title:        ing.Title,
		Measurement:  line.Measurement,
		Notes:        line.Notes,
	}
	if line.Qty != 0 {
		stated.Qty = &line.Qty
	}

	mtype, err := units.ParseMeasurementType(ing.MeasurementType)
	if err != nil {
		return stated, err
	}
	if mtype == units.Count || isWhole(line.Measurement) {
		stated.Measurement = units.Items
		return stated, nil
	}
	if pref != models.UnitPreferenceMetric || stated.Qty == nil {
		return stated, nil
	}

	fundamental, err := units.ToFundamental(mtype, line.Measurement, line.Qty)
	if err != nil {
		return stated, fmt.Errorf("recipe measurement: %w", err)
	}
	base, err := units.FromFundamental(mtype, fundamental.Unit, fundamental.Value, ing.ImperialBaseUnit)
	if err != nil {
		return stated, fmt.Errorf("imperial base unit: %w", err)
	}
	if ing.ImperialBaseQty <= 0 || ing.MetricBaseQty <= 0 || ing.MetricBaseUnit == "" {
		return stated, fmt.Errorf("%w: metric base quantity missing", ErrConversionUnderflow)
	}

	qty := roundHundredth(base.Value / ing.ImperialBaseQty * ing.MetricBaseQty)
	stated.Qty = &qty
	stated.Measurement = DisplayUnit(ing.MetricBaseUnit)
	return stated, nil
}

func isWhole(measurement string) bool {
	m := strings.TrimSpace(measurement)
	return m == "" || strings.EqualFold(m, "whole")
}

func roundHundredth(x float64) float64 {
	return math.Round(trimFloatNoise(x)*100) / 100
}

// RecipeIngredients loads one diet variant of a recipe and renders its lines
// in the given unit preference.
func (s *Service) RecipeIngredients(ctx context.Context, recipeID uint, diet models.DietVariant, pref models.UnitPreference) (*RecipeIngredients, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load recipe %d: %w", recipeID, err)
	}
	if recipe == nil {
		return nil, fmt.Errorf("%w: %d", ErrMissingRecipe, recipeID)
	}

	lines := recipe.IngredientsFor(diet)
	lookups := make([]lookup, len(lines))
	for i, line := range lines {
		lookups[i] = lookup{entry: line}
	}
	results, err := s.resolveAll(ctx, lookups)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Ingredient, len(results))
	for _, res := range results {
		if res.ingredient != nil {
			byID[res.ingredient.ID] = *res.ingredient
		}
	}

	converted, diagnostics := ConvertRecipeIngredients(lines, byID, pref)
	for _, d := range diagnostics {
		applog.Warn(ctx, "recipe ingredient diagnostic",
			"recipe_id", recipeID,
			"ingredient_id", d.IngredientID,
			"title", d.Title,
			"error", d.Err,
		)
	}

	return &RecipeIngredients{
		RecipeID:       recipe.ID,
		Title:          recipe.Title,
		Servings:       recipe.Servings,
		Diet:           diet,
		UnitPreference: pref,
		Ingredients:    converted,
		Diagnostics:    diagnostics,
	}, nil
}
