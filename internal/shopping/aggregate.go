package shopping

import (
	"fmt"

	"mealplanner/models"
)

// ResolvedPlan is a meal plan whose meals carry their recipes. Recipe is nil
// when the referenced recipe no longer exists.
type ResolvedPlan struct {
	ID      uint
	OwnerID uint
	Title   string
	Slots   []ResolvedSlot
}

type ResolvedSlot struct {
	Name  string
	Meals []ResolvedMeal
}

type ResolvedMeal struct {
	models.PlannedMeal
	Recipe *models.Recipe
}

// Occurrence is a distinct (recipe, diet, dairy-free, gluten-free) combination
// of a plan with the servings of all its meals summed.
type Occurrence struct {
	Recipe       *models.Recipe
	Diet         models.DietVariant
	IsDairyFree  bool
	IsGlutenFree bool
	Servings     float64
}

// Variant is the ingredient list the occurrence shops for. The dairy-free
// list wins over the diet selector.
func (o Occurrence) Variant() models.DietVariant {
	if o.IsDairyFree {
		return models.DietDairyFree
	}
	return o.Diet
}

// Ingredients returns the recipe ingredient lines for the occurrence.
func (o Occurrence) Ingredients() []models.RecipeIngredient {
	if o.Recipe == nil {
		return nil
	}
	return o.Recipe.IngredientsFor(o.Variant())
}

// Multiplier is planned servings over the recipe's default servings.
func (o Occurrence) Multiplier() (float64, error) {
	if o.Recipe == nil || o.Recipe.Servings <= 0 {
		return 0, ErrInvalidServings
	}
	return o.Servings / o.Recipe.Servings, nil
}

type occurrenceKey struct {
	recipeID     uint
	diet         models.DietVariant
	isDairyFree  bool
	isGlutenFree bool
}

// Aggregate flattens a plan's slots into occurrences in first-seen order,
// summing servings of repeated combinations. Meals whose recipe is missing, or
// whose diet is unknown when the dairy-free list does not apply, are skipped
// and reported.
func Aggregate(plan *ResolvedPlan) ([]Occurrence, []Diagnostic) {
	if plan == nil {
		return nil, nil
	}

	var (
		occurrences []Occurrence
		diagnostics []Diagnostic
		index       = make(map[occurrenceKey]int)
	)

	for _, slot := range plan.Slots {
		for _, meal := range slot.Meals {
			if meal.Recipe == nil {
				diagnostics = append(diagnostics, Diagnostic{
					RecipeID: meal.RecipeID,
					Err:      fmt.Errorf("%s: %w", slot.Name, ErrMissingRecipe),
				})
				continue
			}

			// the dairy-free list wins, so its diet selector is never read
			diet := models.DietDairyFree
			if !meal.IsDairyFree {
				parsed, err := models.ParseDietVariant(meal.Diet)
				if err != nil {
					diagnostics = append(diagnostics, Diagnostic{
						RecipeID: meal.RecipeID,
						Title:    meal.Recipe.Title,
						Err:      err,
					})
					continue
				}
				diet = parsed
			}

			key := occurrenceKey{
				recipeID:     meal.Recipe.ID,
				diet:         diet,
				isDairyFree:  meal.IsDairyFree,
				isGlutenFree: meal.IsGlutenFree,
			}
			if idx, ok := index[key]; ok {
				occurrences[idx].Servings += meal.Servings
				continue
			}

			index[key] = len(occurrences)
			occurrences = append(occurrences, Occurrence{
				Recipe:       meal.Recipe,
				Diet:         diet,
				IsDairyFree:  meal.IsDairyFree,
				IsGlutenFree: meal.IsGlutenFree,
				Servings:     meal.Servings,
			})
		}
	}

	return occurrences, diagnostics
}
