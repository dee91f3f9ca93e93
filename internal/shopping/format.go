package shopping

import (
	"fmt"
	"strconv"
	"strings"

	"mealplanner/models"
)

// Format builds the categorised view in the given unit preference. All three
// categories are always present. Items whose category matches none of them are
// returned in Uncategorized and reported, never dropped.
func Format(items []Projected, pref models.UnitPreference, title string) (models.ShoppingListView, []Diagnostic) {
	view := models.ShoppingListView{
		Title: title,
		Data:  make([]models.ShoppingCategory, len(models.Categories)),
	}
	for i, category := range models.Categories {
		view.Data[i] = models.ShoppingCategory{Category: string(category), Ingredients: []models.ShoppingItem{}}
	}

	var diagnostics []Diagnostic
	for _, projected := range items {
		item := formatItem(projected, pref)
		for _, issue := range projected.Issues {
			diagnostics = append(diagnostics, Diagnostic{
				IngredientID: projected.Ingredient.ID,
				Title:        projected.Ingredient.Title,
				Err:          issue,
			})
		}

		category, err := models.ParseCategory(projected.Ingredient.Category)
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{
				IngredientID: projected.Ingredient.ID,
				Title:        projected.Ingredient.Title,
				Err:          err,
			})
			view.Uncategorized = append(view.Uncategorized, item)
			continue
		}
		for i := range view.Data {
			if view.Data[i].Category == string(category) {
				view.Data[i].Ingredients = append(view.Data[i].Ingredients, item)
				break
			}
		}
	}

	return view, diagnostics
}

func formatItem(p Projected, pref models.UnitPreference) models.ShoppingItem {
	qty := p.ImperialShoppingQty
	if pref == models.UnitPreferenceMetric {
		qty = p.MetricShoppingQty
	}
	unit := DisplayUnit(p.Ingredient.ShoppingUnit(pref))

	item := models.ShoppingItem{
		ID:           p.Ingredient.ID,
		DesiredTitle: DesiredTitle(qty, unit, p.Ingredient.Title),
		Title:        p.Ingredient.Title,
		Qty:          qty,
		Measurement:  unit,
		Notes:        strings.Join(p.Notes, ", "),
	}
	if len(p.Issues) > 0 {
		notes := make([]string, 0, len(p.Issues))
		for _, issue := range p.Issues {
			notes = append(notes, issue.Error())
		}
		item.NeedsReview = true
		item.ReviewNote = strings.Join(notes, "; ")
	}
	return item
}

// DisplayUnit spells the bare "g" token as Gram(s).
func DisplayUnit(unit string) string {
	if unit == "g" {
		return "Gram(s)"
	}
	return unit
}

// DesiredTitle renders "<qty> <unit> of <title>".
func DesiredTitle(qty float64, unit, title string) string {
	return fmt.Sprintf("%s %s of %s", strconv.FormatFloat(qty, 'f', -1, 64), unit, title)
}
