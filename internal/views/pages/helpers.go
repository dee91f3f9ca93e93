package pages

import (
	"strconv"
	"strings"

	"mealplanner/models"
)

// ListTitle returns the heading shown on a printed list.
func ListTitle(mealPlanTitle string) string {
	if strings.TrimSpace(mealPlanTitle) == "" {
		return "Shopping List"
	}
	return "Shopping List: " + strings.TrimSpace(mealPlanTitle)
}

// ItemLabel prefers the stored desired title and rebuilds one from the
// quantity fields for lists saved without it.
func ItemLabel(item models.ShoppingItem) string {
	if label := strings.TrimSpace(item.DesiredTitle); label != "" {
		return label
	}
	if item.Qty <= 0 {
		return item.Title
	}
	qty := strconv.FormatFloat(item.Qty, 'f', -1, 64)
	if strings.TrimSpace(item.Measurement) == "" {
		return qty + " " + item.Title
	}
	return qty + " " + item.Measurement + " of " + item.Title
}
