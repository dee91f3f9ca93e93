package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"mealplanner/internal/views/theme"
	"mealplanner/models"
)

func TestItemLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item models.ShoppingItem
		want string
	}{
		{"desired title wins", models.ShoppingItem{DesiredTitle: "2 Cup(s) of Milk", Title: "Milk", Qty: 9}, "2 Cup(s) of Milk"},
		{"rebuilt with unit", models.ShoppingItem{Title: "Flour", Qty: 1.5, Measurement: "Pound(s)"}, "1.5 Pound(s) of Flour"},
		{"rebuilt without unit", models.ShoppingItem{Title: "Egg(s)", Qty: 10}, "10 Egg(s)"},
		{"no quantity", models.ShoppingItem{Title: "Salt"}, "Salt"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ItemLabel(tt.item); got != tt.want {
				t.Fatalf("ItemLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListTitle(t *testing.T) {
	t.Parallel()

	if got := ListTitle("  "); got != "Shopping List" {
		t.Fatalf("ListTitle(blank) = %q", got)
	}
	if got := ListTitle("Family Week"); got != "Shopping List: Family Week" {
		t.Fatalf("ListTitle() = %q", got)
	}
}

func TestShoppingListPrintRendersCategories(t *testing.T) {
	t.Parallel()

	list := &models.ShoppingList{
		MealPlanTitle: "Family <Week>",
		Categories: []models.ShoppingCategory{
			{Category: "Pantry", Ingredients: []models.ShoppingItem{
				{Title: "Flour", DesiredTitle: "1 Pound(s) of Flour", Notes: "sifted", Checked: true},
			}},
			{Category: "Produce", Ingredients: []models.ShoppingItem{}},
			{Category: "Refrigerated", Ingredients: []models.ShoppingItem{{Title: "Egg(s)", Qty: 10}}},
		},
	}

	var buf bytes.Buffer
	if err := ShoppingListPrint(list, theme.Resolve("")).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, token := range []string{
		"Shopping List: Family &lt;Week&gt;",
		"<h2>Pantry</h2>",
		"1 Pound(s) of Flour",
		"(sifted)",
		`data-checked="true"`,
		`<input type="checkbox" disabled checked>`,
		`<span class="print-note">(sifted)</span>`,
		"<h2>Refrigerated</h2>",
		"10 Egg(s)",
	} {
		if !strings.Contains(out, token) {
			t.Fatalf("expected output to contain %q: %s", token, out)
		}
	}
	if got := strings.Count(out, " checked>"); got != 1 {
		t.Fatalf("expected one checked item, got %d: %s", got, out)
	}
	if strings.Contains(out, "<h2>Produce</h2>") {
		t.Fatalf("empty categories should be omitted: %s", out)
	}
}
