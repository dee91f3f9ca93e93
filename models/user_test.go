package models

import (
	"errors"
	"testing"
)

func TestParseDietVariant(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  DietVariant
		err   bool
	}{
		{"omnivore", "omnivore", DietOmnivore, false},
		{"mixed case", "Vegetarian", DietVegetarian, false},
		{"padded", "  VEGAN ", DietVegan, false},
		{"space separated", "Dairy Free", DietDairyFree, false},
		{"hyphenated", "dairy-free", DietDairyFree, false},
		{"unknown", "carnivore", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDietVariant(tt.value)
			if tt.err {
				if !errors.Is(err, ErrInvalidDietVariant) {
					t.Fatalf("ParseDietVariant(%q) error = %v, want ErrInvalidDietVariant", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDietVariant(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Fatalf("ParseDietVariant(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestUserPreferenceFallsBackToDefault(t *testing.T) {
	t.Parallel()

	if got := (User{UnitPreference: "Metric"}).Preference(); got != UnitPreferenceMetric {
		t.Fatalf("Preference() = %q, want metric", got)
	}
	if got := (User{UnitPreference: "furlongs"}).Preference(); got != DefaultUnitPreference {
		t.Fatalf("Preference() = %q, want %q", got, DefaultUnitPreference)
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	if got, err := ParseCategory(" produce "); err != nil || got != CategoryProduce {
		t.Fatalf("ParseCategory(produce) = %q, %v", got, err)
	}
	if _, err := ParseCategory("Frozen"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("ParseCategory(Frozen) error = %v, want ErrUnknownCategory", err)
	}
}

func TestRecipeIngredientsForSelectsVariant(t *testing.T) {
	t.Parallel()

	recipe := Recipe{
		OmnivoreIngredients:  []RecipeIngredient{{IngredientID: 1}},
		DairyFreeIngredients: []RecipeIngredient{{IngredientID: 2}, {IngredientID: 3}},
	}

	if got := recipe.IngredientsFor(DietOmnivore); len(got) != 1 || got[0].IngredientID != 1 {
		t.Fatalf("IngredientsFor(omnivore) = %+v", got)
	}
	if got := recipe.IngredientsFor(DietDairyFree); len(got) != 2 {
		t.Fatalf("IngredientsFor(dairy_free) = %+v", got)
	}
	if got := recipe.IngredientsFor(DietVariant("paleo")); got != nil {
		t.Fatalf("IngredientsFor(paleo) = %+v, want nil", got)
	}
}

func TestMealPlanValidate(t *testing.T) {
	t.Parallel()

	valid := MealPlan{
		Title: "Week one",
		PlanData: []TimeSlot{{
			Name:  "Dinner",
			Meals: []PlannedMeal{{RecipeID: 1, Servings: 4, Diet: "Omnivore"}},
		}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on valid plan: %v", err)
	}

	invalid := MealPlan{
		Title: "Broken",
		PlanData: []TimeSlot{{
			Name:  "Lunch",
			Meals: []PlannedMeal{{RecipeID: 1, Servings: 0, Diet: "keto"}},
		}},
	}
	err := invalid.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrInvalidDietVariant) {
		t.Fatalf("expected ErrInvalidDietVariant in %v", err)
	}
}
