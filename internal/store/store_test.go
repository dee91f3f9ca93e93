package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mealplanner/internal/db"
	"mealplanner/models"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:store-%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("migrate sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(database), database
}

func legacy(v int) *int { return &v }

func TestGetMealPlanWithResolvedMeals(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	recipe := &models.Recipe{
		Title:               "Pancakes",
		Servings:            2,
		OmnivoreIngredients: []models.RecipeIngredient{{IngredientID: 1, Qty: 2, Measurement: "Cup(s)"}},
	}
	if err := store.CreateRecipe(ctx, recipe); err != nil {
		t.Fatalf("CreateRecipe() error: %v", err)
	}

	plan := &models.MealPlan{
		OwnerID: 3,
		Title:   "Week",
		PlanData: []models.TimeSlot{
			{Name: "Breakfast", Meals: []models.PlannedMeal{{RecipeID: recipe.ID, Servings: 4, Diet: "omnivore"}}},
			{Name: "Dinner", Meals: []models.PlannedMeal{
				{RecipeID: recipe.ID, Servings: 6, Diet: "omnivore"},
				{RecipeID: 999, Servings: 1, Diet: "vegan"},
			}},
		},
	}
	if err := store.CreateMealPlan(ctx, plan); err != nil {
		t.Fatalf("CreateMealPlan() error: %v", err)
	}

	resolved, err := store.GetMealPlanWithResolvedMeals(ctx, plan.ID)
	if err != nil {
		t.Fatalf("GetMealPlanWithResolvedMeals() error: %v", err)
	}
	if resolved.OwnerID != 3 || resolved.Title != "Week" || len(resolved.Slots) != 2 {
		t.Fatalf("unexpected plan %+v", resolved)
	}
	breakfast := resolved.Slots[0].Meals[0]
	if breakfast.Recipe == nil || breakfast.Recipe.Title != "Pancakes" {
		t.Fatalf("breakfast recipe = %+v", breakfast.Recipe)
	}
	if len(breakfast.Recipe.OmnivoreIngredients) != 1 {
		t.Fatalf("ingredient list not decoded: %+v", breakfast.Recipe.OmnivoreIngredients)
	}
	if missing := resolved.Slots[1].Meals[1]; missing.Recipe != nil {
		t.Fatalf("deleted recipe should resolve to nil, got %+v", missing.Recipe)
	}

	none, err := store.GetMealPlanWithResolvedMeals(ctx, 12345)
	if err != nil || none != nil {
		t.Fatalf("missing plan = %+v, %v; want nil, nil", none, err)
	}
}

func TestGetRecipe(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	recipe := &models.Recipe{
		Title:                "Soup",
		Servings:             4,
		DairyFreeIngredients: []models.RecipeIngredient{{IngredientID: 2, Qty: 1, Measurement: "Quart(s)"}},
	}
	if err := store.CreateRecipe(ctx, recipe); err != nil {
		t.Fatalf("CreateRecipe() error: %v", err)
	}

	got, err := store.GetRecipe(ctx, recipe.ID)
	if err != nil || got == nil {
		t.Fatalf("GetRecipe() = %+v, %v", got, err)
	}
	lines := got.IngredientsFor(models.DietDairyFree)
	if len(lines) != 1 || lines[0].Measurement != "Quart(s)" {
		t.Fatalf("dairy-free lines = %+v", lines)
	}

	missing, err := store.GetRecipe(ctx, recipe.ID+100)
	if err != nil || missing != nil {
		t.Fatalf("GetRecipe(missing) = %+v, %v; want nil, nil", missing, err)
	}
}

func TestCreateMealPlanRejectsInvalidPlans(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	err := store.CreateMealPlan(context.Background(), &models.MealPlan{
		Title:    "Bad",
		PlanData: []models.TimeSlot{{Name: "Lunch", Meals: []models.PlannedMeal{{RecipeID: 1, Servings: 1, Diet: "keto"}}}},
	})
	if err == nil {
		t.Fatal("expected validation error for unknown diet")
	}
}

func TestIngredientLookups(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	flour := &models.Ingredient{Title: "Flour", Category: "Pantry", MeasurementType: "weight", ImperialBaseQty: 8, ImperialBaseUnit: "Ounce(s)"}
	glutenFree := &models.Ingredient{OldID: legacy(42), Title: "Gluten-Free Flour", Category: "Pantry", MeasurementType: "weight"}
	for _, ing := range []*models.Ingredient{flour, glutenFree} {
		if err := store.UpsertIngredient(ctx, ing); err != nil {
			t.Fatalf("UpsertIngredient() error: %v", err)
		}
	}

	got, err := store.GetIngredientByID(ctx, flour.ID)
	if err != nil || got == nil || got.Title != "Flour" {
		t.Fatalf("GetIngredientByID() = %+v, %v", got, err)
	}
	sub, err := store.GetIngredientByLegacyID(ctx, 42)
	if err != nil || sub == nil || sub.ID != glutenFree.ID {
		t.Fatalf("GetIngredientByLegacyID() = %+v, %v", sub, err)
	}
	if missing, err := store.GetIngredientByID(ctx, 9999); err != nil || missing != nil {
		t.Fatalf("missing ingredient = %+v, %v", missing, err)
	}
	if missing, err := store.GetIngredientByLegacyID(ctx, 7); err != nil || missing != nil {
		t.Fatalf("missing legacy ingredient = %+v, %v", missing, err)
	}
}

func TestUpsertIngredientUpdatesByTitle(t *testing.T) {
	t.Parallel()

	store, database := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertIngredient(ctx, &models.Ingredient{Title: "Milk", Category: "Refrigerated", MeasurementType: "volume", ImperialBaseQty: 1}); err != nil {
		t.Fatalf("UpsertIngredient() error: %v", err)
	}
	if err := store.UpsertIngredient(ctx, &models.Ingredient{Title: " Milk ", Category: "Refrigerated", MeasurementType: "volume", ImperialBaseQty: 2}); err != nil {
		t.Fatalf("UpsertIngredient() second error: %v", err)
	}

	var ingredients []models.Ingredient
	if err := database.Find(&ingredients).Error; err != nil {
		t.Fatalf("list ingredients: %v", err)
	}
	if len(ingredients) != 1 || ingredients[0].ImperialBaseQty != 2 {
		t.Fatalf("ingredients = %+v, want a single updated row", ingredients)
	}

	if err := store.UpsertIngredient(ctx, &models.Ingredient{Title: "  "}); err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestShoppingListLifecycle(t *testing.T) {
	t.Parallel()

	store, database := newTestStore(t)
	ctx := context.Background()

	first := &models.ShoppingList{
		OwnerID:       1,
		MealPlanID:    2,
		MealPlanTitle: "Week",
		Categories:    []models.ShoppingCategory{{Category: "Pantry", Ingredients: []models.ShoppingItem{{ID: 5, Title: "Flour", Qty: 8}}}},
	}
	if err := store.UpsertShoppingList(ctx, first); err != nil {
		t.Fatalf("UpsertShoppingList() error: %v", err)
	}
	second := &models.ShoppingList{OwnerID: 1, MealPlanID: 2, MealPlanTitle: "Week (regenerated)"}
	if err := store.UpsertShoppingList(ctx, second); err != nil {
		t.Fatalf("UpsertShoppingList() second error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert should keep the row, got ids %d and %d", first.ID, second.ID)
	}

	var count int64
	if err := database.Model(&models.ShoppingList{}).Count(&count).Error; err != nil {
		t.Fatalf("count shopping lists: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one list per owner and plan, got %d", count)
	}

	found, err := store.FindShoppingListByOwnerAndPlan(ctx, 1, 2)
	if err != nil || found == nil || found.MealPlanTitle != "Week (regenerated)" {
		t.Fatalf("FindShoppingListByOwnerAndPlan() = %+v, %v", found, err)
	}

	updated, err := store.UpdateShoppingList(ctx, found.ID, 1, []models.ShoppingCategory{
		{Category: "Pantry", Ingredients: []models.ShoppingItem{{ID: 5, Title: "Flour", Checked: true}}},
	})
	if err != nil || updated == nil {
		t.Fatalf("UpdateShoppingList() = %+v, %v", updated, err)
	}
	reloaded, err := store.GetShoppingList(ctx, found.ID, 1)
	if err != nil || reloaded == nil || !reloaded.Categories[0].Ingredients[0].Checked {
		t.Fatalf("GetShoppingList() = %+v, %v", reloaded, err)
	}

	if other, err := store.GetShoppingList(ctx, found.ID, 99); err != nil || other != nil {
		t.Fatalf("list should be scoped to its owner, got %+v, %v", other, err)
	}
	if updated, err := store.UpdateShoppingList(ctx, found.ID, 99, nil); err != nil || updated != nil {
		t.Fatalf("update by another owner = %+v, %v", updated, err)
	}

	deleted, err := store.DeleteShoppingList(ctx, found.ID, 99)
	if err != nil || deleted {
		t.Fatalf("delete by another owner = %v, %v", deleted, err)
	}
	deleted, err = store.DeleteShoppingList(ctx, found.ID, 1)
	if err != nil || !deleted {
		t.Fatalf("DeleteShoppingList() = %v, %v", deleted, err)
	}

	if err := store.UpsertShoppingList(ctx, &models.ShoppingList{OwnerID: 1, MealPlanID: 2}); err != nil {
		t.Fatalf("re-create after delete: %v", err)
	}
	if err := store.DeleteShoppingListByOwnerAndPlan(ctx, 1, 2); err != nil {
		t.Fatalf("DeleteShoppingListByOwnerAndPlan() error: %v", err)
	}
	if gone, err := store.FindShoppingListByOwnerAndPlan(ctx, 1, 2); err != nil || gone != nil {
		t.Fatalf("list should be gone, got %+v, %v", gone, err)
	}
}

func TestUserLookups(t *testing.T) {
	t.Parallel()

	store, database := newTestStore(t)
	ctx := context.Background()

	user := &models.User{Email: "cook@example.com", PasswordHash: "hash", UnitPreference: "metric"}
	if err := database.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	found, err := store.FindUserByEmail(ctx, "  COOK@example.com ")
	if err != nil || found == nil || found.ID != user.ID {
		t.Fatalf("FindUserByEmail() = %+v, %v", found, err)
	}
	if found.Preference() != models.UnitPreferenceMetric {
		t.Fatalf("preference = %q", found.Preference())
	}
	byID, err := store.GetUser(ctx, user.ID)
	if err != nil || byID == nil || byID.Email != user.Email {
		t.Fatalf("GetUser() = %+v, %v", byID, err)
	}
	if missing, err := store.FindUserByEmail(ctx, "nobody@example.com"); err != nil || missing != nil {
		t.Fatalf("missing user = %+v, %v", missing, err)
	}
}
