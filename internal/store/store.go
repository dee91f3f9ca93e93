// Package store implements the shopping service's persistence on gorm.
//
// Lookups of missing rows return (nil, nil) rather than gorm.ErrRecordNotFound
// so callers can tell absence apart from database failures.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mealplanner/internal/shopping"
	"mealplanner/models"
)

// Store reads and writes meal plans, ingredients, users and shopping lists.
type Store struct {
	db *gorm.DB
}

// New wraps a gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ shopping.Store = (*Store)(nil)

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// GetMealPlanWithResolvedMeals loads a plan and attaches the recipe of every
// planned meal. Meals whose recipe has been deleted keep a nil Recipe.
func (s *Store) GetMealPlanWithResolvedMeals(ctx context.Context, id uint) (*shopping.ResolvedPlan, error) {
	var plan models.MealPlan
	if err := s.conn(ctx).First(&plan, id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load meal plan: %w", err)
	}

	seen := make(map[uint]struct{})
	var recipeIDs []uint
	for _, slot := range plan.PlanData {
		for _, meal := range slot.Meals {
			if _, ok := seen[meal.RecipeID]; ok {
				continue
			}
			seen[meal.RecipeID] = struct{}{}
			recipeIDs = append(recipeIDs, meal.RecipeID)
		}
	}

	var recipes []models.Recipe
	if len(recipeIDs) > 0 {
		if err := s.conn(ctx).Where("id IN ?", recipeIDs).Find(&recipes).Error; err != nil {
			return nil, fmt.Errorf("load recipes: %w", err)
		}
	}
	byID := make(map[uint]*models.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = &recipes[i]
	}

	resolved := &shopping.ResolvedPlan{
		ID:      plan.ID,
		OwnerID: plan.OwnerID,
		Title:   plan.Title,
		Slots:   make([]shopping.ResolvedSlot, 0, len(plan.PlanData)),
	}
	for _, slot := range plan.PlanData {
		rs := shopping.ResolvedSlot{Name: slot.Name, Meals: make([]shopping.ResolvedMeal, 0, len(slot.Meals))}
		for _, meal := range slot.Meals {
			rs.Meals = append(rs.Meals, shopping.ResolvedMeal{PlannedMeal: meal, Recipe: byID[meal.RecipeID]})
		}
		resolved.Slots = append(resolved.Slots, rs)
	}
	return resolved, nil
}

// GetRecipe loads a recipe by primary key.
func (s *Store) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.conn(ctx).First(&recipe, id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	return &recipe, nil
}

// GetIngredientByID loads an ingredient by primary key.
func (s *Store) GetIngredientByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.conn(ctx).First(&ingredient, id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load ingredient: %w", err)
	}
	return &ingredient, nil
}

// GetIngredientByLegacyID loads an ingredient by the numeric id substitutions refer to.
func (s *Store) GetIngredientByLegacyID(ctx context.Context, legacyID int) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.conn(ctx).Where("old_id = ?", legacyID).First(&ingredient).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load ingredient by legacy id: %w", err)
	}
	return &ingredient, nil
}

// UpsertIngredient inserts an ingredient or refreshes the conversion metadata
// of the existing ingredient with the same title.
func (s *Store) UpsertIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	ingredient.Title = strings.TrimSpace(ingredient.Title)
	if ingredient.Title == "" {
		return errors.New("ingredient title is required")
	}

	columns := []string{
		"category", "measurement_type",
		"imperial_base_qty", "imperial_base_unit", "imperial_shopping_qty", "imperial_shopping_unit",
		"metric_base_qty", "metric_base_unit", "metric_shopping_qty", "metric_shopping_unit",
		"tags", "updated_at",
	}
	// a row without a legacy id keeps the one already stored
	if ingredient.OldID != nil {
		columns = append(columns, "old_id")
	}

	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(ingredient).Error
	if err != nil {
		return fmt.Errorf("upsert ingredient %q: %w", ingredient.Title, err)
	}
	return nil
}

// UpsertShoppingList writes list as the single list for its owner and meal
// plan in one statement, so a failure never leaves the pair without a list.
func (s *Store) UpsertShoppingList(ctx context.Context, list *models.ShoppingList) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "meal_plan_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"meal_plan_title", "categories", "updated_at"}),
	}).Create(list).Error
	if err != nil {
		return fmt.Errorf("upsert shopping list: %w", err)
	}

	// On conflict some drivers do not report the existing row's id.
	var stored models.ShoppingList
	if err := s.conn(ctx).
		Where("owner_id = ? AND meal_plan_id = ?", list.OwnerID, list.MealPlanID).
		First(&stored).Error; err != nil {
		return fmt.Errorf("reload shopping list: %w", err)
	}
	list.ID = stored.ID
	list.CreatedAt = stored.CreatedAt
	list.UpdatedAt = stored.UpdatedAt
	return nil
}

// GetShoppingList loads a list by id, scoped to its owner.
func (s *Store) GetShoppingList(ctx context.Context, id, ownerID uint) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := s.conn(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&list).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load shopping list: %w", err)
	}
	return &list, nil
}

// FindShoppingListByOwnerAndPlan loads the list saved for an owner's meal plan.
func (s *Store) FindShoppingListByOwnerAndPlan(ctx context.Context, ownerID, planID uint) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := s.conn(ctx).Where("owner_id = ? AND meal_plan_id = ?", ownerID, planID).First(&list).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find shopping list: %w", err)
	}
	return &list, nil
}

// DeleteShoppingListByOwnerAndPlan removes the list saved for an owner's meal plan, if any.
func (s *Store) DeleteShoppingListByOwnerAndPlan(ctx context.Context, ownerID, planID uint) error {
	err := s.conn(ctx).Unscoped().
		Where("owner_id = ? AND meal_plan_id = ?", ownerID, planID).
		Delete(&models.ShoppingList{}).Error
	if err != nil {
		return fmt.Errorf("delete shopping list: %w", err)
	}
	return nil
}

// UpdateShoppingList replaces the categories of an owned list.
func (s *Store) UpdateShoppingList(ctx context.Context, id, ownerID uint, categories []models.ShoppingCategory) (*models.ShoppingList, error) {
	list, err := s.GetShoppingList(ctx, id, ownerID)
	if err != nil || list == nil {
		return nil, err
	}

	list.Categories = categories
	if err := s.conn(ctx).Save(list).Error; err != nil {
		return nil, fmt.Errorf("update shopping list: %w", err)
	}
	return list, nil
}

// DeleteShoppingList removes an owned list and reports whether it existed.
func (s *Store) DeleteShoppingList(ctx context.Context, id, ownerID uint) (bool, error) {
	result := s.conn(ctx).Unscoped().
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.ShoppingList{})
	if result.Error != nil {
		return false, fmt.Errorf("delete shopping list: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// FindUserByEmail loads a user by email, case-insensitively.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := s.conn(ctx).Where("LOWER(email) = ?", normalized).First(&user).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// CreateMealPlan validates and inserts a meal plan.
func (s *Store) CreateMealPlan(ctx context.Context, plan *models.MealPlan) error {
	if err := s.conn(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("create meal plan: %w", err)
	}
	return nil
}

// CreateRecipe inserts a recipe.
func (s *Store) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	if err := s.conn(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}
