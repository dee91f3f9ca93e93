package shopping

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	applog "mealplanner/internal/log"
	"mealplanner/models"
)

// MealPlanStore loads a plan with its recipes. A missing plan is (nil, nil).
type MealPlanStore interface {
	GetMealPlanWithResolvedMeals(ctx context.Context, id uint) (*ResolvedPlan, error)
}

// IngredientStore loads ingredients. A missing ingredient is (nil, nil).
type IngredientStore interface {
	GetIngredientByID(ctx context.Context, id uint) (*models.Ingredient, error)
	GetIngredientByLegacyID(ctx context.Context, legacyID int) (*models.Ingredient, error)
}

// ShoppingListStore persists shopping lists. Lookups of a missing list return
// (nil, nil) and DeleteShoppingList reports whether a row was removed.
type ShoppingListStore interface {
	UpsertShoppingList(ctx context.Context, list *models.ShoppingList) error
	GetShoppingList(ctx context.Context, id, ownerID uint) (*models.ShoppingList, error)
	FindShoppingListByOwnerAndPlan(ctx context.Context, ownerID, planID uint) (*models.ShoppingList, error)
	DeleteShoppingListByOwnerAndPlan(ctx context.Context, ownerID, planID uint) error
	UpdateShoppingList(ctx context.Context, id, ownerID uint, categories []models.ShoppingCategory) (*models.ShoppingList, error)
	DeleteShoppingList(ctx context.Context, id, ownerID uint) (bool, error)
}

// Store is everything the service reads and writes.
type Store interface {
	MealPlanStore
	RecipeStore
	IngredientStore
	ShoppingListStore
}

// DefaultLookupConcurrency bounds concurrent ingredient lookups when Options
// leaves it unset.
const DefaultLookupConcurrency = 8

// Options tunes a Service.
type Options struct {
	LookupConcurrency int
}

// Service generates and persists shopping lists.
type Service struct {
	store       Store
	concurrency int
}

// NewService constructs a Service backed by store.
func NewService(store Store, opts Options) *Service {
	concurrency := opts.LookupConcurrency
	if concurrency <= 0 {
		concurrency = DefaultLookupConcurrency
	}
	return &Service{store: store, concurrency: concurrency}
}

// Result is a generated list with the diagnostics collected while building it.
type Result struct {
	PlanID      uint                    `json:"meal_plan_id"`
	OwnerID     uint                    `json:"owner_id"`
	List        models.ShoppingListView `json:"list"`
	Diagnostics []Diagnostic            `json:"diagnostics,omitempty"`
}

type lookup struct {
	occurrence int
	entry      models.RecipeIngredient
	glutenFree bool
}

type resolved struct {
	ingredient  *models.Ingredient
	substituted bool
	diagnostics []Diagnostic
}

// Generate computes the shopping list for a meal plan in the given unit
// preference. Store failures abort; anything wrong with a single recipe or
// ingredient is reported on the result instead.
func (s *Service) Generate(ctx context.Context, planID uint, pref models.UnitPreference) (*Result, error) {
	plan, err := s.store.GetMealPlanWithResolvedMeals(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("load meal plan %d: %w", planID, err)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: %d", ErrMissingMealPlan, planID)
	}

	occurrences, diagnostics := Aggregate(plan)
	applog.Debug(ctx, "aggregated meal plan", "meal_plan_id", planID, "occurrences", len(occurrences))

	multipliers := make([]float64, len(occurrences))
	var lookups []lookup
	for i, occ := range occurrences {
		multiplier, err := occ.Multiplier()
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{RecipeID: occ.Recipe.ID, Title: occ.Recipe.Title, Err: err})
			continue
		}
		multipliers[i] = multiplier
		for _, entry := range occ.Ingredients() {
			lookups = append(lookups, lookup{occurrence: i, entry: entry, glutenFree: occ.IsGlutenFree})
		}
	}

	results, err := s.resolveAll(ctx, lookups)
	if err != nil {
		return nil, err
	}
	applog.Debug(ctx, "resolved ingredients", "meal_plan_id", planID, "lookups", len(lookups))

	var scaled []Entry
	for i, res := range results {
		diagnostics = append(diagnostics, res.diagnostics...)
		if res.ingredient == nil {
			continue
		}
		l := lookups[i]
		record := Normalize(l.entry, *res.ingredient, res.substituted)
		scaled = append(scaled, Scale([]Normalized{record}, multipliers[l.occurrence])...)
	}

	merged := Merge(scaled)
	projected := make([]Projected, 0, len(merged))
	for _, entry := range merged {
		projected = append(projected, Project(entry))
	}
	applog.Debug(ctx, "projected shopping quantities", "meal_plan_id", planID, "ingredients", len(projected))

	view, formatDiagnostics := Format(projected, pref, plan.Title)
	diagnostics = append(diagnostics, formatDiagnostics...)

	for _, d := range diagnostics {
		applog.Warn(ctx, "shopping list diagnostic",
			"meal_plan_id", planID,
			"ingredient_id", d.IngredientID,
			"recipe_id", d.RecipeID,
			"title", d.Title,
			"error", d.Err,
		)
	}

	return &Result{
		PlanID:      plan.ID,
		OwnerID:     plan.OwnerID,
		List:        view,
		Diagnostics: diagnostics,
	}, nil
}

// resolveAll looks up every line concurrently. Results keep the order of
// lookups so merged notes come out deterministically.
func (s *Service) resolveAll(ctx context.Context, lookups []lookup) ([]resolved, error) {
	results := make([]resolved, len(lookups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, l := range lookups {
		g.Go(func() error {
			res, err := s.resolve(gctx, l)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) resolve(ctx context.Context, l lookup) (resolved, error) {
	var res resolved

	if l.glutenFree && l.entry.SubstituteID != nil {
		substitute, err := s.store.GetIngredientByLegacyID(ctx, *l.entry.SubstituteID)
		if err != nil {
			return res, fmt.Errorf("load substitute %d: %w", *l.entry.SubstituteID, err)
		}
		if substitute != nil {
			res.ingredient = substitute
			res.substituted = true
			return res, nil
		}
		res.diagnostics = append(res.diagnostics, Diagnostic{
			IngredientID: l.entry.IngredientID,
			Err:          fmt.Errorf("%w: legacy id %d, using the original ingredient", ErrMissingSubstitute, *l.entry.SubstituteID),
		})
	}

	ingredient, err := s.store.GetIngredientByID(ctx, l.entry.IngredientID)
	if err != nil {
		return res, fmt.Errorf("load ingredient %d: %w", l.entry.IngredientID, err)
	}
	if ingredient == nil {
		res.diagnostics = append(res.diagnostics, Diagnostic{
			IngredientID: l.entry.IngredientID,
			Err:          ErrMissingIngredientReference,
		})
		return res, nil
	}
	res.ingredient = ingredient
	return res, nil
}

// Save stores list for its owner and meal plan, replacing any earlier list
// for the same pair.
func (s *Service) Save(ctx context.Context, list *models.ShoppingList) error {
	if list == nil {
		return fmt.Errorf("%w: list is required", ErrInvalidShoppingList)
	}
	if list.OwnerID == 0 || list.MealPlanID == 0 {
		return fmt.Errorf("%w: owner and meal plan are required", ErrInvalidShoppingList)
	}
	if err := s.store.UpsertShoppingList(ctx, list); err != nil {
		return fmt.Errorf("save shopping list: %w", err)
	}
	applog.Info(ctx, "saved shopping list", "shopping_list_id", list.ID, "owner_id", list.OwnerID, "meal_plan_id", list.MealPlanID)
	return nil
}

// Find returns the saved list for owner and plan.
func (s *Service) Find(ctx context.Context, ownerID, planID uint) (*models.ShoppingList, error) {
	list, err := s.store.FindShoppingListByOwnerAndPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, fmt.Errorf("find shopping list: %w", err)
	}
	if list == nil {
		return nil, ErrMissingShoppingList
	}
	return list, nil
}

// Get returns an owned list by id.
func (s *Service) Get(ctx context.Context, id, ownerID uint) (*models.ShoppingList, error) {
	list, err := s.store.GetShoppingList(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get shopping list: %w", err)
	}
	if list == nil {
		return nil, ErrMissingShoppingList
	}
	return list, nil
}

// Reset discards the saved list for owner and plan, if any.
func (s *Service) Reset(ctx context.Context, ownerID, planID uint) error {
	if err := s.store.DeleteShoppingListByOwnerAndPlan(ctx, ownerID, planID); err != nil {
		return fmt.Errorf("reset shopping list: %w", err)
	}
	applog.Info(ctx, "reset shopping list", "owner_id", ownerID, "meal_plan_id", planID)
	return nil
}

// Update replaces the categories of an owned list, typically to record
// checked items.
func (s *Service) Update(ctx context.Context, id, ownerID uint, categories []models.ShoppingCategory) (*models.ShoppingList, error) {
	list, err := s.store.UpdateShoppingList(ctx, id, ownerID, categories)
	if err != nil {
		return nil, fmt.Errorf("update shopping list: %w", err)
	}
	if list == nil {
		return nil, ErrMissingShoppingList
	}
	return list, nil
}

// Delete removes an owned list.
func (s *Service) Delete(ctx context.Context, id, ownerID uint) error {
	deleted, err := s.store.DeleteShoppingList(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete shopping list: %w", err)
	}
	if !deleted {
		return ErrMissingShoppingList
	}
	applog.Info(ctx, "deleted shopping list", "shopping_list_id", id, "owner_id", ownerID)
	return nil
}
