package mock

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appdb "mealplanner/internal/db"
	applog "mealplanner/internal/log"
	"mealplanner/models"
)

//go:embed seed.toml
var seedCatalogue []byte

// DSN is the shared in-memory database the mock lives in.
const DSN = "file:mealplanner-mock?mode=memory&cache=shared"

// New returns an in-memory sqlite database seeded with a demo household.
func New(ctx context.Context) (*gorm.DB, error) {
	return Open(ctx, DSN)
}

// Open is New against an explicit sqlite DSN. Seeding is skipped when the
// demo user already exists, so reopening a shared database is safe.
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := appdb.AutoMigrate(db); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

// Catalogue is the decoded seed file.
type Catalogue struct {
	User        seedUser         `toml:"user"`
	Ingredients []seedIngredient `toml:"ingredients"`
	Recipes     []seedRecipe     `toml:"recipes"`
	MealPlan    seedMealPlan     `toml:"meal_plan"`
}

type seedUser struct {
	Name           string `toml:"name"`
	Email          string `toml:"email"`
	Password       string `toml:"password"`
	UnitPreference string `toml:"unit_preference"`
	PrimaryDiet    string `toml:"primary_diet"`
	FamilySize     int    `toml:"family_size"`
}

type seedIngredient struct {
	LegacyID             int      `toml:"legacy_id"`
	Title                string   `toml:"title"`
	Category             string   `toml:"category"`
	MeasurementType      string   `toml:"measurement_type"`
	ImperialBaseQty      float64  `toml:"imperial_base_qty"`
	ImperialBaseUnit     string   `toml:"imperial_base_unit"`
	ImperialShoppingQty  float64  `toml:"imperial_shopping_qty"`
	ImperialShoppingUnit string   `toml:"imperial_shopping_unit"`
	MetricBaseQty        float64  `toml:"metric_base_qty"`
	MetricBaseUnit       string   `toml:"metric_base_unit"`
	MetricShoppingQty    float64  `toml:"metric_shopping_qty"`
	MetricShoppingUnit   string   `toml:"metric_shopping_unit"`
	Tags                 []string `toml:"tags"`
}

type seedRecipeLine struct {
	Ingredient   string  `toml:"ingredient"`
	Qty          float64 `toml:"qty"`
	Measurement  string  `toml:"measurement"`
	Notes        string  `toml:"notes"`
	SubstituteID int     `toml:"substitute_legacy_id"`
}

type seedRecipe struct {
	Title       string           `toml:"title"`
	Description string           `toml:"description"`
	Servings    float64          `toml:"servings"`
	PrepTime    int              `toml:"prep_time"`
	CookTime    int              `toml:"cook_time"`
	Omnivore    []seedRecipeLine `toml:"omnivore"`
	Vegetarian  []seedRecipeLine `toml:"vegetarian"`
	Vegan       []seedRecipeLine `toml:"vegan"`
	DairyFree   []seedRecipeLine `toml:"dairy_free"`
}

type seedMeal struct {
	Recipe     string  `toml:"recipe"`
	Servings   float64 `toml:"servings"`
	Diet       string  `toml:"diet"`
	DairyFree  bool    `toml:"dairy_free"`
	GlutenFree bool    `toml:"gluten_free"`
}

type seedMealPlan struct {
	Title string `toml:"title"`
	Slots []struct {
		Name  string     `toml:"name"`
		Meals []seedMeal `toml:"meals"`
	} `toml:"slots"`
}

// LoadCatalogue decodes the embedded seed file.
func LoadCatalogue() (Catalogue, error) {
	var catalogue Catalogue
	if _, err := toml.Decode(string(seedCatalogue), &catalogue); err != nil {
		return Catalogue{}, fmt.Errorf("decode seed catalogue: %w", err)
	}
	return catalogue, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	catalogue, err := LoadCatalogue()
	if err != nil {
		return err
	}

	var existing int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", catalogue.User.Email).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		applog.Debug(ctx, "mock database already seeded")
		return nil
	}

	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(catalogue.User.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:           catalogue.User.Name,
		Email:          catalogue.User.Email,
		PasswordHash:   string(password),
		UnitPreference: catalogue.User.UnitPreference,
		PrimaryDiet:    catalogue.User.PrimaryDiet,
		FamilySize:     catalogue.User.FamilySize,
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	ingredientIDs := make(map[string]uint, len(catalogue.Ingredients))
	for _, item := range catalogue.Ingredients {
		legacyID := item.LegacyID
		ingredient := &models.Ingredient{
			OldID:                &legacyID,
			Title:                item.Title,
			Category:             item.Category,
			MeasurementType:      item.MeasurementType,
			ImperialBaseQty:      item.ImperialBaseQty,
			ImperialBaseUnit:     item.ImperialBaseUnit,
			ImperialShoppingQty:  item.ImperialShoppingQty,
			ImperialShoppingUnit: item.ImperialShoppingUnit,
			MetricBaseQty:        item.MetricBaseQty,
			MetricBaseUnit:       item.MetricBaseUnit,
			MetricShoppingQty:    item.MetricShoppingQty,
			MetricShoppingUnit:   item.MetricShoppingUnit,
			Tags:                 item.Tags,
		}
		if err := db.WithContext(ctx).Create(ingredient).Error; err != nil {
			return fmt.Errorf("seed ingredient %q: %w", item.Title, err)
		}
		ingredientIDs[item.Title] = ingredient.ID
	}

	lines := func(recipe string, seeded []seedRecipeLine) ([]models.RecipeIngredient, error) {
		out := make([]models.RecipeIngredient, 0, len(seeded))
		for _, line := range seeded {
			id, ok := ingredientIDs[line.Ingredient]
			if !ok {
				return nil, fmt.Errorf("recipe %q references unknown ingredient %q", recipe, line.Ingredient)
			}
			entry := models.RecipeIngredient{
				IngredientID: id,
				Qty:          line.Qty,
				Measurement:  line.Measurement,
				Notes:        line.Notes,
			}
			if line.SubstituteID != 0 {
				substitute := line.SubstituteID
				entry.SubstituteID = &substitute
			}
			out = append(out, entry)
		}
		return out, nil
	}

	recipeIDs := make(map[string]uint, len(catalogue.Recipes))
	for _, item := range catalogue.Recipes {
		recipe := &models.Recipe{
			Title:       item.Title,
			Description: item.Description,
			Servings:    item.Servings,
			PrepTime:    item.PrepTime,
			CookTime:    item.CookTime,
		}
		if recipe.OmnivoreIngredients, err = lines(item.Title, item.Omnivore); err != nil {
			return err
		}
		if recipe.VegetarianIngredients, err = lines(item.Title, item.Vegetarian); err != nil {
			return err
		}
		if recipe.VeganIngredients, err = lines(item.Title, item.Vegan); err != nil {
			return err
		}
		if recipe.DairyFreeIngredients, err = lines(item.Title, item.DairyFree); err != nil {
			return err
		}
		if err := db.WithContext(ctx).Create(recipe).Error; err != nil {
			return fmt.Errorf("seed recipe %q: %w", item.Title, err)
		}
		recipeIDs[item.Title] = recipe.ID
	}

	plan := &models.MealPlan{OwnerID: user.ID, Title: catalogue.MealPlan.Title}
	for _, slot := range catalogue.MealPlan.Slots {
		timeSlot := models.TimeSlot{Name: slot.Name}
		for _, meal := range slot.Meals {
			id, ok := recipeIDs[meal.Recipe]
			if !ok {
				return fmt.Errorf("meal plan references unknown recipe %q", meal.Recipe)
			}
			timeSlot.Meals = append(timeSlot.Meals, models.PlannedMeal{
				RecipeID:     id,
				Servings:     meal.Servings,
				Diet:         meal.Diet,
				IsDairyFree:  meal.DairyFree,
				IsGlutenFree: meal.GlutenFree,
			})
		}
		plan.PlanData = append(plan.PlanData, timeSlot)
	}
	if err := db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("seed meal plan: %w", err)
	}

	applog.Debug(ctx, "mock database seeded",
		"ingredients", len(ingredientIDs),
		"recipes", len(recipeIDs),
		"meal_plan_id", plan.ID,
	)
	return nil
}
