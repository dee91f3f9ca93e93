package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"mealplanner/internal/shopping"
	"mealplanner/internal/store"
	"mealplanner/models"
)

func newShoppingListCmd(v *viper.Viper) *cobra.Command {
	var (
		preference string
		save       bool
		owner      uint
	)
	cmd := &cobra.Command{
		Use:   "shopping-list <meal-plan-id>",
		Short: "Compute a meal plan's shopping list and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || planID == 0 {
				return fmt.Errorf("invalid meal plan id %q", args[0])
			}
			pref, err := models.ParseUnitPreference(preference)
			if err != nil {
				return err
			}

			return withDatabase(cmd, v, func(ctx context.Context, opts options, database *gorm.DB) error {
				svc := shopping.NewService(store.New(database), shopping.Options{LookupConcurrency: opts.LookupConcurrency})
				result, err := svc.Generate(ctx, uint(planID), pref)
				if err != nil {
					return err
				}

				if save {
					if err := saveResult(ctx, svc, result, owner); err != nil {
						return err
					}
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			})
		},
	}
	cmd.Flags().StringVar(&preference, "unit-preference", string(models.DefaultUnitPreference), "imperial or metric")
	cmd.Flags().BoolVar(&save, "save", false, "store the list as the owner's saved list for the plan")
	cmd.Flags().UintVar(&owner, "owner", 0, "owner to save for (defaults to the plan owner)")
	return cmd
}

func saveResult(ctx context.Context, svc *shopping.Service, result *shopping.Result, owner uint) error {
	if owner == 0 {
		owner = result.OwnerID
	}
	if owner != result.OwnerID {
		return fmt.Errorf("meal plan %d belongs to user %d, not %d", result.PlanID, result.OwnerID, owner)
	}
	return svc.Save(ctx, &models.ShoppingList{
		OwnerID:       owner,
		MealPlanID:    result.PlanID,
		MealPlanTitle: result.List.Title,
		Categories:    result.List.Data,
	})
}
