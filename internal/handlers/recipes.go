package handlers

import (
	"net/http"
	"strings"

	applog "mealplanner/internal/log"
	"mealplanner/models"
)

// RecipeIngredients returns one diet variant of a recipe's ingredient list in
// a unit preference. ?diet defaults to the user's primary diet and
// ?unit_preference to the user's saved preference.
func RecipeIngredients(w http.ResponseWriter, r *http.Request) {
	if !servicesAvailable(w, r) {
		return
	}
	recipeID, ok := pathID(r)
	if !ok {
		writeJSONError(w, r, http.StatusBadRequest, "invalid recipe id")
		return
	}
	user, err := currentUser(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	query := r.URL.Query()
	diet := models.DietOmnivore
	if raw := firstNonBlank(query.Get("diet"), user.PrimaryDiet); raw != "" {
		diet, err = models.ParseDietVariant(raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	pref := user.Preference()
	if raw := strings.TrimSpace(query.Get("unit_preference")); raw != "" {
		pref, err = models.ParseUnitPreference(raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	result, err := shoppingLists.RecipeIngredients(r.Context(), recipeID, diet, pref)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	applog.Debug(r.Context(), "recipe ingredients converted", "recipe_id", recipeID, "diet", diet, "unit_preference", pref)
	writeJSON(w, r, http.StatusOK, result)
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			return v
		}
	}
	return ""
}
