package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	applog "mealplanner/internal/log"
	"mealplanner/internal/shopping"
	"mealplanner/models"
)

type savedListResponse struct {
	ID    uint                      `json:"_id"`
	Title string                    `json:"title"`
	Data  []models.ShoppingCategory `json:"data"`
}

type updateListRequest struct {
	Ingredients []models.ShoppingCategory `json:"ingredients"`
}

// MealPlanShoppingList computes the shopping list for a meal plan in the
// signed-in user's unit preference. With ?reset=true the user's saved list
// for the plan is discarded first.
func MealPlanShoppingList(w http.ResponseWriter, r *http.Request) {
	if !servicesAvailable(w, r) {
		return
	}
	planID, ok := pathID(r)
	if !ok {
		writeJSONError(w, r, http.StatusBadRequest, "invalid meal plan id")
		return
	}
	user, err := currentUser(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if raw := r.URL.Query().Get("reset"); raw != "" {
		reset, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSONError(w, r, http.StatusBadRequest, "invalid reset flag")
			return
		}
		if reset {
			if err := shoppingLists.Reset(r.Context(), user.ID, planID); err != nil {
				writeServiceError(w, r, err)
				return
			}
		}
	}

	result, err := shoppingLists.Generate(r.Context(), planID, user.Preference())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if result.OwnerID != user.ID {
		applog.Debug(r.Context(), "meal plan belongs to another user", "meal_plan_id", planID, "user_id", user.ID)
		writeServiceError(w, r, fmt.Errorf("%w: %d", shopping.ErrMissingMealPlan, planID))
		return
	}

	applog.Debug(r.Context(), "shopping list generated", "meal_plan_id", planID, "diagnostics", len(result.Diagnostics))
	writeJSON(w, r, http.StatusOK, result)
}

// CreateShoppingList saves a list for the signed-in user, replacing any
// earlier list for the same meal plan.
func CreateShoppingList(w http.ResponseWriter, r *http.Request) {
	if !servicesAvailable(w, r) {
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		writeServiceError(w, r, errNoSessionUser)
		return
	}

	var list models.ShoppingList
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		applog.Debug(r.Context(), "failed to decode shopping list", "error", err)
		writeJSONError(w, r, http.StatusBadRequest, "invalid shopping list")
		return
	}
	list.ID = 0
	list.OwnerID = userID

	if err := shoppingLists.Save(r.Context(), &list); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, list)
}

// SavedShoppingList returns the signed-in user's saved list for a meal plan.
func SavedShoppingList(w http.ResponseWriter, r *http.Request) {
	if !servicesAvailable(w, r) {
		return
	}
	planID, ok := pathID(r)
	if !ok {
		writeJSONError(w, r, http.StatusBadRequest, "invalid meal plan id")
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		writeServiceError(w, r, errNoSessionUser)
		return
	}

	list, err := shoppingLists.Find(r.Context(), userID, planID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, savedListResponse{
		ID:    list.ID,
		Title: list.MealPlanTitle,
		Data:  list.Categories,
	})
}

// UpdateShoppingList replaces the categories of an owned list.
func UpdateShoppingList(w http.ResponseWriter, r *http.Request) {
	if !servicesAvailable(w, r) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, r, http.StatusBadRequest, "invalid shopping list id")
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		writeServiceError(w, r, errNoSessionUser)
		return
	}

	var req updateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		applog.Debug(r.Context(), "failed to decode shopping list update", "error", err)
		writeJSONError(w, r, http.StatusBadRequest, "invalid shopping list")
		return
	}

	list, err := shoppingLists.Update(r.Context(), id, userID, req.Ingredients)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

// DeleteShoppingList removes an owned list.
func DeleteShoppingList(w http.ResponseWriter, r *http.Request) {
	if !servicesAvailable(w, r) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, r, http.StatusBadRequest, "invalid shopping list id")
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		writeServiceError(w, r, errNoSessionUser)
		return
	}

	if err := shoppingLists.Delete(r.Context(), id, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
