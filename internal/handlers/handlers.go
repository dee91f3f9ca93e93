package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"

	applog "mealplanner/internal/log"
	"mealplanner/internal/shopping"
	"mealplanner/models"
)

// UserStore loads the accounts that sign in to the API.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

var (
	sessionManager *scs.SessionManager
	users          UserStore
	shoppingLists  *shopping.Service
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, userStore UserStore, lists *shopping.Service) {
	sessionManager = sm
	users = userStore
	shoppingLists = lists
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		applog.Error(r.Context(), "failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Error: message})
}

// writeServiceError maps domain errors onto HTTP statuses. Unexpected
// failures are logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		applog.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSONError(w, r, status, "internal server error")
		return
	}
	applog.Debug(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	writeJSONError(w, r, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errNoSessionUser):
		return http.StatusUnauthorized
	case errors.Is(err, shopping.ErrMissingMealPlan),
		errors.Is(err, shopping.ErrMissingShoppingList),
		errors.Is(err, shopping.ErrMissingRecipe):
		return http.StatusNotFound
	case errors.Is(err, shopping.ErrInvalidShoppingList),
		errors.Is(err, models.ErrInvalidUnitPreference),
		errors.Is(err, models.ErrInvalidDietVariant):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func servicesAvailable(w http.ResponseWriter, r *http.Request) bool {
	if sessionManager == nil || users == nil || shoppingLists == nil {
		applog.Debug(r.Context(), "handler dependencies unavailable",
			"hasSession", sessionManager != nil,
			"hasUsers", users != nil,
			"hasShoppingLists", shoppingLists != nil,
		)
		writeJSONError(w, r, http.StatusServiceUnavailable, "service not available")
		return false
	}
	return true
}
