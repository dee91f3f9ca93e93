package handlers

import (
	"net/http"

	applog "mealplanner/internal/log"
	"mealplanner/internal/views/pages"
	"mealplanner/internal/views/theme"
)

// PrintShoppingList renders an owned saved list as printable HTML. The
// optional ?theme= query selects a print theme.
func PrintShoppingList(w http.ResponseWriter, r *http.Request) {
	if !servicesAvailable(w, r) {
		return
	}
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid shopping list id", http.StatusBadRequest)
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	list, err := shoppingLists.Get(r.Context(), id, userID)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			applog.Error(r.Context(), "failed to load shopping list for print", "error", err)
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ShoppingListPrint(list, theme.Resolve(r.URL.Query().Get("theme"))).Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render shopping list", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}
