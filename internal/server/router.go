package server

import (
	"context"
	"net/http"

	"mealplanner/internal/handlers"
	applog "mealplanner/internal/log"
)

type route struct {
	pattern   string
	handler   http.HandlerFunc
	protected bool
}

var routes = []route{
	{"GET /healthz", handlers.Health, false},
	{"POST /login", handlers.Login, false},
	{"POST /logout", handlers.Logout, false},
	{"GET /api/shopping-lists/meal-plans/{id}", handlers.MealPlanShoppingList, true},
	{"GET /api/shopping-lists/meal-plans/{id}/saved", handlers.SavedShoppingList, true},
	{"POST /api/shopping-lists", handlers.CreateShoppingList, true},
	{"PUT /api/shopping-lists/{id}", handlers.UpdateShoppingList, true},
	{"DELETE /api/shopping-lists/{id}", handlers.DeleteShoppingList, true},
	{"GET /api/recipes/{id}/ingredients", handlers.RecipeIngredients, true},
	{"GET /app/shopping-lists/{id}/print", handlers.PrintShoppingList, true},
}

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	for _, rt := range routes {
		var h http.Handler = rt.handler
		if rt.protected {
			h = handlers.RequireAuthentication(h)
		}
		mux.Handle(rt.pattern, h)
		applog.Debug(context.Background(), "route registered", "pattern", rt.pattern, "protected", rt.protected)
	}
	return mux
}
