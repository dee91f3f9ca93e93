package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"mealplanner/internal/shopping"
	"mealplanner/models"
)

type generatedResponse struct {
	PlanID      uint                    `json:"meal_plan_id"`
	OwnerID     uint                    `json:"owner_id"`
	List        models.ShoppingListView `json:"list"`
	Diagnostics []json.RawMessage       `json:"diagnostics"`
}

func findItem(view models.ShoppingListView, title string) (models.ShoppingItem, bool) {
	for _, category := range view.Data {
		for _, item := range category.Ingredients {
			if item.Title == title {
				return item, true
			}
		}
	}
	return models.ShoppingItem{}, false
}

func TestMealPlanShoppingList(t *testing.T) {
	env := configureTestHandlers(t)

	target := fmt.Sprintf("/api/shopping-lists/meal-plans/%d", env.plan.ID)
	req := authedRequest(t, env.sm, env.user.ID, http.MethodGet, target, nil)
	req.SetPathValue("id", fmt.Sprint(env.plan.ID))
	w := httptest.NewRecorder()
	MealPlanShoppingList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp generatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.PlanID != env.plan.ID || resp.OwnerID != env.user.ID {
		t.Fatalf("unexpected ids in %+v", resp)
	}
	if resp.List.Title != "Family Week" {
		t.Fatalf("title = %q", resp.List.Title)
	}
	if len(resp.List.Data) != len(models.Categories) {
		t.Fatalf("expected every category bucket, got %+v", resp.List.Data)
	}
	for i, category := range resp.List.Data {
		if category.Category != string(models.Categories[i]) {
			t.Fatalf("category %d = %q, want %q", i, category.Category, models.Categories[i])
		}
	}
	eggs, ok := findItem(resp.List, "Egg(s)")
	if !ok || eggs.Qty <= 0 || eggs.Measurement != "Item(s)" {
		t.Fatalf("eggs = %+v (found %t)", eggs, ok)
	}
	if _, ok := findItem(resp.List, "Gluten-Free Spaghetti"); !ok {
		t.Fatalf("expected gluten-free substitute in %+v", resp.List.Data)
	}
}

func TestMealPlanShoppingListRejectsBadRequests(t *testing.T) {
	env := configureTestHandlers(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	stranger := &models.User{Email: "stranger@example.com", PasswordHash: string(hash)}
	if err := env.db.Create(stranger).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	tests := []struct {
		name   string
		userID uint
		id     string
		query  string
		want   int
	}{
		{"invalid id", env.user.ID, "abc", "", http.StatusBadRequest},
		{"zero id", env.user.ID, "0", "", http.StatusBadRequest},
		{"missing plan", env.user.ID, "9999", "", http.StatusNotFound},
		{"another user's plan", stranger.ID, fmt.Sprint(env.plan.ID), "", http.StatusNotFound},
		{"deleted session user", 4242, fmt.Sprint(env.plan.ID), "", http.StatusUnauthorized},
		{"invalid reset flag", env.user.ID, fmt.Sprint(env.plan.ID), "?reset=maybe", http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := authedRequest(t, env.sm, tt.userID, http.MethodGet, "/api/shopping-lists/meal-plans/"+tt.id+tt.query, nil)
		req.SetPathValue("id", tt.id)
		w := httptest.NewRecorder()
		MealPlanShoppingList(w, req)
		if w.Code != tt.want {
			t.Fatalf("%s: expected %d, got %d: %s", tt.name, tt.want, w.Code, w.Body.String())
		}
	}
}

func TestShoppingListLifecycle(t *testing.T) {
	env := configureTestHandlers(t)
	ctx := context.Background()

	body := map[string]any{
		"owner":            999,
		"parent_meal_plan": env.plan.ID,
		"meal_plan_title":  "Family Week",
		"ingredients": []models.ShoppingCategory{
			{Category: "Pantry", Ingredients: []models.ShoppingItem{{ID: 1, Title: "Flour", DesiredTitle: "1 Pound(s) of Flour", Qty: 1, Measurement: "Pound(s)"}}},
			{Category: "Produce", Ingredients: []models.ShoppingItem{}},
			{Category: "Refrigerated", Ingredients: []models.ShoppingItem{{ID: 2, Title: "Egg(s)", Qty: 10, Measurement: "Item(s)"}}},
		},
	}
	req := authedRequest(t, env.sm, env.user.ID, http.MethodPost, "/api/shopping-lists", jsonBody(t, body))
	w := httptest.NewRecorder()
	CreateShoppingList(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.ShoppingList
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created list: %v", err)
	}
	if created.ID == 0 || created.OwnerID != env.user.ID {
		t.Fatalf("list should be owned by the session user, got %+v", created)
	}

	planPath := fmt.Sprint(env.plan.ID)
	req = authedRequest(t, env.sm, env.user.ID, http.MethodGet, "/api/shopping-lists/meal-plans/"+planPath+"/saved", nil)
	req.SetPathValue("id", planPath)
	w = httptest.NewRecorder()
	SavedShoppingList(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("saved: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var saved savedListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode saved list: %v", err)
	}
	if saved.ID != created.ID || saved.Title != "Family Week" || len(saved.Data) != 3 {
		t.Fatalf("unexpected saved list %+v", saved)
	}

	listPath := fmt.Sprint(created.ID)
	saved.Data[0].Ingredients[0].Checked = true
	req = authedRequest(t, env.sm, env.user.ID, http.MethodPut, "/api/shopping-lists/"+listPath, jsonBody(t, updateListRequest{Ingredients: saved.Data}))
	req.SetPathValue("id", listPath)
	w = httptest.NewRecorder()
	UpdateShoppingList(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	stored, err := env.store.GetShoppingList(ctx, created.ID, env.user.ID)
	if err != nil || stored == nil || !stored.Categories[0].Ingredients[0].Checked {
		t.Fatalf("update not persisted: %+v, %v", stored, err)
	}

	req = authedRequest(t, env.sm, env.user.ID, http.MethodGet, "/app/shopping-lists/"+listPath+"/print?theme=compact", nil)
	req.SetPathValue("id", listPath)
	w = httptest.NewRecorder()
	PrintShoppingList(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("print: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("print content type = %q", ct)
	}
	for _, token := range []string{"Shopping List: Family Week", "1 Pound(s) of Flour", `data-theme="compact"`} {
		if !strings.Contains(w.Body.String(), token) {
			t.Fatalf("print output missing %q: %s", token, w.Body.String())
		}
	}

	req = authedRequest(t, env.sm, env.user.ID+100, http.MethodDelete, "/api/shopping-lists/"+listPath, nil)
	req.SetPathValue("id", listPath)
	w = httptest.NewRecorder()
	DeleteShoppingList(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete by another user: expected 404, got %d", w.Code)
	}

	req = authedRequest(t, env.sm, env.user.ID, http.MethodDelete, "/api/shopping-lists/"+listPath, nil)
	req.SetPathValue("id", listPath)
	w = httptest.NewRecorder()
	DeleteShoppingList(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	req = authedRequest(t, env.sm, env.user.ID, http.MethodGet, "/api/shopping-lists/meal-plans/"+planPath+"/saved", nil)
	req.SetPathValue("id", planPath)
	w = httptest.NewRecorder()
	SavedShoppingList(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("saved after delete: expected 404, got %d", w.Code)
	}
}

func TestCreateShoppingListRejectsMissingPlan(t *testing.T) {
	env := configureTestHandlers(t)

	req := authedRequest(t, env.sm, env.user.ID, http.MethodPost, "/api/shopping-lists", strings.NewReader(`{"meal_plan_title":"No plan"}`))
	w := httptest.NewRecorder()
	CreateShoppingList(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	req = authedRequest(t, env.sm, env.user.ID, http.MethodPost, "/api/shopping-lists", strings.NewReader(`not json`))
	w = httptest.NewRecorder()
	CreateShoppingList(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestMealPlanShoppingListResetDiscardsSavedList(t *testing.T) {
	env := configureTestHandlers(t)
	ctx := context.Background()

	if err := env.store.UpsertShoppingList(ctx, &models.ShoppingList{OwnerID: env.user.ID, MealPlanID: env.plan.ID, MealPlanTitle: "Family Week"}); err != nil {
		t.Fatalf("seed saved list: %v", err)
	}

	planPath := fmt.Sprint(env.plan.ID)
	req := authedRequest(t, env.sm, env.user.ID, http.MethodGet, "/api/shopping-lists/meal-plans/"+planPath+"?reset=true", nil)
	req.SetPathValue("id", planPath)
	w := httptest.NewRecorder()
	MealPlanShoppingList(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	svc := shopping.NewService(env.store, shopping.Options{})
	if _, err := svc.Find(ctx, env.user.ID, env.plan.ID); !errors.Is(err, shopping.ErrMissingShoppingList) {
		t.Fatalf("expected saved list to be discarded, got %v", err)
	}
}

func TestPrintShoppingListMissing(t *testing.T) {
	env := configureTestHandlers(t)

	req := authedRequest(t, env.sm, env.user.ID, http.MethodGet, "/app/shopping-lists/77/print", nil)
	req.SetPathValue("id", "77")
	w := httptest.NewRecorder()
	PrintShoppingList(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
