package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimon-app/mise/internal/repository/memory"
	"github.com/alimon-app/mise/internal/service"
	"github.com/alimon-app/mise/pkg/logger"
)

const testSecret = "test-secret"

type testEnv struct {
	handler http.Handler
	auth    *Authenticator
	admin   uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	admin := uuid.New()
	svc := service.New(memory.NewStore(), logger.Discard(), service.WithAdmin(&admin))
	srv := NewServer(svc, logger.Discard(), Options{JWTSecret: testSecret, RequestTimeout: 5 * time.Second})
	return &testEnv{handler: srv.Handler(), auth: NewAuthenticator(testSecret), admin: admin}
}

func (e *testEnv) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := e.auth.Issue(userID, "Tester", time.Hour)
	require.NoError(t, err)
	return tok
}

// do sends a request and decodes the JSON envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var payload io.Reader = http.NoBody
	if body != nil {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		payload = &buf
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return w.Code, out
}

func createMilk(t *testing.T, e *testEnv, token string) int64 {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/api/ingredients", token, map[string]any{
		"name":         "Almond Milk",
		"serving_size": 240,
		"serving_unit": "ml",
		"nutrients": []map[string]any{
			{"nutrient_key": "calories", "amount": 30, "unit": "cal"},
			{"nutrient_key": "protein", "amount": 1, "unit": "g"},
		},
		"units": []map[string]any{{"unit_name": "cup", "amount": 240}},
	})
	require.Equal(t, http.StatusCreated, code, body)
	return int64(body["ingredientId"].(float64))
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t)
	code, body := e.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
}

func TestAuth_RejectsMissingAndBadTokens(t *testing.T) {
	e := newTestEnv(t)

	code, body := e.do(t, http.MethodGet, "/api/goals", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])

	forged, err := NewAuthenticator("other-secret").Issue(uuid.New(), "", time.Hour)
	require.NoError(t, err)
	code, _ = e.do(t, http.MethodGet, "/api/goals", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	expired, err := e.auth.Issue(uuid.New(), "", -time.Minute)
	require.NoError(t, err)
	code, _ = e.do(t, http.MethodGet, "/api/goals", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestFoodLogFlow(t *testing.T) {
	e := newTestEnv(t)
	tok := e.token(t, uuid.New())
	milk := createMilk(t, e, tok)

	code, body := e.do(t, http.MethodPost, "/api/food-logs", tok, map[string]any{
		"ingredient_id":    milk,
		"quantity":         480,
		"unit":             "ml",
		"logged_at":        "2026-03-14T08:30:00Z",
		"update_inventory": true,
	})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, true, body["success"])
	assert.NotZero(t, body["food_log_id"])

	code, body = e.do(t, http.MethodGet, "/api/food-logs?date=2026-03-14", tok, nil)
	require.Equal(t, http.StatusOK, code)
	logs := body["food_logs"].([]any)
	require.Len(t, logs, 1)
	entry := logs[0].(map[string]any)
	assert.NotNil(t, entry["ingredient"])
	nutrients := entry["nutrients"].([]any)
	require.Len(t, nutrients, 2)
	assert.Equal(t, 60.0, nutrients[0].(map[string]any)["amount"])

	code, body = e.do(t, http.MethodGet, "/api/food-logs?date=2026-03-15", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["food_logs"])

	code, body = e.do(t, http.MethodGet, "/api/inventory", tok, nil)
	require.Equal(t, http.StatusOK, code)
	stock := body["inventory"].([]any)
	require.Len(t, stock, 1)
	assert.Equal(t, -480.0, stock[0].(map[string]any)["quantity"])

	code, body = e.do(t, http.MethodGet, "/api/recent-meals", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["meals"], 1)
}

func TestFoodLog_ValidationErrors(t *testing.T) {
	e := newTestEnv(t)
	tok := e.token(t, uuid.New())
	milk := createMilk(t, e, tok)

	cases := map[string]map[string]any{
		"neither reference": {"quantity": 1, "unit": "ml"},
		"both references":   {"ingredient_id": milk, "recipe_id": 1, "quantity": 1, "unit": "ml"},
		"missing quantity":  {"ingredient_id": milk, "unit": "ml"},
		"unknown unit":      {"ingredient_id": milk, "quantity": 1, "unit": "bucket"},
		"bad timestamp":     {"ingredient_id": milk, "quantity": 1, "unit": "ml", "logged_at": "yesterday"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			code, body := e.do(t, http.MethodPost, "/api/food-logs", tok, req)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, false, body["success"])
		})
	}

	code, _ := e.do(t, http.MethodPost, "/api/food-logs", tok, map[string]any{"ingredient_id": 424242, "quantity": 1, "unit": "ml"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = e.do(t, http.MethodGet, "/api/food-logs?date=March", tok, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGoalsAndSummary(t *testing.T) {
	e := newTestEnv(t)
	user := uuid.New()
	tok := e.token(t, user)
	milk := createMilk(t, e, tok)

	code, body := e.do(t, http.MethodPost, "/api/goals", tok, map[string]any{"nutrient_key": "calories", "target_amount": 50})
	require.Equal(t, http.StatusCreated, code, body)
	goalID := int64(body["goal"].(map[string]any)["id"].(float64))

	code, _ = e.do(t, http.MethodPost, "/api/goals", tok, map[string]any{"nutrient_key": "calories", "target_amount": 70})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = e.do(t, http.MethodPost, "/api/food-logs", tok, map[string]any{
		"ingredient_id": milk, "quantity": 2, "unit": "cup", "logged_at": "2026-03-14T12:00:00Z",
	})
	require.Equal(t, http.StatusCreated, code)

	code, body = e.do(t, http.MethodGet, "/api/summary?date=2026-03-14", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2026-03-14", body["date"])
	lines := body["nutrients"].([]any)
	require.Len(t, lines, 2)
	calories := lines[0].(map[string]any)
	assert.Equal(t, "calories", calories["nutrient_key"])
	assert.Equal(t, 60.0, calories["consumed"])
	assert.Equal(t, 120.0, calories["percent"])
	assert.Equal(t, 100.0, calories["display_percent"])
	assert.Nil(t, lines[1].(map[string]any)["target"])

	code, body = e.do(t, http.MethodPut, "/api/goals", tok, map[string]any{"id": goalID, "target_amount": 120})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 120.0, body["goal"].(map[string]any)["target_amount"])

	otherTok := e.token(t, uuid.New())
	code, _ = e.do(t, http.MethodDelete, fmt.Sprintf("/api/goals/%d", goalID), otherTok, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = e.do(t, http.MethodDelete, fmt.Sprintf("/api/goals/%d", goalID), tok, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = e.do(t, http.MethodGet, "/api/goals", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["goals"])
}

func TestIngredientsAndRecipes(t *testing.T) {
	e := newTestEnv(t)
	owner := e.token(t, uuid.New())
	milk := createMilk(t, e, owner)

	code, body := e.do(t, http.MethodGet, fmt.Sprintf("/api/ingredients/%d", milk), owner, nil)
	require.Equal(t, http.StatusOK, code)
	ing := body["ingredient"].(map[string]any)
	assert.Equal(t, "Almond Milk", ing["name"])
	first := ing["nutrients"].([]any)[0].(map[string]any)
	assert.Equal(t, "Calories", first["display_name"])

	code, body = e.do(t, http.MethodGet, "/api/ingredients/search?q=almond", owner, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["ingredients"], 1)

	code, _ = e.do(t, http.MethodGet, "/api/ingredients/99999", owner, nil)
	assert.Equal(t, http.StatusNotFound, code)

	stranger := e.token(t, uuid.New())
	code, _ = e.do(t, http.MethodPost, "/api/ingredient-units", stranger, map[string]any{
		"ingredient_id": milk, "units": []map[string]any{{"unit_name": "glass", "amount": 200}},
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = e.do(t, http.MethodPost, "/api/ingredient-units", owner, map[string]any{
		"ingredient_id": milk, "units": []map[string]any{
			{"unit_name": "glass", "amount": 200, "is_default": true},
			{"unit_name": "mug", "amount": 300, "is_default": true},
		},
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = e.do(t, http.MethodPost, "/api/recipes", owner, map[string]any{
		"name":        "Smoothie",
		"servings":    2,
		"ingredients": []map[string]any{{"ingredient_id": milk, "quantity": 2, "unit": "cup"}},
	})
	require.Equal(t, http.StatusCreated, code, body)
	recipeID := int64(body["recipeId"].(float64))

	code, body = e.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d/nutrients", recipeID), owner, nil)
	require.Equal(t, http.StatusOK, code)
	nutrients := body["nutrients"].([]any)
	require.Len(t, nutrients, 2)
	assert.Equal(t, "calories", nutrients[0].(map[string]any)["nutrient_key"])
	assert.Equal(t, 60.0, nutrients[0].(map[string]any)["total_amount"])

	code, body = e.do(t, http.MethodGet, "/api/recipes/search?q=smoo", owner, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["results"], 1)

	code, body = e.do(t, http.MethodPost, "/api/inventory", owner, map[string]any{"recipe_id": recipeID, "quantity": 2, "unit": "servings"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, 2.0, body["inventory"].(map[string]any)["quantity"])
}

func TestNutrientCatalogIsPublic(t *testing.T) {
	e := newTestEnv(t)
	code, body := e.do(t, http.MethodGet, "/api/nutrients", "", nil)
	require.Equal(t, http.StatusOK, code)
	groups := body["nutrients"].(map[string]any)
	assert.Contains(t, groups, "macronutrients")
	assert.Contains(t, groups, "vitamins")
}

func TestContact(t *testing.T) {
	e := newTestEnv(t)

	code, body := e.do(t, http.MethodPost, "/api/contact", "", map[string]any{"name": "Ana", "email": "ana@example.com", "message": "Love it"})
	require.Equal(t, http.StatusCreated, code, body)
	msgID := int64(body["message"].(map[string]any)["id"].(float64))

	code, _ = e.do(t, http.MethodPost, "/api/contact", "", map[string]any{"name": "Ana"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = e.do(t, http.MethodGet, "/api/contact", e.token(t, uuid.New()), nil)
	assert.Equal(t, http.StatusForbidden, code)

	adminTok := e.token(t, e.admin)
	code, body = e.do(t, http.MethodPatch, "/api/contact", adminTok, map[string]any{"id": msgID, "resolved": true})
	require.Equal(t, http.StatusOK, code)
	assert.NotNil(t, body["message"].(map[string]any)["resolved_at"])

	code, body = e.do(t, http.MethodGet, "/api/contact?status=resolved", adminTok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["messages"], 1)
}
