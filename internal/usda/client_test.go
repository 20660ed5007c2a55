package usda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/alimon-app/mise/internal/nutrition"
	"github.com/alimon-app/mise/internal/repository/memory"
	"github.com/alimon-app/mise/internal/service"
	"github.com/alimon-app/mise/pkg/logger"
)

const appleDetail = `{
  "fdcId": 1750340,
  "description": "Apples, fuji, with skin, raw",
  "foodNutrients": [
    {"nutrient": {"name": "Energy (Atwater General Factors)", "unitName": "kcal"}, "amount": 64.7},
    {"nutrient": {"name": "Energy", "unitName": "kJ"}, "amount": 271},
    {"nutrient": {"name": "Protein", "unitName": "g"}, "amount": 0.148},
    {"nutrient": {"name": "Potassium, K", "unitName": "mg"}, "amount": 109},
    {"nutrient": {"name": "Vitamin A, RAE", "unitName": "µg"}, "amount": 2},
    {"nutrient": {"name": "Nitrogen", "unitName": "g"}, "amount": 0.02}
  ],
  "foodPortions": [
    {"measureUnit": {"name": "undetermined"}, "modifier": "medium", "gramWeight": 182, "value": 1},
    {"measureUnit": {"name": "cup"}, "gramWeight": 250, "value": 2},
    {"measureUnit": {"name": "slice"}, "gramWeight": 0, "value": 1}
  ]
}`

func newTestServer(t *testing.T, requests *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /foods/search", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "3", q.Get("pageSize"))
		assert.Equal(t, "Foundation", q.Get("dataType"))

		switch q.Get("query") {
		case "apple":
			json.NewEncoder(w).Encode(map[string]any{"foods": []map[string]any{
				{"fdcId": 1750340, "description": "Apples, fuji, with skin, raw"},
				{"fdcId": 404, "description": "Missing"},
			}})
		case "broken":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			json.NewEncoder(w).Encode(map[string]any{"foods": []any{}})
		}
	})
	mux.HandleFunc("GET /food/{id}", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		if r.PathValue("id") != "1750340" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(appleDetail))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient("test-key", WithBaseURL(baseURL), WithRateLimit(rate.Inf), WithLogger(logger.Discard()))
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestSearch_ReportsStatus(t *testing.T) {
	var requests int32
	c := newTestClient(t, newTestServer(t, &requests).URL)

	_, err := c.Search(context.Background(), "broken")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestFetchAll(t *testing.T) {
	var requests int32
	c := newTestClient(t, newTestServer(t, &requests).URL)

	results, err := c.FetchAll(context.Background(), []string{"apple", "broken", "durian"})
	require.NoError(t, err)
	// apple search + two details, broken search, durian search
	assert.Equal(t, int32(5), atomic.LoadInt32(&requests))

	require.Len(t, results, 1)
	foods := results["apple"]
	require.Len(t, foods, 1)

	apple := foods[0]
	assert.Equal(t, "Apples, fuji, with skin, raw", apple.Name)
	assert.Equal(t, map[string]NutrientValue{
		"calories":  {Value: 64.7, Unit: "cal"},
		"protein":   {Value: 0.148, Unit: "g"},
		"potassium": {Value: 109, Unit: "mg"},
		"vitamin_a": {Value: 2, Unit: "mcg"},
	}, apple.Nutrients)
	require.Len(t, apple.Measures, 3)
	assert.Equal(t, "medium", apple.Measures[0].Unit)
}

func TestFetchAll_StopsOnCancel(t *testing.T) {
	var requests int32
	c := newTestClient(t, newTestServer(t, &requests).URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchAll(ctx, []string{"apple"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, atomic.LoadInt32(&requests))
}

func TestFood_FlatNutrientShape(t *testing.T) {
	var d FoodDetail
	require.NoError(t, json.Unmarshal([]byte(`{
		"description": "Banana",
		"foodNutrients": [{"nutrientName": "Sugars, total including NLEA", "value": 12.2, "unitName": "G"}]
	}`), &d))
	assert.Equal(t, map[string]NutrientValue{"sugars": {Value: 12.2, Unit: "g"}}, d.Food().Nutrients)
}

func TestIngredientInput(t *testing.T) {
	var d FoodDetail
	require.NoError(t, json.Unmarshal([]byte(appleDetail), &d))
	in := d.Food().IngredientInput()

	require.NotNil(t, in.ServingSize)
	assert.Equal(t, 100.0, *in.ServingSize)
	assert.Equal(t, "g", *in.ServingUnit)

	keys := make([]string, len(in.Nutrients))
	for i, n := range in.Nutrients {
		keys[i] = n.Key
	}
	assert.Equal(t, []string{"calories", "potassium", "protein", "vitamin_a"}, keys)

	require.Len(t, in.Units, 2)
	assert.Equal(t, "medium", in.Units[0].UnitName)
	assert.Equal(t, 182.0, in.Units[0].Amount)
	assert.Equal(t, "cup", in.Units[1].UnitName)
	assert.Equal(t, 125.0, in.Units[1].Amount)

	// An imported apple is usable end to end.
	ctx := context.Background()
	svc := service.New(memory.NewStore(), logger.Discard())
	ing, err := svc.ImportIngredient(ctx, in)
	require.NoError(t, err)
	assert.Nil(t, ing.CreatedBy)

	grams, err := nutrition.Resolve(ing, 1, "medium")
	require.NoError(t, err)
	assert.Equal(t, 182.0, grams)
}
