package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/service"
)

// ---------------------------------------------------------------------------
// Ingredients
// ---------------------------------------------------------------------------

type nutrientRequest struct {
	NutrientKey string  `json:"nutrient_key"`
	Amount      float64 `json:"amount"`
	Unit        string  `json:"unit"`
	DisplayName string  `json:"display_name"`
}

type unitRequest struct {
	UnitName  string  `json:"unit_name"`
	Amount    float64 `json:"amount"`
	IsDefault bool    `json:"is_default"`
}

type createIngredientRequest struct {
	Name                 string            `json:"name"`
	Brand                *string           `json:"brand"`
	ServingSize          *float64          `json:"serving_size"`
	ServingUnit          *string           `json:"serving_unit"`
	ServingsPerContainer *float64          `json:"servings_per_container"`
	Nutrients            []nutrientRequest `json:"nutrients"`
	Units                []unitRequest     `json:"units"`
}

type addUnitsRequest struct {
	IngredientID int64         `json:"ingredient_id"`
	Units        []unitRequest `json:"units"`
}

func toConversions(units []unitRequest) []models.UnitConversion {
	out := make([]models.UnitConversion, len(units))
	for i, u := range units {
		out[i] = models.UnitConversion{UnitName: u.UnitName, Amount: u.Amount, IsDefault: u.IsDefault}
	}
	return out
}

func (s *Server) handleCreateIngredient(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req createIngredientRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	in := service.CreateIngredientInput{
		Name:                 req.Name,
		Brand:                req.Brand,
		ServingSize:          req.ServingSize,
		ServingUnit:          req.ServingUnit,
		ServingsPerContainer: req.ServingsPerContainer,
		Units:                toConversions(req.Units),
	}
	for _, n := range req.Nutrients {
		in.Nutrients = append(in.Nutrients, service.NutrientInput{
			Key: n.NutrientKey, Amount: n.Amount, Unit: n.Unit, DisplayName: n.DisplayName,
		})
	}

	ing, err := s.svc.CreateIngredient(r.Context(), userID, in)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to create ingredient")
		return
	}
	s.respondJSON(w, http.StatusCreated, envelope{"ingredientId": ing.ID})
}

func (s *Server) handleGetIngredients(w http.ResponseWriter, r *http.Request, _ uuid.UUID) {
	ingredients, err := s.svc.ListIngredients(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err, "failed to get ingredients")
		return
	}
	s.respondJSON(w, http.StatusOK, envelope{"ingredients": ingredients})
}

func (s *Server) handleGetIngredient(w http.ResponseWriter, r *http.Request, _ uuid.UUID) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid ingredient id")
		return
	}

	ing, err := s.svc.GetIngredient(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to get ingredient")
		return
	}
	s.respondJSON(w, http.StatusOK, envelope{"ingredient": ing})
}

func (s *Server) handleSearchIngredients(w http.ResponseWriter, r *http.Request, _ uuid.UUID) {
	ingredients, err := s.svc.SearchIngredients(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondServiceError(w, r, err, "failed to search ingredients")
		return
	}
	s.respondJSON(w, http.StatusOK, envelope{"ingredients": ingredients})
}

func (s *Server) handleAddIngredientUnits(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req addUnitsRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.IngredientID == 0 {
		s.respondError(w, http.StatusBadRequest, "ingredient_id is required")
		return
	}

	if err := s.svc.AddUnits(r.Context(), userID, req.IngredientID, toConversions(req.Units)); err != nil {
		s.respondServiceError(w, r, err, "failed to add units")
		return
	}
	s.respondJSON(w, http.StatusOK, nil)
}

// ---------------------------------------------------------------------------
// Recipes
// ---------------------------------------------------------------------------

type recipeComponentRequest struct {
	IngredientID int64   `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}

type createRecipeRequest struct {
	Name        string                   `json:"name"`
	Servings    int                      `json:"servings"`
	Ingredients []recipeComponentRequest `json:"ingredients"`
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req createRecipeRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	in := service.CreateRecipeInput{Name: req.Name, Servings: req.Servings}
	for _, c := range req.Ingredients {
		in.Ingredients = append(in.Ingredients, service.RecipeComponentInput{
			IngredientID: c.IngredientID, Quantity: c.Quantity, Unit: c.Unit,
		})
	}

	recipe, err := s.svc.CreateRecipe(r.Context(), userID, in)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to create recipe")
		return
	}
	s.respondJSON(w, http.StatusCreated, envelope{"recipeId": recipe.ID})
}

func (s *Server) handleSearchRecipes(w http.ResponseWriter, r *http.Request, _ uuid.UUID) {
	recipes, err := s.svc.SearchRecipes(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondServiceError(w, r, err, "failed to search recipes")
		return
	}
	s.respondJSON(w, http.StatusOK, envelope{"results": recipes})
}

func (s *Server) handleRecipeNutrients(w http.ResponseWriter, r *http.Request, _ uuid.UUID) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	nutrients, err := s.svc.RecipeNutrients(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to get recipe nutrients")
		return
	}
	s.respondJSON(w, http.StatusOK, envelope{"nutrients": nutrients})
}
