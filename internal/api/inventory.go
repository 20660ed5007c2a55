package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/alimon-app/mise/internal/service"
)

type addInventoryRequest struct {
	IngredientID *int64  `json:"ingredient_id"`
	RecipeID     *int64  `json:"recipe_id"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}

func (s *Server) handleAddInventory(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req addInventoryRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := s.svc.AddInventory(r.Context(), userID, service.AddInventoryInput{
		IngredientID: req.IngredientID,
		RecipeID:     req.RecipeID,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
	})
	if err != nil {
		s.respondServiceError(w, r, err, "failed to add inventory")
		return
	}

	s.respondJSON(w, http.StatusOK, envelope{"inventory": item})
}

func (s *Server) handleGetInventory(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	items, err := s.svc.ListInventory(r.Context(), userID)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to get inventory")
		return
	}

	s.respondJSON(w, http.StatusOK, envelope{"inventory": items})
}
