package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/alimon-app/mise/internal/service"
)

// ---------------------------------------------------------------------------
// Food logs
// ---------------------------------------------------------------------------

type createFoodLogRequest struct {
	IngredientID    *int64   `json:"ingredient_id"`
	RecipeID        *int64   `json:"recipe_id"`
	Quantity        *float64 `json:"quantity"`
	Unit            string   `json:"unit"`
	LoggedAt        string   `json:"logged_at"` // RFC 3339, optional
	UpdateInventory bool     `json:"update_inventory"`
}

func (s *Server) handleCreateFoodLog(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req createFoodLogRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Quantity == nil {
		s.respondError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	in := service.LogFoodInput{
		IngredientID:    req.IngredientID,
		RecipeID:        req.RecipeID,
		Quantity:        *req.Quantity,
		Unit:            req.Unit,
		UpdateInventory: req.UpdateInventory,
	}
	if req.LoggedAt != "" {
		t, err := time.Parse(time.RFC3339, req.LoggedAt)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "logged_at must be RFC 3339 format")
			return
		}
		in.LoggedAt = &t
	}

	log, err := s.svc.LogFood(r.Context(), userID, in)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to log food")
		return
	}

	s.respondJSON(w, http.StatusCreated, envelope{"food_log_id": log.ID})
}

func (s *Server) handleGetFoodLogs(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var day *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := service.ParseDay(raw)
		if err != nil {
			s.respondServiceError(w, r, err, "invalid date")
			return
		}
		day = &d
	}

	logs, err := s.svc.ListFoodLogs(r.Context(), userID, day)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to get food logs")
		return
	}

	s.respondJSON(w, http.StatusOK, envelope{"food_logs": logs})
}

func (s *Server) handleRecentMeals(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	meals, err := s.svc.RecentMeals(r.Context(), userID)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to get recent meals")
		return
	}

	s.respondJSON(w, http.StatusOK, envelope{"meals": meals})
}

// ---------------------------------------------------------------------------
// Daily summary
// ---------------------------------------------------------------------------

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := service.ParseDay(raw)
		if err != nil {
			s.respondServiceError(w, r, err, "invalid date")
			return
		}
		day = d
	}

	summary, err := s.svc.DailySummary(r.Context(), userID, day)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to build summary")
		return
	}

	s.respondJSON(w, http.StatusOK, envelope{"date": summary.Date, "nutrients": summary.Nutrients})
}

func (s *Server) handleNutrients(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, envelope{"nutrients": s.svc.NutrientCatalog()})
}
