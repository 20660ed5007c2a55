package api

import (
	"net/http"

	"github.com/google/uuid"
)

type createGoalRequest struct {
	NutrientKey  string  `json:"nutrient_key"`
	TargetAmount float64 `json:"target_amount"`
}

type updateGoalRequest struct {
	ID           int64   `json:"id"`
	TargetAmount float64 `json:"target_amount"`
}

func (s *Server) handleGetGoals(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	goals, err := s.svc.ListGoals(r.Context(), userID)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to get goals")
		return
	}
	s.respondJSON(w, http.StatusOK, envelope{"goals": goals})
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req createGoalRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	goal, err := s.svc.CreateGoal(r.Context(), userID, req.NutrientKey, req.TargetAmount)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to create goal")
		return
	}
	s.respondJSON(w, http.StatusCreated, envelope{"goal": goal})
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req updateGoalRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.ID == 0 {
		s.respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	goal, err := s.svc.UpdateGoal(r.Context(), userID, req.ID, req.TargetAmount)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to update goal")
		return
	}
	s.respondJSON(w, http.StatusOK, envelope{"goal": goal})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	if err := s.svc.DeleteGoal(r.Context(), userID, id); err != nil {
		s.respondServiceError(w, r, err, "failed to delete goal")
		return
	}
	s.respondJSON(w, http.StatusOK, nil)
}
