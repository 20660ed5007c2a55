package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/alimon-app/mise/internal/service"
)

type contactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

type resolveContactRequest struct {
	ID       int64 `json:"id"`
	Resolved bool  `json:"resolved"`
}

// handleSubmitContact is public; no token is required to leave a message.
func (s *Server) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	msg, err := s.svc.SubmitContact(r.Context(), service.ContactInput{
		Name: req.Name, Email: req.Email, Category: req.Category, Message: req.Message,
	})
	if err != nil {
		s.respondServiceError(w, r, err, "failed to save message")
		return
	}
	s.respondJSON(w, http.StatusCreated, envelope{"message": msg})
}

func (s *Server) handleGetContacts(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	msgs, err := s.svc.ListContacts(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		s.respondServiceError(w, r, err, "failed to get messages")
		return
	}
	s.respondJSON(w, http.StatusOK, envelope{"messages": msgs})
}

func (s *Server) handleResolveContact(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req resolveContactRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.ID == 0 {
		s.respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	msg, err := s.svc.ResolveContact(r.Context(), userID, req.ID, req.Resolved)
	if err != nil {
		s.respondServiceError(w, r, err, "failed to update message")
		return
	}
	s.respondJSON(w, http.StatusOK, envelope{"message": msg})
}
