package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alimon-app/mise/internal/service"
)

// Options configures the HTTP API.
type Options struct {
	JWTSecret      string
	RequestTimeout time.Duration
}

// Server provides the JSON HTTP API.
type Server struct {
	svc     *service.Service
	logger  *logrus.Logger
	mux     *http.ServeMux
	auth    *Authenticator
	timeout time.Duration
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger, opts Options) *Server {
	s := &Server{
		svc:     svc,
		logger:  logger,
		mux:     http.NewServeMux(),
		auth:    NewAuthenticator(opts.JWTSecret),
		timeout: opts.RequestTimeout,
	}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.withTimeout(instrument(s.mux)))
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	// API – Food logs
	s.mux.HandleFunc("POST /api/food-logs", s.authed(s.handleCreateFoodLog))
	s.mux.HandleFunc("GET /api/food-logs", s.authed(s.handleGetFoodLogs))
	s.mux.HandleFunc("GET /api/recent-meals", s.authed(s.handleRecentMeals))

	// API – Inventory
	s.mux.HandleFunc("POST /api/inventory", s.authed(s.handleAddInventory))
	s.mux.HandleFunc("GET /api/inventory", s.authed(s.handleGetInventory))

	// API – Goals
	s.mux.HandleFunc("GET /api/goals", s.authed(s.handleGetGoals))
	s.mux.HandleFunc("POST /api/goals", s.authed(s.handleCreateGoal))
	s.mux.HandleFunc("PUT /api/goals", s.authed(s.handleUpdateGoal))
	s.mux.HandleFunc("DELETE /api/goals/{id}", s.authed(s.handleDeleteGoal))

	// API – Ingredients
	s.mux.HandleFunc("POST /api/ingredients", s.authed(s.handleCreateIngredient))
	s.mux.HandleFunc("GET /api/ingredients", s.authed(s.handleGetIngredients))
	s.mux.HandleFunc("GET /api/ingredients/search", s.authed(s.handleSearchIngredients))
	s.mux.HandleFunc("GET /api/ingredients/{id}", s.authed(s.handleGetIngredient))
	s.mux.HandleFunc("POST /api/ingredient-units", s.authed(s.handleAddIngredientUnits))

	// API – Recipes
	s.mux.HandleFunc("POST /api/recipes", s.authed(s.handleCreateRecipe))
	s.mux.HandleFunc("GET /api/recipes/search", s.authed(s.handleSearchRecipes))
	s.mux.HandleFunc("GET /api/recipes/{id}/nutrients", s.authed(s.handleRecipeNutrients))

	// API – Summary & nutrient catalog
	s.mux.HandleFunc("GET /api/summary", s.authed(s.handleSummary))
	s.mux.HandleFunc("GET /api/nutrients", s.handleNutrients)

	// API – Contact
	s.mux.HandleFunc("POST /api/contact", s.handleSubmitContact)
	s.mux.HandleFunc("GET /api/contact", s.authed(s.handleGetContacts))
	s.mux.HandleFunc("PATCH /api/contact", s.authed(s.handleResolveContact))
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

// envelope is the body of every JSON response.
type envelope map[string]any

func (s *Server) respondJSON(w http.ResponseWriter, status int, data envelope) {
	if data == nil {
		data = envelope{}
	}
	if _, ok := data["success"]; !ok {
		data["success"] = status < http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode JSON response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, envelope{"success": false, "error": message})
}

// respondServiceError maps a service error onto a status code. Unexpected
// errors are logged and answered with the generic message.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		s.respondError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrUnauthorized):
		s.respondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrForbidden):
		s.respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrConflict):
		s.respondError(w, http.StatusConflict, "already exists")
	default:
		s.logger.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error(message)
		s.respondError(w, http.StatusInternalServerError, message)
	}
}

// decodeJSON reads the request body into dst and returns an error message on
// failure.  The caller should return immediately when ok == false.
func (s *Server) decodeJSON(r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil || r.Body == http.NoBody {
		return false, "request body is empty"
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, ""
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("missing id in path")
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, envelope{"success": true})
}
