package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/scarramanga/stackmotive-signal-engine/internal/database"
	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
	"github.com/scarramanga/stackmotive-signal-engine/internal/strategy"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db      *database.DB
	manager *strategy.Manager
}

// NewHandler creates a new Handler
func NewHandler(db *database.DB, manager *strategy.Manager) *Handler {
	return &Handler{
		db:      db,
		manager: manager,
	}
}

// RunUserStrategies handles POST /users/{id}/run
func (h *Handler) RunUserStrategies(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	signals, err := h.manager.RunUserStrategies(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if signals == nil {
		signals = []*models.TradingSignal{}
	}

	respondJSON(w, http.StatusOK, signals)
}

// GetUserSignals handles GET /users/{id}/signals
func (h *Handler) GetUserSignals(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	signals, err := h.db.GetTradingSignalsByUser(userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, signals)
}

// GetSignal handles GET /signals/{id}
func (h *Handler) GetSignal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	signal, err := h.db.GetTradingSignalByID(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, signal)
}

// ApproveSignal handles POST /signals/{id}/approve
func (h *Handler) ApproveSignal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	signal, err := h.manager.ApproveSignal(r.Context(), id)
	if err != nil {
		var verr *strategy.ValidationError
		status := http.StatusInternalServerError
		if errors.As(err, &verr) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	respondJSON(w, http.StatusOK, signal)
}

// GetUserStrategies handles GET /users/{id}/strategies
func (h *Handler) GetUserStrategies(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	strategies, err := h.db.GetStrategies(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, strategies)
}

// CreateStrategy handles POST /strategies
func (h *Handler) CreateStrategy(w http.ResponseWriter, r *http.Request) {
	var s models.Strategy
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if s.UserID == 0 || s.Name == "" {
		http.Error(w, "user_id and name are required", http.StatusBadRequest)
		return
	}

	if err := h.db.CreateStrategy(&s); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, s)
}

// UpdateStrategy handles PUT /strategies/{id}
func (h *Handler) UpdateStrategy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	var s models.Strategy
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s.ID = id

	if err := h.db.UpdateStrategy(&s); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, s)
}

// DeleteStrategy handles DELETE /strategies/{id}
func (h *Handler) DeleteStrategy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	if err := h.db.DeleteStrategy(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAutomationPreference handles GET /users/{id}/strategies/{strategyId}/automation
func (h *Handler) GetAutomationPreference(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	strategyID, ok := pathInt(w, r, "strategyId")
	if !ok {
		return
	}

	pref, err := h.db.GetAutomationPreference(userID, strategyID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if pref == nil {
		http.Error(w, "automation preference not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, pref)
}

// PutAutomationPreference handles PUT /users/{id}/strategies/{strategyId}/automation
func (h *Handler) PutAutomationPreference(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	strategyID, ok := pathInt(w, r, "strategyId")
	if !ok {
		return
	}

	var pref models.AutomationPreference
	if err := json.NewDecoder(r.Body).Decode(&pref); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	pref.UserID = userID
	pref.StrategyID = strategyID

	switch pref.Level {
	case models.AutomationNotification, models.AutomationSemiAuto, models.AutomationFullAuto:
	default:
		http.Error(w, "invalid automation level", http.StatusBadRequest)
		return
	}

	if err := h.db.UpsertAutomationPreference(&pref); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, pref)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	value, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return value, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
