package attempts

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/studysphere/backend/internal/middleware"
	"github.com/studysphere/backend/internal/models"
	"github.com/studysphere/backend/internal/progress"
)

const maxListLimit = 200

type DashboardService interface {
	Dashboard(ctx context.Context, userID int64, now time.Time) (*models.DashboardResponse, error)
}

type AttemptStore interface {
	FetchAttempts(ctx context.Context, userID int64, limit int) ([]models.AttemptRecord, error)
	RecordAttempt(ctx context.Context, userID int64, passageID int64, score, timeTakenSec int, at time.Time) (*models.AttemptRecord, error)
}

// StatsInvalidator drops any cached stats for a user after a new attempt.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

type Handler struct {
	dashboard   DashboardService
	store       AttemptStore
	invalidator StatsInvalidator
	now         func() time.Time
	listLimit   int
}

func NewHandler(dashboard DashboardService, store AttemptStore, invalidator StatsInvalidator, now func() time.Time, listLimit int) *Handler {
	if now == nil {
		now = time.Now
	}
	if listLimit <= 0 {
		listLimit = progress.DefaultAttemptLimit
	}
	return &Handler{
		dashboard:   dashboard,
		store:       store,
		invalidator: invalidator,
		now:         now,
		listLimit:   listLimit,
	}
}

// RegisterRoutes registers progress and attempt endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/progress", h.GetProgress).Methods("GET")
	protected.HandleFunc("/attempts", h.ListAttempts).Methods("GET")
	protected.HandleFunc("/attempts", h.CreateAttempt).Methods("POST")
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.dashboard.Dashboard(r.Context(), userID, h.now())
	if err != nil {
		log.Printf("[handler] GetProgress user %d: %v", userID, err)
		if errors.Is(err, progress.ErrCollaborator) {
			writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Failed to load progress"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to compute progress"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", h.listLimit)
	if limit == 0 || limit > maxListLimit {
		limit = h.listLimit
	}

	attempts, err := h.store.FetchAttempts(r.Context(), userID, limit)
	if err != nil {
		log.Printf("[handler] ListAttempts user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get attempts"})
		return
	}

	writeJSON(w, http.StatusOK, models.AttemptListResponse{Attempts: attempts, Limit: limit})
}

func (h *Handler) CreateAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.RecordAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.PassageID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "passage_id is required"})
		return
	}
	if req.Score == nil || req.TimeTakenSec == nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "score and time_taken_sec are required"})
		return
	}

	at := h.now()
	candidate := []models.AttemptRecord{{PassageID: req.PassageID, Score: *req.Score, TimeTakenSec: *req.TimeTakenSec, AttemptedAt: at}}
	if err := progress.ValidateAttempts(candidate); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	attempt, err := h.store.RecordAttempt(r.Context(), userID, req.PassageID, *req.Score, *req.TimeTakenSec, at)
	if err != nil {
		if errors.Is(err, ErrPassageNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Passage not found"})
			return
		}
		log.Printf("[handler] CreateAttempt user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record attempt"})
		return
	}

	if h.invalidator != nil {
		if err := h.invalidator.Invalidate(r.Context(), userID); err != nil {
			log.Printf("[handler] invalidate stats for user %d: %v", userID, err)
		}
	}

	writeJSON(w, http.StatusCreated, attempt)
}

// ── Helpers ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
