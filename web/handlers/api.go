package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/scrypster/lostpaws/internal/config"
	"github.com/scrypster/lostpaws/internal/engine"
	"github.com/scrypster/lostpaws/internal/logging"
	"github.com/scrypster/lostpaws/internal/storage"
	"github.com/scrypster/lostpaws/pkg/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// SearchRecommender produces ranked search areas for a report.
// *engine.RecommendationEngine satisfies it.
type SearchRecommender interface {
	RecommendSearchAreas(ctx context.Context, report *types.PetReport, sightings []types.Sighting) (*types.AnalysisResult, error)
}

// Broadcaster pushes events to connected clients.
// *WebSocketHub satisfies it.
type Broadcaster interface {
	Broadcast(message interface{})
}

// APIHandlers contains HTTP handlers for the REST API.
type APIHandlers struct {
	store          storage.ReportStore
	recommender    SearchRecommender
	broadcaster    Broadcaster
	scorer         *engine.ProbabilityScorer
	sightingWindow int
	logger         *zap.Logger
}

// NewAPIHandlers creates a new APIHandlers instance.
// broadcaster may be nil.
func NewAPIHandlers(store storage.ReportStore, recommender SearchRecommender, broadcaster Broadcaster, cfg *config.Config, logger *zap.Logger) *APIHandlers {
	window := cfg.Engine.SightingWindow
	if window <= 0 {
		window = 5
	}
	return &APIHandlers{
		store:          store,
		recommender:    recommender,
		broadcaster:    broadcaster,
		scorer:         engine.NewProbabilityScorer(),
		sightingWindow: window,
		logger:         logging.OrNop(logger).Named("api"),
	}
}

// RegisterRoutes mounts every API route on mux.
func (h *APIHandlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/reports", h.CreateReport)
	mux.HandleFunc("GET /api/reports", h.ListReports)
	mux.HandleFunc("GET /api/reports/{id}", h.GetReport)
	mux.HandleFunc("PATCH /api/reports/{id}/status", h.UpdateStatus)
	mux.HandleFunc("POST /api/reports/{id}/sightings", h.CreateSighting)
	mux.HandleFunc("GET /api/reports/{id}/sightings", h.ListSightings)
	mux.HandleFunc("POST /api/reports/{id}/search-areas", h.RecommendSearchAreas)
	mux.HandleFunc("GET /api/weather/{condition}", h.GetWeather)
}

// CreateReport handles POST /api/reports. Lost reports get their
// submission-time search probability; found reports get a match confidence.
func (h *APIHandlers) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	report := req.toReport()
	if err := report.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid report", err)
		return
	}

	var matchConfidence *int
	switch report.Status {
	case types.StatusLost:
		p := h.scorer.Score(report)
		report.SearchProbability = &p
	case types.StatusFound:
		c := h.scorer.MatchConfidence(report)
		matchConfidence = &c
	}

	if err := h.store.CreateReport(r.Context(), report); err != nil {
		h.respondStorageError(w, "failed to create report", err)
		return
	}

	h.logger.Info("report created",
		zap.String("report_id", report.ID),
		zap.String("status", string(report.Status)),
		zap.String("species", string(report.Species)))

	respondJSON(w, http.StatusCreated, ReportResponse{PetReport: report, MatchConfidence: matchConfidence})
}

// ListReports handles GET /api/reports - list reports with pagination and filtering.
func (h *APIHandlers) ListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := storage.ListOptions{
		Status:   types.ReportStatus(q.Get("status")),
		Species:  types.Species(q.Get("species")),
		Page:     parseInt(q.Get("page"), 1),
		PageSize: parseInt(q.Get("page_size"), 0),
	}
	if opts.Status != "" && !types.IsValidReportStatus(opts.Status) {
		respondError(w, http.StatusBadRequest, "invalid status filter", nil)
		return
	}
	if opts.Species != "" && !types.IsValidSpecies(opts.Species) {
		respondError(w, http.StatusBadRequest, "invalid species filter", nil)
		return
	}

	result, err := h.store.ListReports(r.Context(), opts)
	if err != nil {
		h.respondStorageError(w, "failed to list reports", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetReport handles GET /api/reports/{id}.
func (h *APIHandlers) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.store.GetReport(r.Context(), extractID(r, "id"))
	if err != nil {
		h.respondStorageError(w, "failed to get report", err)
		return
	}
	respondJSON(w, http.StatusOK, ReportResponse{PetReport: report})
}

// UpdateStatus handles PATCH /api/reports/{id}/status. Only the owner may
// change the status.
func (h *APIHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.OwnerID == "" {
		respondError(w, http.StatusBadRequest, "owner_id is required", nil)
		return
	}

	report, err := h.store.UpdateStatus(r.Context(), extractID(r, "id"), req.OwnerID, req.Status)
	if err != nil {
		h.respondStorageError(w, "failed to update status", err)
		return
	}

	h.logger.Info("report status changed",
		zap.String("report_id", report.ID),
		zap.String("status", string(report.Status)))

	respondJSON(w, http.StatusOK, ReportResponse{PetReport: report})
}

// respondStorageError maps storage sentinels to HTTP statuses.
func (h *APIHandlers) respondStorageError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "report not found", nil)
	case errors.Is(err, storage.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, storage.ErrForbidden):
		respondError(w, http.StatusForbidden, "only the owner may change this report", nil)
	case errors.Is(err, storage.ErrInvalidTransition):
		respondError(w, http.StatusConflict, message, err)
	default:
		h.logger.Error(message, zap.Error(err))
		respondError(w, http.StatusInternalServerError, message, nil)
	}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// extractID extracts a path parameter from the request.
func extractID(r *http.Request, key string) string {
	return r.PathValue(key)
}

// parseInt parses an integer from a string, returning defaultValue if parsing fails.
func parseInt(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return val
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// Headers are already sent; an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error response with the given status code.
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  http.StatusText(statusCode),
	}

	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}

	respondJSON(w, statusCode, errResp)
}
