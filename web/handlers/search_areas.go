package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/scrypster/lostpaws/internal/engine"
)

// retryAfterSeconds is advertised to clients when the remote model is
// rate limited.
const retryAfterSeconds = "60"

// RecommendSearchAreas handles POST /api/reports/{id}/search-areas.
// It ranks search areas from the report and its latest sightings, stores
// the prediction and tips on the report and pushes the result to
// WebSocket clients.
func (h *APIHandlers) RecommendSearchAreas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := extractID(r, "id")

	report, err := h.store.GetReport(ctx, id)
	if err != nil {
		h.respondStorageError(w, "failed to get report", err)
		return
	}

	sightings, err := h.store.RecentSightings(ctx, id, h.sightingWindow)
	if err != nil {
		h.respondStorageError(w, "failed to load sightings", err)
		return
	}

	result, err := h.recommender.RecommendSearchAreas(ctx, report, sightings)
	switch {
	case errors.Is(err, engine.ErrMissingLocation):
		respondError(w, http.StatusUnprocessableEntity, "report has no last-known location", nil)
		return
	case errors.Is(err, engine.ErrRateLimited):
		w.Header().Set("Retry-After", retryAfterSeconds)
		respondError(w, http.StatusTooManyRequests, "search analysis is rate limited, try again shortly", nil)
		return
	case err != nil:
		h.logger.Error("search area recommendation failed", zap.String("report_id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to recommend search areas", nil)
		return
	}

	// The probability is owned by the sightings path and may have been
	// raised while the recommendation ran.
	err = h.store.UpdateAnalysis(ctx, id, result.BehaviorPrediction, result.SearchTips)
	if err != nil {
		h.logger.Warn("failed to store report analysis", zap.String("report_id", id), zap.Error(err))
	}

	resp := newSearchAreasResponse(id, result)
	if h.broadcaster != nil {
		h.broadcaster.Broadcast(SearchAreasEvent{
			Type:     EventSearchAreasUpdated,
			ReportID: id,
			Result:   resp,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}
