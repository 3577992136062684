package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/scrypster/lostpaws/pkg/types"
)

// CreateSighting handles POST /api/reports/{id}/sightings. A high or
// medium confidence sighting raises a lost report's search probability; it
// is never lowered.
func (h *APIHandlers) CreateSighting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := extractID(r, "id")

	var req CreateSightingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	sighting := &types.Sighting{
		PetID:        id,
		Location:     req.Location,
		Description:  req.Description,
		Confidence:   req.Confidence,
		ImageURLs:    req.ImageURLs,
		ReporterID:   req.ReporterID,
		ReporterName: req.ReporterName,
	}
	if err := h.store.AddSighting(ctx, sighting); err != nil {
		h.respondStorageError(w, "failed to add sighting", err)
		return
	}

	probability, err := h.applySighting(ctx, id, sighting)
	if err != nil {
		h.respondStorageError(w, "failed to update search probability", err)
		return
	}

	h.logger.Info("sighting added",
		zap.String("report_id", id),
		zap.String("sighting_id", sighting.ID),
		zap.String("confidence", string(sighting.Confidence)))

	respondJSON(w, http.StatusCreated, SightingResponse{Sighting: sighting, SearchProbability: probability})
}

// applySighting raises the stored probability by one new sighting. It
// returns nil for reports that are no longer lost.
func (h *APIHandlers) applySighting(ctx context.Context, id string, sighting *types.Sighting) (*int, error) {
	high, medium := 0, 0
	switch sighting.Confidence {
	case types.ConfidenceHigh:
		high = 1
	case types.ConfidenceMedium:
		medium = 1
	}

	return h.store.RaiseSearchProbability(ctx, id, func(report *types.PetReport) int {
		current, ok := report.StoredProbability()
		if !ok {
			current = h.scorer.Score(report)
		}
		return h.scorer.AdjustForSightings(current, high, medium)
	})
}

// ListSightings handles GET /api/reports/{id}/sightings - newest first.
// The limit query parameter bounds the result; 0 or absent returns all.
func (h *APIHandlers) ListSightings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := extractID(r, "id")

	if _, err := h.store.GetReport(ctx, id); err != nil {
		h.respondStorageError(w, "failed to get report", err)
		return
	}

	limit := parseInt(r.URL.Query().Get("limit"), 0)
	if limit < 0 {
		limit = 0
	}
	sightings, err := h.store.RecentSightings(ctx, id, limit)
	if err != nil {
		h.respondStorageError(w, "failed to list sightings", err)
		return
	}
	respondJSON(w, http.StatusOK, SightingsResponse{Sightings: sightings, Total: len(sightings)})
}
