package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/scrypster/lostpaws/pkg/types"
)

// RemoteAnalyzer produces search areas from a remote language model.
// Implementations return an error wrapping ErrRateLimited on HTTP 429.
type RemoteAnalyzer interface {
	Analyze(ctx context.Context, report *types.PetReport, sightings []types.Sighting) (*types.AnalysisResult, error)
}

// AreaGenerator produces search areas without any network access.
type AreaGenerator interface {
	Generate(report *types.PetReport, sightings []types.Sighting) (*types.AnalysisResult, error)
}

// RecommendationEngineConfig configures a RecommendationEngine.
type RecommendationEngineConfig struct {
	// SightingWindow is the number of most recent sightings passed to
	// either strategy (default: 5).
	SightingWindow int
}

// RecommendationEngine turns a lost-pet report into ranked search areas.
// It tries the remote analyzer once and, on any failure other than rate
// limiting, substitutes the fallback generator. It holds no mutable state
// and is safe for concurrent use.
type RecommendationEngine struct {
	remote   RemoteAnalyzer
	fallback AreaGenerator
	window   int
	logger   *zap.Logger
}

// NewRecommendationEngine creates an engine. remote may be nil, in which
// case every call is served by the fallback generator. A nil fallback uses
// the default FallbackGenerator.
func NewRecommendationEngine(remote RemoteAnalyzer, fallback AreaGenerator, cfg RecommendationEngineConfig, logger *zap.Logger) *RecommendationEngine {
	if fallback == nil {
		fallback = NewFallbackGenerator(nil)
	}
	if cfg.SightingWindow <= 0 {
		cfg.SightingWindow = DefaultSightingWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationEngine{
		remote:   remote,
		fallback: fallback,
		window:   cfg.SightingWindow,
		logger:   logger.Named("engine"),
	}
}

// RecommendSearchAreas returns ranked search areas for report.
//
// Outcomes:
//   - ErrMissingLocation when the report has no location; nothing is called.
//   - ErrRateLimited when the remote model is rate limited; no fallback.
//   - the caller's context error if the caller cancelled the request.
//   - an AI-sourced result on remote success.
//   - a fallback-sourced result (Source == SourceFallback) on any other
//     remote failure, including timeouts and malformed responses.
func (e *RecommendationEngine) RecommendSearchAreas(ctx context.Context, report *types.PetReport, sightings []types.Sighting) (*types.AnalysisResult, error) {
	if report == nil || report.Location == nil {
		return nil, ErrMissingLocation
	}

	recent := e.prepareSightings(report.ID, sightings)

	if e.remote == nil {
		return e.useFallback(report, recent, errors.New("remote analysis not configured"))
	}

	result, err := e.remote.Analyze(ctx, report, recent)
	if err == nil && result == nil {
		err = errors.New("remote analysis returned no result")
	}
	switch {
	case err == nil:
		result.Source = types.SourceAI
		e.logger.Info("search areas recommended",
			zap.String("report_id", report.ID),
			zap.String("source", string(types.SourceAI)),
			zap.Int("areas", len(result.SearchAreas)))
		return result, nil

	case errors.Is(err, ErrRateLimited):
		e.logger.Warn("remote analysis rate limited",
			zap.String("report_id", report.ID),
			zap.Error(err))
		return nil, err

	case ctx.Err() != nil:
		// The caller abandoned the request; there is nobody to serve.
		return nil, ctx.Err()
	}

	return e.useFallback(report, recent, fmt.Errorf("%w: %v", ErrAnalysisFailed, err))
}

func (e *RecommendationEngine) useFallback(report *types.PetReport, sightings []types.Sighting, reason error) (*types.AnalysisResult, error) {
	e.logger.Warn("falling back to heuristic search areas",
		zap.String("report_id", report.ID),
		zap.Error(reason))

	result, err := e.fallback.Generate(report, sightings)
	if err != nil {
		return nil, fmt.Errorf("fallback generation: %w", err)
	}
	result.Source = types.SourceFallback
	result.FallbackReason = reason.Error()

	e.logger.Info("search areas recommended",
		zap.String("report_id", report.ID),
		zap.String("source", string(types.SourceFallback)),
		zap.Int("areas", len(result.SearchAreas)))
	return result, nil
}

// prepareSightings drops unusable records and keeps the newest window.
func (e *RecommendationEngine) prepareSightings(reportID string, sightings []types.Sighting) []types.Sighting {
	valid, skipped := FilterSightings(sightings)
	for _, err := range skipped {
		e.logger.Warn("skipping sighting",
			zap.String("report_id", reportID),
			zap.Error(err))
	}
	return RecentSightings(valid, e.window)
}
