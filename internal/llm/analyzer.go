package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/scrypster/lostpaws/pkg/types"
)

// SearchAnalyzer asks a chat model for search areas and validates the reply.
// It makes exactly one attempt per call.
type SearchAnalyzer struct {
	completer ChatCompleter
	logger    *zap.Logger
}

// NewSearchAnalyzer creates a SearchAnalyzer over completer.
func NewSearchAnalyzer(completer ChatCompleter, logger *zap.Logger) *SearchAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchAnalyzer{
		completer: completer,
		logger:    logger.Named("llm"),
	}
}

// Analyze returns model-proposed search areas for report.
// HTTP 429 surfaces as an error wrapping ErrRateLimited; every other
// failure, including schema violations, is returned wrapped for the caller
// to recover from.
func (a *SearchAnalyzer) Analyze(ctx context.Context, report *types.PetReport, sightings []types.Sighting) (*types.AnalysisResult, error) {
	if report == nil || report.Location == nil {
		return nil, errors.New("report has no last-known location")
	}

	prompt := BuildSearchAreaPrompt(report, sightings)
	text, err := a.completer.CompleteJSON(ctx, SearchAreaSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	result, err := ParseSearchAreaResponse(text, *report.Location)
	if err != nil {
		a.logger.Warn("discarding model response",
			zap.String("report_id", report.ID),
			zap.String("model", a.completer.GetModel()),
			zap.Error(err))
		return nil, fmt.Errorf("parse search areas: %w", err)
	}
	result.Model = a.completer.GetModel()
	return result, nil
}
