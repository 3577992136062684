package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/lostpaws/pkg/types"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) Analyze(ctx context.Context, report *types.PetReport, sightings []types.Sighting) (*types.AnalysisResult, error) {
	args := m.Called(ctx, report, sightings)
	result, _ := args.Get(0).(*types.AnalysisResult)
	return result, args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(report *types.PetReport, sightings []types.Sighting) (*types.AnalysisResult, error) {
	args := m.Called(report, sightings)
	result, _ := args.Get(0).(*types.AnalysisResult)
	return result, args.Error(1)
}

func aiResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		BehaviorPrediction: "Likely hiding nearby.",
		SearchTips:         []string{"Check under porches"},
		SearchAreas: []types.SearchArea{
			{ID: "area1", Center: types.Coordinate{Latitude: 10, Longitude: 20}, Radius: 500, Probability: 90, Color: types.ColorRed},
			{ID: "area2", Center: types.Coordinate{Latitude: 10.01, Longitude: 20}, Radius: 400, Probability: 70, Color: types.ColorAmber},
			{ID: "area3", Center: types.Coordinate{Latitude: 10, Longitude: 20.01}, Radius: 300, Probability: 60, Color: types.ColorBlue},
		},
	}
}

func TestRecommendSearchAreas_RemoteSuccess(t *testing.T) {
	remote := new(mockRemote)
	fallback := new(mockGenerator)
	remote.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return(aiResult(), nil)

	e := NewRecommendationEngine(remote, fallback, RecommendationEngineConfig{}, nil)
	result, err := e.RecommendSearchAreas(context.Background(), scaredDogReport(), nil)

	require.NoError(t, err)
	assert.Equal(t, types.SourceAI, result.Source)
	assert.Len(t, result.SearchAreas, 3)
	fallback.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestRecommendSearchAreas_RateLimitedSkipsFallback(t *testing.T) {
	remote := new(mockRemote)
	fallback := new(mockGenerator)
	remote.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("openai: %w", ErrRateLimited))

	e := NewRecommendationEngine(remote, fallback, RecommendationEngineConfig{}, nil)
	result, err := e.RecommendSearchAreas(context.Background(), scaredDogReport(), nil)

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Nil(t, result)
	fallback.AssertNumberOfCalls(t, "Generate", 0)
}

func TestRecommendSearchAreas_NetworkErrorUsesFallback(t *testing.T) {
	remote := new(mockRemote)
	remote.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused"))

	report := scaredDogReport()
	expected, err := NewFallbackGenerator(nil).Generate(report, nil)
	require.NoError(t, err)

	e := NewRecommendationEngine(remote, nil, RecommendationEngineConfig{}, nil)
	result, err := e.RecommendSearchAreas(context.Background(), report, nil)

	require.NoError(t, err)
	assert.True(t, result.IsFallback())
	assert.Contains(t, result.FallbackReason, ErrAnalysisFailed.Error())
	assert.Equal(t, expected.SearchAreas, result.SearchAreas)
	assert.Equal(t, expected.BehaviorPrediction, result.BehaviorPrediction)
	assert.Equal(t, expected.SearchTips, result.SearchTips)
}

func TestRecommendSearchAreas_NilRemoteResultUsesFallback(t *testing.T) {
	remote := new(mockRemote)
	remote.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	e := NewRecommendationEngine(remote, nil, RecommendationEngineConfig{}, nil)
	result, err := e.RecommendSearchAreas(context.Background(), scaredDogReport(), nil)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, types.SourceFallback, result.Source)
	assert.Contains(t, result.FallbackReason, ErrAnalysisFailed.Error())
	assert.Contains(t, result.FallbackReason, "no result")
}

func TestRecommendSearchAreas_MissingLocationCallsNothing(t *testing.T) {
	remote := new(mockRemote)
	fallback := new(mockGenerator)

	report := scaredDogReport()
	report.Location = nil

	e := NewRecommendationEngine(remote, fallback, RecommendationEngineConfig{}, nil)
	_, err := e.RecommendSearchAreas(context.Background(), report, nil)

	assert.ErrorIs(t, err, ErrMissingLocation)
	remote.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
	fallback.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestRecommendSearchAreas_NoRemoteConfigured(t *testing.T) {
	e := NewRecommendationEngine(nil, nil, RecommendationEngineConfig{}, nil)
	result, err := e.RecommendSearchAreas(context.Background(), scaredDogReport(), nil)

	require.NoError(t, err)
	assert.Equal(t, types.SourceFallback, result.Source)
	assert.NotEmpty(t, result.FallbackReason)
}

func TestRecommendSearchAreas_CallerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	remote := new(mockRemote)
	fallback := new(mockGenerator)
	remote.On("Analyze", mock.Anything, mock.Anything, mock.Anything).Return(nil, context.Canceled)

	e := NewRecommendationEngine(remote, fallback, RecommendationEngineConfig{}, nil)
	_, err := e.RecommendSearchAreas(ctx, scaredDogReport(), nil)

	assert.ErrorIs(t, err, context.Canceled)
	fallback.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

// TestRecommendSearchAreas_PassesRecentValidSightings verifies the remote
// sees only valid sightings, newest first, bounded by the window.
func TestRecommendSearchAreas_PassesRecentValidSightings(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sightings := []types.Sighting{
		sightingAt("old", types.ConfidenceLow, base),
		{ID: "invalid", Confidence: types.ConfidenceHigh, CreatedAt: base.Add(5 * time.Hour)},
		sightingAt("mid", types.ConfidenceMedium, base.Add(time.Hour)),
		sightingAt("new", types.ConfidenceHigh, base.Add(2*time.Hour)),
	}

	remote := new(mockRemote)
	remote.On("Analyze", mock.Anything, mock.Anything, mock.MatchedBy(func(s []types.Sighting) bool {
		return assert.ObjectsAreEqual([]string{"new", "mid"}, ids(s))
	})).Return(aiResult(), nil)

	e := NewRecommendationEngine(remote, nil, RecommendationEngineConfig{SightingWindow: 2}, nil)
	_, err := e.RecommendSearchAreas(context.Background(), scaredDogReport(), sightings)

	require.NoError(t, err)
	remote.AssertExpectations(t)
}
