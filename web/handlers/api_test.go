package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/lostpaws/internal/config"
	"github.com/scrypster/lostpaws/internal/engine"
	"github.com/scrypster/lostpaws/internal/storage/sqlite"
	"github.com/scrypster/lostpaws/pkg/types"
	"github.com/scrypster/lostpaws/web/handlers"
)

type mockRecommender struct {
	mock.Mock
}

func (m *mockRecommender) RecommendSearchAreas(ctx context.Context, report *types.PetReport, sightings []types.Sighting) (*types.AnalysisResult, error) {
	args := m.Called(ctx, report, sightings)
	result, _ := args.Get(0).(*types.AnalysisResult)
	return result, args.Error(1)
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []interface{}
}

func (b *recordingBroadcaster) Broadcast(message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, message)
}

type testAPI struct {
	mux         *http.ServeMux
	store       *sqlite.ReportStore
	recommender *mockRecommender
	broadcaster *recordingBroadcaster
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store, err := sqlite.NewReportStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	api := &testAPI{
		mux:         http.NewServeMux(),
		store:       store,
		recommender: new(mockRecommender),
		broadcaster: &recordingBroadcaster{},
	}
	handlers.NewAPIHandlers(store, api.recommender, api.broadcaster, config.Defaults(), nil).RegisterRoutes(api.mux)
	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// minimalLostDog scores 70 + 5 (species) + 5 (location) = 80.
func minimalLostDog() map[string]interface{} {
	return map[string]interface{}{
		"owner_id": "owner-1",
		"species":  "Dog",
		"location": map[string]float64{"latitude": 40.7128, "longitude": -74.006},
	}
}

func (a *testAPI) createReport(t *testing.T, body map[string]interface{}) types.PetReport {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/reports", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[types.PetReport](t, w)
}

func TestCreateReport_LostScoresProbability(t *testing.T) {
	api := newTestAPI(t)

	report := api.createReport(t, minimalLostDog())

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, types.StatusLost, report.Status, "status defaults to lost")
	require.NotNil(t, report.SearchProbability)
	assert.Equal(t, 80, *report.SearchProbability)

	stored, err := api.store.GetReport(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, *stored.SearchProbability)
}

func TestCreateReport_IgnoresClientDerivedFields(t *testing.T) {
	api := newTestAPI(t)

	body := minimalLostDog()
	body["search_probability"] = 5
	body["behavior_prediction"] = "made up"

	report := api.createReport(t, body)
	assert.Equal(t, 80, *report.SearchProbability)
	assert.Empty(t, report.BehaviorPrediction)
}

func TestCreateReport_FoundHasMatchConfidence(t *testing.T) {
	api := newTestAPI(t)

	body := minimalLostDog()
	body["status"] = "found"
	w := api.do(t, http.MethodPost, "/api/reports", body)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode[map[string]interface{}](t, w)
	assert.EqualValues(t, 80, resp["match_confidence"])
	assert.NotContains(t, resp, "search_probability")
}

func TestCreateReport_Invalid(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"unknown species", func(b map[string]interface{}) { b["species"] = "Parrot" }},
		{"unknown trait", func(b map[string]interface{}) { b["behavioral_traits"] = []string{"sleepy"} }},
		{"missing owner", func(b map[string]interface{}) { delete(b, "owner_id") }},
		{"bad latitude", func(b map[string]interface{}) {
			b["location"] = map[string]float64{"latitude": 123, "longitude": 0}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := minimalLostDog()
			tt.mutate(body)
			w := api.do(t, http.MethodPost, "/api/reports", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reports", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	api.mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReport(t *testing.T) {
	api := newTestAPI(t)
	report := api.createReport(t, minimalLostDog())

	w := api.do(t, http.MethodGet, "/api/reports/"+report.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ID, decode[types.PetReport](t, w).ID)

	w = api.do(t, http.MethodGet, "/api/reports/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	errResp := decode[handlers.ErrorResponse](t, w)
	assert.Equal(t, "Not Found", errResp.Code)
}

func TestListReports(t *testing.T) {
	api := newTestAPI(t)

	for i := 0; i < 3; i++ {
		api.createReport(t, minimalLostDog())
	}
	cat := minimalLostDog()
	cat["species"] = "Cat"
	cat["status"] = "found"
	api.createReport(t, cat)

	type page struct {
		Items   []types.PetReport `json:"items"`
		Total   int               `json:"total"`
		HasMore bool              `json:"has_more"`
	}

	w := api.do(t, http.MethodGet, "/api/reports?status=lost&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[page](t, w)
	assert.Equal(t, 3, p.Total)
	assert.Len(t, p.Items, 2)
	assert.True(t, p.HasMore)

	w = api.do(t, http.MethodGet, "/api/reports?species=Cat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p = decode[page](t, w)
	require.Len(t, p.Items, 1)
	assert.Equal(t, types.StatusFound, p.Items[0].Status)

	w = api.do(t, http.MethodGet, "/api/reports?status=missing", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus(t *testing.T) {
	api := newTestAPI(t)
	report := api.createReport(t, minimalLostDog())
	path := "/api/reports/" + report.ID + "/status"

	w := api.do(t, http.MethodPatch, path, map[string]string{"owner_id": "stranger", "status": "found"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPatch, path, map[string]string{"owner_id": "owner-1", "status": "adopted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPatch, path, map[string]string{"status": "found"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPatch, path, map[string]string{"owner_id": "owner-1", "status": "resolved"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[types.PetReport](t, w)
	assert.Equal(t, types.StatusResolved, updated.Status)
	assert.Nil(t, updated.SearchProbability)

	w = api.do(t, http.MethodPatch, path, map[string]string{"owner_id": "owner-1", "status": "lost"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPatch, "/api/reports/missing/status", map[string]string{"owner_id": "owner-1", "status": "found"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func sightingBody(confidence string) map[string]interface{} {
	return map[string]interface{}{
		"location":    map[string]float64{"latitude": 40.713, "longitude": -74.0065},
		"description": "near the bakery",
		"confidence":  confidence,
		"reporter_id": "walker-1",
	}
}

func TestCreateSighting_RaisesProbability(t *testing.T) {
	api := newTestAPI(t)
	report := api.createReport(t, minimalLostDog())
	path := "/api/reports/" + report.ID + "/sightings"

	steps := []struct {
		confidence string
		want       int
	}{
		{"high", 85},
		{"medium", 87},
		{"low", 87},
		{"high", 92},
		{"high", 95},
		{"high", 95},
	}

	for i, step := range steps {
		w := api.do(t, http.MethodPost, path, sightingBody(step.confidence))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decode[handlers.SightingResponse](t, w)
		require.NotNil(t, resp.SearchProbability, "step %d", i)
		assert.Equal(t, step.want, *resp.SearchProbability, "step %d (%s)", i, step.confidence)
		assert.NotEmpty(t, resp.Sighting.ID)
	}

	stored, err := api.store.GetReport(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, 95, *stored.SearchProbability)
}

func TestCreateSighting_FoundReportKeepsNoProbability(t *testing.T) {
	api := newTestAPI(t)
	body := minimalLostDog()
	body["status"] = "found"
	report := api.createReport(t, body)

	w := api.do(t, http.MethodPost, "/api/reports/"+report.ID+"/sightings", sightingBody("high"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, decode[handlers.SightingResponse](t, w).SearchProbability)
}

func TestCreateSighting_Errors(t *testing.T) {
	api := newTestAPI(t)
	report := api.createReport(t, minimalLostDog())

	w := api.do(t, http.MethodPost, "/api/reports/missing/sightings", sightingBody("high"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	noLocation := sightingBody("high")
	delete(noLocation, "location")
	w = api.do(t, http.MethodPost, "/api/reports/"+report.ID+"/sightings", noLocation)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/reports/"+report.ID+"/sightings", sightingBody("certain"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSightings(t *testing.T) {
	api := newTestAPI(t)
	report := api.createReport(t, minimalLostDog())
	path := "/api/reports/" + report.ID + "/sightings"

	for _, c := range []string{"low", "medium", "high"} {
		require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, path, sightingBody(c)).Code)
	}

	w := api.do(t, http.MethodGet, path+"?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[handlers.SightingsResponse](t, w)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Sightings, 2)

	w = api.do(t, http.MethodGet, path, nil)
	assert.Equal(t, 3, decode[handlers.SightingsResponse](t, w).Total)

	w = api.do(t, http.MethodGet, "/api/reports/missing/sightings", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func recommendation() *types.AnalysisResult {
	return &types.AnalysisResult{
		BehaviorPrediction: "Likely hiding close by.",
		SearchTips:         []string{"Check porches"},
		SearchAreas: []types.SearchArea{
			{ID: "area1", Center: types.Coordinate{Latitude: 40.7128, Longitude: -74.006}, Radius: 500, Probability: 90, Color: types.ColorRed},
			{ID: "area2", Center: types.Coordinate{Latitude: 40.72, Longitude: -74.006}, Radius: 1200, Probability: 60, Color: types.ColorAmber},
			{ID: "area3", Center: types.Coordinate{Latitude: 40.7128, Longitude: -74.01}, Radius: 2000, Probability: 40, Color: types.ColorBlue},
		},
		Source: types.SourceAI,
		Model:  "gpt-4o-mini",
	}
}

func TestRecommendSearchAreas(t *testing.T) {
	api := newTestAPI(t)
	report := api.createReport(t, minimalLostDog())

	for i := 0; i < 7; i++ {
		require.Equal(t, http.StatusCreated,
			api.do(t, http.MethodPost, "/api/reports/"+report.ID+"/sightings", sightingBody("low")).Code)
	}

	api.recommender.On("RecommendSearchAreas", mock.Anything,
		mock.MatchedBy(func(r *types.PetReport) bool { return r.ID == report.ID }),
		mock.MatchedBy(func(s []types.Sighting) bool { return len(s) == 5 }),
	).Return(recommendation(), nil).Once()

	w := api.do(t, http.MethodPost, "/api/reports/"+report.ID+"/search-areas", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	api.recommender.AssertExpectations(t)

	resp := decode[handlers.SearchAreasResponse](t, w)
	assert.Equal(t, report.ID, resp.ReportID)
	assert.Equal(t, types.SourceAI, resp.Source)
	require.Len(t, resp.SearchAreas, 3)
	assert.Equal(t, "0.5", resp.SearchAreas[0].RadiusLabel)
	assert.Equal(t, "1.2", resp.SearchAreas[1].RadiusLabel)
	assert.Equal(t, "#EF4444", resp.SearchAreas[0].ColorHex)

	stored, err := api.store.GetReport(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, "Likely hiding close by.", stored.BehaviorPrediction)
	assert.Equal(t, []string{"Check porches"}, stored.SearchTips)
	assert.Equal(t, 80, *stored.SearchProbability, "probability untouched by recommendation")

	require.Len(t, api.broadcaster.messages, 1)
	event, ok := api.broadcaster.messages[0].(handlers.SearchAreasEvent)
	require.True(t, ok)
	assert.Equal(t, handlers.EventSearchAreasUpdated, event.Type)
	assert.Equal(t, report.ID, event.ReportID)
}

func TestRecommendSearchAreas_KeepsConcurrentSightingRaise(t *testing.T) {
	api := newTestAPI(t)
	report := api.createReport(t, minimalLostDog())
	sightingsPath := "/api/reports/" + report.ID + "/sightings"

	api.recommender.On("RecommendSearchAreas", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			w := api.do(t, http.MethodPost, sightingsPath, sightingBody("high"))
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			assert.Equal(t, 85, *decode[handlers.SightingResponse](t, w).SearchProbability)
		}).
		Return(recommendation(), nil).Once()

	w := api.do(t, http.MethodPost, "/api/reports/"+report.ID+"/search-areas", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := api.store.GetReport(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, 85, *stored.SearchProbability, "raise made during the recommendation is kept")
	assert.Equal(t, "Likely hiding close by.", stored.BehaviorPrediction)

	w = api.do(t, http.MethodPost, sightingsPath, sightingBody("medium"))
	require.Equal(t, http.StatusCreated, w.Code)

	stored, err = api.store.GetReport(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, 87, *stored.SearchProbability)
	assert.Equal(t, "Likely hiding close by.", stored.BehaviorPrediction, "a sighting keeps the stored analysis")
	assert.Equal(t, []string{"Check porches"}, stored.SearchTips)
}

func TestRecommendSearchAreas_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing location", engine.ErrMissingLocation, http.StatusUnprocessableEntity},
		{"rate limited", fmt.Errorf("openai: %w", engine.ErrRateLimited), http.StatusTooManyRequests},
		{"unexpected", context.Canceled, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			report := api.createReport(t, minimalLostDog())
			api.recommender.On("RecommendSearchAreas", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			w := api.do(t, http.MethodPost, "/api/reports/"+report.ID+"/search-areas", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusTooManyRequests {
				assert.NotEmpty(t, w.Header().Get("Retry-After"))
			}
			assert.Empty(t, api.broadcaster.messages)
		})
	}

	api := newTestAPI(t)
	w := api.do(t, http.MethodPost, "/api/reports/missing/search-areas", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	api.recommender.AssertNotCalled(t, "RecommendSearchAreas", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecommendSearchAreas_WithFallbackEngine(t *testing.T) {
	store, err := sqlite.NewReportStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	eng := engine.NewRecommendationEngine(nil, nil, engine.RecommendationEngineConfig{}, nil)
	mux := http.NewServeMux()
	handlers.NewAPIHandlers(store, eng, nil, config.Defaults(), nil).RegisterRoutes(mux)
	api := &testAPI{mux: mux, store: store}

	body := minimalLostDog()
	body["behavioral_traits"] = []string{"scared"}
	report := api.createReport(t, body)

	w := api.do(t, http.MethodPost, "/api/reports/"+report.ID+"/search-areas", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[handlers.SearchAreasResponse](t, w)
	assert.Equal(t, types.SourceFallback, resp.Source)
	assert.NotEmpty(t, resp.FallbackReason)
	assert.GreaterOrEqual(t, len(resp.SearchAreas), 3)
	assert.Equal(t, types.ColorRed, resp.SearchAreas[0].Color)

	noLocation := minimalLostDog()
	delete(noLocation, "location")
	report = api.createReport(t, noLocation)
	w = api.do(t, http.MethodPost, "/api/reports/"+report.ID+"/search-areas", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetWeather(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/weather/rain", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[handlers.WeatherResponse](t, w)
	assert.Equal(t, types.WeatherRain, resp.Condition)
	assert.Equal(t, "Rain", resp.Name)
	assert.True(t, resp.Shelter)

	w = api.do(t, http.MethodGet, "/api/weather/heat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[handlers.WeatherResponse](t, w).Shelter)

	w = api.do(t, http.MethodGet, "/api/weather/fog", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
