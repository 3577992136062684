package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/scrypster/lostpaws/pkg/types"
)

const validAreasJSON = `{
  "behaviorPrediction": "Scared dogs usually hide close to where they were last seen.",
  "searchTips": ["Search at dawn", "  ", "Leave a worn shirt outside"],
  "searchAreas": [
    {"center": {"latitudeOffset": 0, "longitudeOffset": 0}, "radius": 400, "probability": 90, "description": "Last seen", "tips": "Call softly"},
    {"center": {"latitudeOffset": 0.002, "longitudeOffset": -0.001}, "probability": 70, "description": "Park", "tips": ["Check bushes", "Bring treats"]},
    {"center": {"latitudeOffset": -0.003, "longitudeOffset": 0.001}, "radius": 250, "description": "Creek", "tips": "Look under the bridge"}
  ]
}`

func testReport() *types.PetReport {
	return &types.PetReport{
		ID:               "report-1",
		Species:          types.SpeciesDog,
		Breed:            "Beagle",
		Color:            "tricolor",
		Status:           types.StatusLost,
		Location:         &types.Coordinate{Latitude: 10, Longitude: 20},
		LastSeenAt:       "2024-05-01T10:00:00Z",
		BehavioralTraits: []string{types.TraitScared},
		WeatherCondition: types.WeatherRain,
	}
}

// newOpenAIServer serves chat completions with the given status and, on
// 200, a single choice carrying content. It counts requests.
func newOpenAIServer(t *testing.T, status int, content string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{
					"message": http.StatusText(status),
					"type":    "requests",
					"code":    "test_error",
				},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		})
	}))
	t.Cleanup(server.Close)
	return server, &calls
}
