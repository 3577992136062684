package llm

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scrypster/lostpaws/pkg/types"
)

func TestBuildSearchAreaPrompt_IncludesReportFields(t *testing.T) {
	prompt := BuildSearchAreaPrompt(testReport(), nil)

	for _, want := range []string{
		"Species: Dog",
		"Breed: Beagle",
		"Color: tricolor",
		"Age: unknown",
		"Behavioral traits: scared",
		"Environmental factors: none",
		"Weather: rain",
		"Location: 10.000000, 20.000000",
		"Time: 2024-05-01T10:00:00Z",
		"RECENT SIGHTINGS:\nnone",
		"latitudeOffset",
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestBuildSearchAreaPrompt_SightingsLimitedAndDescribed(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var sightings []types.Sighting
	for i := range 7 {
		sightings = append(sightings, types.Sighting{
			ID:          fmt.Sprintf("s%d", i),
			Location:    &types.Coordinate{Latitude: 10.01, Longitude: 20},
			Confidence:  types.ConfidenceMedium,
			Description: fmt.Sprintf("seen near landmark %d", i),
			CreatedAt:   base,
		})
	}
	sightings[1].Location = nil

	prompt := BuildSearchAreaPrompt(testReport(), sightings)

	assert.Contains(t, prompt, "seen near landmark 0")
	assert.NotContains(t, prompt, "seen near landmark 1", "invalid sighting must be skipped")
	assert.Contains(t, prompt, "seen near landmark 5")
	assert.NotContains(t, prompt, "seen near landmark 6")
	assert.Equal(t, MaxPromptSightings, strings.Count(prompt, "confidence medium"))
	assert.Contains(t, prompt, "2024-05-01T12:00:00Z")
	// 0.01 degrees of latitude is roughly 1112m.
	assert.Contains(t, prompt, "1112m from last-known location")
}
