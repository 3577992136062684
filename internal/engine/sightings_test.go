package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scrypster/lostpaws/pkg/types"
)

func sightingAt(id string, c types.Confidence, at time.Time) types.Sighting {
	return types.Sighting{
		ID:         id,
		Location:   &types.Coordinate{Latitude: 1, Longitude: 1},
		Confidence: c,
		CreatedAt:  at,
	}
}

func ids(sightings []types.Sighting) []string {
	out := make([]string, len(sightings))
	for i, s := range sightings {
		out[i] = s.ID
	}
	return out
}

func TestTopSightingsByConfidence_StableTies(t *testing.T) {
	now := time.Now()
	sightings := []types.Sighting{
		sightingAt("a", types.ConfidenceLow, now),
		sightingAt("b", types.ConfidenceHigh, now),
		sightingAt("c", types.ConfidenceMedium, now),
		sightingAt("d", types.ConfidenceHigh, now),
	}

	assert.Equal(t, []string{"b", "d"}, ids(TopSightingsByConfidence(sightings, 2)))
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(TopSightingsByConfidence(sightings, 10)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(sightings), "input must not be reordered")
}

func TestRecentSightings_NewestFirstAndLimited(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var sightings []types.Sighting
	for i := range 7 {
		sightings = append(sightings, sightingAt(string(rune('a'+i)), types.ConfidenceLow, base.Add(time.Duration(i)*time.Hour)))
	}

	recent := RecentSightings(sightings, DefaultSightingWindow)
	assert.Equal(t, []string{"g", "f", "e", "d", "c"}, ids(recent))
}

func TestRecentSightings_NoLimit(t *testing.T) {
	now := time.Now()
	sightings := []types.Sighting{sightingAt("a", types.ConfidenceLow, now)}
	assert.Len(t, RecentSightings(sightings, 0), 1)
	assert.Empty(t, RecentSightings(nil, 5))
}

func TestFilterSightings(t *testing.T) {
	now := time.Now()
	sightings := []types.Sighting{
		sightingAt("ok", types.ConfidenceHigh, now),
		{ID: "no-location", Confidence: types.ConfidenceHigh},
		sightingAt("bad-tier", "certain", now),
	}

	valid, skipped := FilterSightings(sightings)
	assert.Equal(t, []string{"ok"}, ids(valid))
	assert.Len(t, skipped, 2)
	for _, err := range skipped {
		assert.ErrorIs(t, err, ErrInvalidSighting)
	}
}
