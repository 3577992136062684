package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/scrypster/lostpaws/pkg/types"
)

// DefaultSightingWindow is the number of most recent sightings considered.
const DefaultSightingWindow = 5

// FilterSightings drops records that cannot be used for area generation or
// prompting. Each dropped record yields an error wrapping ErrInvalidSighting.
// Relative order of the kept sightings is preserved.
func FilterSightings(sightings []types.Sighting) ([]types.Sighting, []error) {
	valid := make([]types.Sighting, 0, len(sightings))
	var skipped []error
	for i := range sightings {
		if err := sightings[i].Validate(); err != nil {
			skipped = append(skipped, fmt.Errorf("%w: sighting %q: %v", ErrInvalidSighting, sightings[i].ID, err))
			continue
		}
		valid = append(valid, sightings[i])
	}
	return valid, skipped
}

// RecentSightings orders sightings newest first and keeps at most limit.
// The input slice is not modified.
func RecentSightings(sightings []types.Sighting, limit int) []types.Sighting {
	recent := slices.Clone(sightings)
	slices.SortStableFunc(recent, func(a, b types.Sighting) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// TopSightingsByConfidence returns up to n sightings ordered by confidence,
// high first. Ties keep their original relative order.
func TopSightingsByConfidence(sightings []types.Sighting, n int) []types.Sighting {
	ranked := slices.Clone(sightings)
	slices.SortStableFunc(ranked, func(a, b types.Sighting) int {
		return cmp.Compare(b.Confidence.Rank(), a.Confidence.Rank())
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
