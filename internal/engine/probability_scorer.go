package engine

import (
	"strings"

	"github.com/scrypster/lostpaws/pkg/types"
)

// Submission-time scoring weights.
const (
	baseProbability = 70
	maxProbability  = 100

	speciesBonus    = 5
	breedBonus      = 3
	colorBonus      = 3
	locationBonus   = 5
	lastSeenBonus   = 3
	perImageBonus   = 5
	perTraitBonus   = 3
	perFactorBonus  = 2
	weatherBonus    = 4
	perFeatureBonus = 3
)

// Sighting-adjustment weights.
const (
	highSightingBonus   = 5
	mediumSightingBonus = 2

	// maxSightingAdjustedProbability caps the post-sighting adjustment.
	maxSightingAdjustedProbability = 95
)

// ProbabilityScorer computes the 0-100 search probability of a report.
//
// Two separate operations are kept on purpose: Score is the weighted sum
// used when a report is submitted, AdjustForSightings is the additive bump
// applied when new sightings arrive. They are not reconciled with each other.
type ProbabilityScorer struct{}

// NewProbabilityScorer creates a new probability scorer.
func NewProbabilityScorer() *ProbabilityScorer {
	return &ProbabilityScorer{}
}

// Score computes the submission-time search probability.
// Base 70 plus independent bonuses per filled field, clamped to 100.
func (s *ProbabilityScorer) Score(r *types.PetReport) int {
	score := baseProbability

	if r.Species != "" {
		score += speciesBonus
	}
	if strings.TrimSpace(r.Breed) != "" {
		score += breedBonus
	}
	if strings.TrimSpace(r.Color) != "" {
		score += colorBonus
	}
	if r.Location != nil {
		score += locationBonus
	}
	if strings.TrimSpace(r.LastSeenAt) != "" {
		score += lastSeenBonus
	}
	score += perImageBonus * len(r.ImageURLs)
	score += perTraitBonus * len(r.BehavioralTraits)
	score += perFactorBonus * len(r.EnvironmentalFactors)
	if r.WeatherCondition != "" {
		score += weatherBonus
	}
	score += perFeatureBonus * len(r.DistinctiveFeatures)

	return clamp(score, 0, maxProbability)
}

// MatchConfidence scores a found report the same way a lost one is scored
// at submission. Used to rank candidate matches.
func (s *ProbabilityScorer) MatchConfidence(r *types.PetReport) int {
	return s.Score(r)
}

// AdjustForSightings raises current by +5 per high and +2 per medium
// confidence sighting, capped at 95. The result is never below current: a
// stored value already above the cap is returned unchanged.
func (s *ProbabilityScorer) AdjustForSightings(current, high, medium int) int {
	if high < 0 {
		high = 0
	}
	if medium < 0 {
		medium = 0
	}
	adjusted := current + highSightingBonus*high + mediumSightingBonus*medium
	if adjusted > maxSightingAdjustedProbability {
		adjusted = maxSightingAdjustedProbability
	}
	if adjusted < current {
		return current
	}
	return adjusted
}

// CountByConfidence tallies valid sightings per confidence tier.
func CountByConfidence(sightings []types.Sighting) (high, medium, low int) {
	for _, s := range sightings {
		switch s.Confidence {
		case types.ConfidenceHigh:
			high++
		case types.ConfidenceMedium:
			medium++
		case types.ConfidenceLow:
			low++
		}
	}
	return high, medium, low
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
