package engine

import (
	"github.com/scrypster/lostpaws/internal/geo"
	"github.com/scrypster/lostpaws/internal/rules"
	"github.com/scrypster/lostpaws/pkg/types"
)

// maxSightingAreas is the number of sighting-centered areas appended.
const maxSightingAreas = 2

// areaSpec is one fixed fallback area: an offset from the last-known
// location, a radius per species, and a probability derived from the
// report's stored probability.
type areaSpec struct {
	dLat, dLng           float64
	dogRadius, catRadius float64
	probability          func(base int) int
	text                 rules.AreaText
}

// FallbackGenerator deterministically synthesizes ranked search areas from
// a report and its recent sightings. It holds no state: the same inputs
// always produce the same output.
type FallbackGenerator struct {
	scorer *ProbabilityScorer
}

// NewFallbackGenerator creates a fallback generator. The scorer supplies a
// base probability for reports that have none stored; nil uses the default.
func NewFallbackGenerator(scorer *ProbabilityScorer) *FallbackGenerator {
	if scorer == nil {
		scorer = NewProbabilityScorer()
	}
	return &FallbackGenerator{scorer: scorer}
}

// Generate builds the fallback AnalysisResult.
//
// Areas are appended in a fixed order: primary, secondary, tertiary, then
// the scared, urban and weather-shelter areas when they apply, then up to
// two sighting-centered areas. Color and id follow that order. Invalid
// sightings are skipped.
func (g *FallbackGenerator) Generate(report *types.PetReport, sightings []types.Sighting) (*types.AnalysisResult, error) {
	if report == nil || report.Location == nil {
		return nil, ErrMissingLocation
	}

	base, ok := report.StoredProbability()
	if !ok {
		base = g.scorer.Score(report)
	}

	specs := []areaSpec{
		{
			dogRadius:   800,
			catRadius:   400,
			probability: func(p int) int { return min(95, p+10) },
			text:        rules.PrimaryArea(report.Species),
		},
		{
			dLat:        0.003,
			dLng:        0.002,
			dogRadius:   600,
			catRadius:   300,
			probability: func(p int) int { return max(60, p-20) },
			text:        rules.SecondaryArea(),
		},
		{
			dLat:        -0.002,
			dLng:        -0.003,
			dogRadius:   500,
			catRadius:   250,
			probability: func(p int) int { return max(50, p-30) },
			text:        rules.TertiaryArea(),
		},
	}
	if report.HasTrait(types.TraitScared) {
		specs = append(specs, areaSpec{
			dLat:        -0.001,
			dLng:        0.001,
			dogRadius:   200,
			catRadius:   200,
			probability: func(p int) int { return max(70, p-15) },
			text:        rules.ScaredArea(),
		})
	}
	if report.HasEnvironment(types.EnvUrban) {
		specs = append(specs, areaSpec{
			dLat:        0.0015,
			dLng:        -0.0015,
			dogRadius:   350,
			catRadius:   350,
			probability: func(p int) int { return max(65, p-20) },
			text:        rules.UrbanArea(),
		})
	}
	if rules.IsShelterWeather(report.WeatherCondition) {
		specs = append(specs, areaSpec{
			dLat:        -0.0005,
			dLng:        -0.0005,
			dogRadius:   150,
			catRadius:   150,
			probability: func(p int) int { return max(75, p-10) },
			text:        rules.WeatherShelterArea(report.WeatherCondition),
		})
	}

	isDog := report.Species == types.SpeciesDog
	areas := make([]types.SearchArea, 0, len(specs)+maxSightingAreas)
	for _, spec := range specs {
		radius := spec.catRadius
		if isDog {
			radius = spec.dogRadius
		}
		areas = append(areas, types.SearchArea{
			Center:      geo.ApplyOffset(*report.Location, spec.dLat, spec.dLng),
			Radius:      radius,
			Probability: clamp(spec.probability(base), 0, maxProbability),
			Description: spec.text.Description,
			Tip:         spec.text.Tip,
		})
	}

	valid, _ := FilterSightings(sightings)
	for _, s := range TopSightingsByConfidence(valid, maxSightingAreas) {
		radius := 200.0
		if isDog {
			radius = 400
		}
		text := rules.SightingArea(s.Confidence)
		areas = append(areas, types.SearchArea{
			Center:      *s.Location,
			Radius:      radius,
			Probability: sightingProbability(s.Confidence),
			Description: text.Description,
			Tip:         text.Tip,
		})
	}

	assignPositions(areas)

	return &types.AnalysisResult{
		BehaviorPrediction: rules.PredictBehavior(report),
		SearchTips:         rules.DefaultSearchTips(),
		SearchAreas:        areas,
		Source:             types.SourceFallback,
	}, nil
}

// sightingProbability is keyed off the sighting's own tier, not the report.
func sightingProbability(c types.Confidence) int {
	switch c {
	case types.ConfidenceHigh:
		return 85
	case types.ConfidenceMedium:
		return 70
	}
	return 55
}

// assignPositions sets ids and colors strictly by slice position.
func assignPositions(areas []types.SearchArea) {
	for i := range areas {
		areas[i].ID = types.AreaID(i)
		areas[i].Color = types.ColorForIndex(i)
	}
}
