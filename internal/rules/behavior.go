package rules

import (
	"strings"

	"github.com/scrypster/lostpaws/pkg/types"
)

const (
	dogScaredPrediction = "Scared dogs often run in a straight line away from whatever frightened them and can " +
		"travel a mile or more before hiding. They tend to avoid people, even familiar ones, and move mostly at night."
	dogFriendlyPrediction = "Friendly dogs usually approach people and may already have been taken in by someone " +
		"nearby. They tend to stay close to homes, parks and other places with people."
	catScaredPrediction = "Scared cats usually hide in silence within a three to five house radius of where they " +
		"escaped. They look for tight, dark spaces and may not come out even when called."
	catFriendlyPrediction = "Friendly cats may wander farther and approach houses looking for food. They are " +
		"often found in garages, sheds or being fed by neighbors."
	genericPrediction = "Most lost pets stay within a mile of where they were last seen. They move along paths " +
		"of least resistance while looking for food, water and shelter."

	urbanClause = "In urban areas, pets often hide under parked cars, in alleys and behind buildings."
	ruralClause = "In rural areas, pets may travel farther along fence lines, tree lines and creeks."

	rainClause    = "Rain pushes pets into nearby shelter such as porches, decks and overhangs."
	thunderClause = "Thunder may cause panic, so the pet may have run farther than usual before hiding."
)

// PredictBehavior returns the free-text movement prediction for a report.
//
// The base sentence is keyed by species and the presence of the "scared"
// and "friendly" traits (scared takes precedence). An environment clause
// is appended when the report is urban or rural, then a weather clause
// when the weather is rain or thunder. Parts are joined by single spaces.
func PredictBehavior(r *types.PetReport) string {
	parts := []string{basePrediction(r)}

	switch {
	case r.HasEnvironment(types.EnvUrban):
		parts = append(parts, urbanClause)
	case r.HasEnvironment(types.EnvRural):
		parts = append(parts, ruralClause)
	}

	switch r.WeatherCondition {
	case types.WeatherRain:
		parts = append(parts, rainClause)
	case types.WeatherThunder:
		parts = append(parts, thunderClause)
	}

	return strings.Join(parts, " ")
}

func basePrediction(r *types.PetReport) string {
	scared := r.HasTrait(types.TraitScared)
	friendly := r.HasTrait(types.TraitFriendly)

	switch r.Species {
	case types.SpeciesDog:
		if scared {
			return dogScaredPrediction
		}
		if friendly {
			return dogFriendlyPrediction
		}
	case types.SpeciesCat:
		if scared {
			return catScaredPrediction
		}
		if friendly {
			return catFriendlyPrediction
		}
	}
	return genericPrediction
}
