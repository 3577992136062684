package rules

import "github.com/scrypster/lostpaws/pkg/types"

// GeneralSearchTips are shown when no model-generated tips are available.
var GeneralSearchTips = []string{
	"Focus on the red areas first - they have the highest probability",
	"Search at dawn and dusk when pets are most active",
	"Bring items with familiar scents like bedding or toys",
	"Form a search party to cover more ground efficiently",
}

// DefaultSearchTips returns a fresh copy of GeneralSearchTips.
func DefaultSearchTips() []string {
	return append([]string(nil), GeneralSearchTips...)
}

// AreaText is the human-readable description and tip of one generated area.
type AreaText struct {
	Description string
	Tip         string
}

// PrimaryArea text varies by species: scent trails for dogs, hiding spots for cats.
func PrimaryArea(species types.Species) AreaText {
	tip := "Walk the streets and paths around the last-seen spot; dogs follow scent trails, so check " +
		"routes to places the dog knows and call its name calmly."
	if species != types.SpeciesDog {
		tip = "Check every hiding spot within a few houses: under decks and porches, inside sheds, " +
			"garages and dense bushes. Use a flashlight and look for eye shine."
	}
	return AreaText{Description: "Primary search area with highest probability", Tip: tip}
}

// SecondaryArea text points at food and water sources.
func SecondaryArea() AreaText {
	return AreaText{
		Description: "Secondary area around nearby food and water sources",
		Tip:         "Check food and water sources: restaurant bins, ponds, creeks, and outdoor pet bowls.",
	}
}

// TertiaryArea text points at sheltered hiding spots.
func TertiaryArea() AreaText {
	return AreaText{
		Description: "Extended area with sheltered hiding spots",
		Tip:         "Look in sheltered spots: crawl spaces, garages, thick hedges, and under parked vehicles.",
	}
}

// ScaredArea text is used when the pet is reported as scared.
func ScaredArea() AreaText {
	return AreaText{
		Description: "Close-range hiding zone for a frightened pet",
		Tip:         "Search quietly and avoid chasing; scared pets may not answer to their name. Consider a humane trap or camera.",
	}
}

// UrbanArea text is used in urban environments.
func UrbanArea() AreaText {
	return AreaText{
		Description: "Urban shelter zone",
		Tip:         "Check alleys, parking garages, under parked cars and behind commercial buildings.",
	}
}

// WeatherShelterArea text is used when rain or thunder drives the pet into cover.
func WeatherShelterArea(w types.WeatherCondition) AreaText {
	return AreaText{
		Description: "Nearby weather shelter zone (" + WeatherEffectFor(w).Name + ")",
		Tip:         "Check covered spots closest to the last-seen location: porches, carports, and building overhangs.",
	}
}

// SightingArea text is used for areas centered on a reported sighting.
func SightingArea(c types.Confidence) AreaText {
	return AreaText{
		Description: "Reported sighting (" + string(c) + " confidence)",
		Tip:         "Search around the sighting and ask people nearby; leave familiar-scent items at the spot.",
	}
}
