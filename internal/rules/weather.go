// Package rules holds the static behavioral knowledge base: how weather
// affects pet movement, the movement prediction for a report, and the
// search-tip strings attached to generated areas.
package rules

import "github.com/scrypster/lostpaws/pkg/types"

// WeatherEffect describes how a weather condition affects pet movement and
// how to adapt the search to it.
type WeatherEffect struct {
	Name       string `json:"name"`
	Affects    string `json:"affects"`
	SearchTips string `json:"search_tips"`
}

var weatherTable = map[types.WeatherCondition]WeatherEffect{
	types.WeatherRain: {
		Name: "Rain",
		Affects: "Rain washes away scent trails and drives pets to seek cover. Most pets stop travelling " +
			"and hole up under porches, decks, cars and dense shrubs until the rain passes.",
		SearchTips: "Search covered and sheltered spots close to the last-seen location first. " +
			"Once the rain stops, pets often come out to look for food, so search again right after.",
	},
	types.WeatherWind: {
		Name: "Wind",
		Affects: "Strong wind carries scent unpredictably and the noise can unsettle pets, making them " +
			"more skittish and likely to hide on the sheltered side of buildings.",
		SearchTips: "Focus on the leeward side of houses, fences and hedges. Walk with the wind at your " +
			"back so your scent carries ahead of you toward the pet.",
	},
	types.WeatherThunder: {
		Name: "Thunderstorm",
		Affects: "Thunder and lightning can trigger panic. Frightened pets may bolt much farther than usual " +
			"before squeezing into the tightest hiding place they can find.",
		SearchTips: "Widen the search radius and check small, enclosed spaces: crawl spaces, sheds, " +
			"culverts and under vehicles. Search again once the storm has passed and things are quiet.",
	},
	types.WeatherHeat: {
		Name: "Heat",
		Affects: "Hot weather makes pets conserve energy. They rest in shade during the day and move " +
			"mostly in the cooler hours, staying close to water.",
		SearchTips: "Check shaded areas and water sources such as ponds, creeks, sprinklers and " +
			"outdoor bowls. Search at dawn and dusk when pets are most active.",
	},
	types.WeatherClear: {
		Name: "Clear",
		Affects: "Clear weather does not restrict movement. Pets may travel along natural paths such " +
			"as sidewalks, trails and fence lines while looking for food and shelter.",
		SearchTips: "Cover the primary area systematically and talk to neighbors, walkers and delivery " +
			"drivers who were out at the time. Put up posters at eye level along likely routes.",
	},
}

// WeatherEffectFor returns the table entry for w. Unknown or empty weather
// falls back to the clear-weather entry.
func WeatherEffectFor(w types.WeatherCondition) WeatherEffect {
	if effect, ok := weatherTable[w]; ok {
		return effect
	}
	return weatherTable[types.WeatherClear]
}

// IsShelterWeather reports whether w drives pets into nearby cover.
func IsShelterWeather(w types.WeatherCondition) bool {
	return w == types.WeatherRain || w == types.WeatherThunder
}
