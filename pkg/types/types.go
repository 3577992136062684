// Package types defines the core data structures for the lostpaws search
// system: pet reports, third-party sightings, and the ranked search areas
// produced for a lost-pet search.
package types

// Species is the animal family of a reported pet.
type Species string

// Size is the coarse body size of a reported pet.
type Size string

// Gender of a reported pet.
type Gender string

// ReportStatus is the lifecycle state of a PetReport.
type ReportStatus string

// Confidence is the self-reported certainty of a sighting.
// Confidence is ordinal: high > medium > low.
type Confidence string

// WeatherCondition is the weather tag attached to a report.
type WeatherCondition string

// Species constants
const (
	SpeciesDog Species = "Dog"
	SpeciesCat Species = "Cat"
)

// Size constants
const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

// Gender constants
const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Report status constants
const (
	// StatusLost indicates the owner is still searching.
	StatusLost ReportStatus = "lost"

	// StatusFound indicates a finder reported the pet.
	StatusFound ReportStatus = "found"

	// StatusResolved indicates the pet is home. Terminal.
	StatusResolved ReportStatus = "resolved"
)

// Sighting confidence constants
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Weather condition constants
const (
	WeatherClear   WeatherCondition = "clear"
	WeatherRain    WeatherCondition = "rain"
	WeatherWind    WeatherCondition = "wind"
	WeatherThunder WeatherCondition = "thunder"
	WeatherSnow    WeatherCondition = "snow"
	WeatherHeat    WeatherCondition = "heat"
)

// Behavioral trait tags
const (
	TraitScared     = "scared"
	TraitFriendly   = "friendly"
	TraitAggressive = "aggressive"
	TraitConfused   = "confused"
	TraitCurious    = "curious"
	TraitShy        = "shy"
	TraitInjured    = "injured"
)

// Environmental factor tags
const (
	EnvUrban   = "urban"
	EnvRural   = "rural"
	EnvWater   = "water"
	EnvTraffic = "traffic"
	EnvNoise   = "noise"
)

// ValidBehavioralTraits is the fixed behavioral-trait vocabulary.
var ValidBehavioralTraits = []string{
	TraitScared,
	TraitFriendly,
	TraitAggressive,
	TraitConfused,
	TraitCurious,
	TraitShy,
	TraitInjured,
}

// ValidEnvironmentalFactors is the fixed environmental-factor vocabulary.
var ValidEnvironmentalFactors = []string{
	EnvUrban,
	EnvRural,
	EnvWater,
	EnvTraffic,
	EnvNoise,
}

// ValidWeatherConditions lists every accepted weather tag.
var ValidWeatherConditions = []WeatherCondition{
	WeatherClear,
	WeatherRain,
	WeatherWind,
	WeatherThunder,
	WeatherSnow,
	WeatherHeat,
}

// IsValidSpecies reports whether s is a first-class species.
func IsValidSpecies(s Species) bool {
	return s == SpeciesDog || s == SpeciesCat
}

// IsValidSize checks a size. Empty is valid (not set).
func IsValidSize(s Size) bool {
	switch s {
	case "", SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// IsValidGender checks a gender. Empty is valid (not set).
func IsValidGender(g Gender) bool {
	switch g {
	case "", GenderMale, GenderFemale:
		return true
	}
	return false
}

// IsValidReportStatus checks whether status is a known lifecycle state.
func IsValidReportStatus(status ReportStatus) bool {
	switch status {
	case StatusLost, StatusFound, StatusResolved:
		return true
	}
	return false
}

// IsValidConfidence checks whether c is one of the three confidence tiers.
func IsValidConfidence(c Confidence) bool {
	return c.Rank() > 0
}

// Rank returns the ordinal of the tier: high=3, medium=2, low=1, unknown=0.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// IsValidWeatherCondition checks a weather tag. Empty is valid (not set).
func IsValidWeatherCondition(w WeatherCondition) bool {
	if w == "" {
		return true
	}
	for _, valid := range ValidWeatherConditions {
		if w == valid {
			return true
		}
	}
	return false
}

// IsValidBehavioralTrait checks a trait tag against the vocabulary.
func IsValidBehavioralTrait(trait string) bool {
	return contains(ValidBehavioralTraits, trait)
}

// IsValidEnvironmentalFactor checks a factor tag against the vocabulary.
func IsValidEnvironmentalFactor(factor string) bool {
	return contains(ValidEnvironmentalFactors, factor)
}

// IsValidStatusTransition validates owner-driven status changes.
//
// Valid transitions:
//
//	lost -> found | resolved
//	found -> lost | resolved
//	resolved -> (terminal)
func IsValidStatusTransition(current, next ReportStatus) bool {
	if !IsValidReportStatus(next) || current == next {
		return false
	}
	switch current {
	case StatusLost:
		return next == StatusFound || next == StatusResolved
	case StatusFound:
		return next == StatusLost || next == StatusResolved
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
