package types

import (
	"errors"
	"fmt"
	"time"
)

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PetReport is one lost or found pet incident.
//
// SearchProbability, BehaviorPrediction and SearchTips are derived fields:
// they are computed by the engine and never user-entered.
type PetReport struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	// Taxonomy
	Species Species `json:"species"`
	Breed   string  `json:"breed,omitempty"`
	Size    Size    `json:"size,omitempty"`
	Color   string  `json:"color,omitempty"`
	Name    string  `json:"name,omitempty"`
	Gender  Gender  `json:"gender,omitempty"`
	Age     string  `json:"age,omitempty"`

	Status ReportStatus `json:"status"`

	// Location is the last-known coordinate. Required before search areas
	// can be recommended.
	Location *Coordinate `json:"location,omitempty"`

	// LastSeenAt is the free-text or RFC3339 last-seen/found date-time.
	LastSeenAt string `json:"last_seen_at,omitempty"`

	ImageURLs []string `json:"image_urls,omitempty"`

	// Behavioral signals
	BehavioralTraits     []string         `json:"behavioral_traits,omitempty"`
	EnvironmentalFactors []string         `json:"environmental_factors,omitempty"`
	WeatherCondition     WeatherCondition `json:"weather_condition,omitempty"`

	// Match verification only; not used for area generation.
	DistinctiveFeatures []string `json:"distinctive_features,omitempty"`
	VerificationMethods []string `json:"verification_methods,omitempty"`

	// Derived
	SearchProbability  *int     `json:"search_probability,omitempty"`
	BehaviorPrediction string   `json:"behavior_prediction,omitempty"`
	SearchTips         []string `json:"search_tips,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTrait reports whether the report carries the given behavioral trait.
func (r *PetReport) HasTrait(trait string) bool {
	return contains(r.BehavioralTraits, trait)
}

// HasEnvironment reports whether the report carries the given environmental factor.
func (r *PetReport) HasEnvironment(factor string) bool {
	return contains(r.EnvironmentalFactors, factor)
}

// StoredProbability returns the stored search probability, or false when
// none has been recorded.
func (r *PetReport) StoredProbability() (int, bool) {
	if r.SearchProbability == nil {
		return 0, false
	}
	return *r.SearchProbability, true
}

// SetSearchProbability stores p, or clears the field when the report is
// not lost.
func (r *PetReport) SetSearchProbability(p int) {
	if r.Status != StatusLost {
		r.SearchProbability = nil
		return
	}
	r.SearchProbability = &p
}

// Validate checks the user-entered fields of a report. It does not require
// a location; that precondition belongs to search-area recommendation.
func (r *PetReport) Validate() error {
	if !IsValidSpecies(r.Species) {
		return fmt.Errorf("invalid species %q", r.Species)
	}
	if !IsValidReportStatus(r.Status) {
		return fmt.Errorf("invalid status %q", r.Status)
	}
	if !IsValidSize(r.Size) {
		return fmt.Errorf("invalid size %q", r.Size)
	}
	if !IsValidGender(r.Gender) {
		return fmt.Errorf("invalid gender %q", r.Gender)
	}
	if !IsValidWeatherCondition(r.WeatherCondition) {
		return fmt.Errorf("invalid weather condition %q", r.WeatherCondition)
	}
	for _, trait := range r.BehavioralTraits {
		if !IsValidBehavioralTrait(trait) {
			return fmt.Errorf("invalid behavioral trait %q", trait)
		}
	}
	for _, factor := range r.EnvironmentalFactors {
		if !IsValidEnvironmentalFactor(factor) {
			return fmt.Errorf("invalid environmental factor %q", factor)
		}
	}
	if r.Location != nil {
		if err := r.Location.Validate(); err != nil {
			return fmt.Errorf("invalid location: %w", err)
		}
	}
	if p, ok := r.StoredProbability(); ok && (p < 0 || p > 100) {
		return fmt.Errorf("search probability %d out of range", p)
	}
	return nil
}

// Validate checks that the coordinate lies within WGS84 bounds.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range", c.Longitude)
	}
	return nil
}

// Sighting is a third-party observation of a specific PetReport.
// Immutable once created.
type Sighting struct {
	ID           string      `json:"id"`
	PetID        string      `json:"pet_id"`
	Location     *Coordinate `json:"location,omitempty"`
	Description  string      `json:"description,omitempty"`
	Confidence   Confidence  `json:"confidence"`
	ImageURLs    []string    `json:"image_urls,omitempty"`
	ReporterID   string      `json:"reporter_id"`
	ReporterName string      `json:"reporter_name,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

var (
	errSightingNoLocation   = errors.New("sighting has no location")
	errSightingNoConfidence = errors.New("sighting has no valid confidence")
)

// Validate checks that the sighting carries the fields the search engine
// depends on: a coordinate and a confidence tier.
func (s *Sighting) Validate() error {
	if s.Location == nil {
		return errSightingNoLocation
	}
	if err := s.Location.Validate(); err != nil {
		return err
	}
	if !IsValidConfidence(s.Confidence) {
		return fmt.Errorf("%w: %q", errSightingNoConfidence, s.Confidence)
	}
	return nil
}
