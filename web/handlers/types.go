package handlers

import (
	"github.com/scrypster/lostpaws/internal/geo"
	"github.com/scrypster/lostpaws/internal/rules"
	"github.com/scrypster/lostpaws/pkg/types"
)

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// CreateReportRequest is the request format for POST /api/reports.
// Derived fields are not accepted from clients.
type CreateReportRequest struct {
	OwnerID              string                 `json:"owner_id"`
	Species              types.Species          `json:"species"`
	Breed                string                 `json:"breed"`
	Size                 types.Size             `json:"size"`
	Color                string                 `json:"color"`
	Name                 string                 `json:"name"`
	Gender               types.Gender           `json:"gender"`
	Age                  string                 `json:"age"`
	Status               types.ReportStatus     `json:"status"`
	Location             *types.Coordinate      `json:"location"`
	LastSeenAt           string                 `json:"last_seen_at"`
	ImageURLs            []string               `json:"image_urls"`
	BehavioralTraits     []string               `json:"behavioral_traits"`
	EnvironmentalFactors []string               `json:"environmental_factors"`
	WeatherCondition     types.WeatherCondition `json:"weather_condition"`
	DistinctiveFeatures  []string               `json:"distinctive_features"`
	VerificationMethods  []string               `json:"verification_methods"`
}

func (req *CreateReportRequest) toReport() *types.PetReport {
	status := req.Status
	if status == "" {
		status = types.StatusLost
	}
	return &types.PetReport{
		OwnerID:              req.OwnerID,
		Species:              req.Species,
		Breed:                req.Breed,
		Size:                 req.Size,
		Color:                req.Color,
		Name:                 req.Name,
		Gender:               req.Gender,
		Age:                  req.Age,
		Status:               status,
		Location:             req.Location,
		LastSeenAt:           req.LastSeenAt,
		ImageURLs:            req.ImageURLs,
		BehavioralTraits:     req.BehavioralTraits,
		EnvironmentalFactors: req.EnvironmentalFactors,
		WeatherCondition:     req.WeatherCondition,
		DistinctiveFeatures:  req.DistinctiveFeatures,
		VerificationMethods:  req.VerificationMethods,
	}
}

// ReportResponse wraps a stored report. MatchConfidence is only set for
// found reports.
type ReportResponse struct {
	*types.PetReport
	MatchConfidence *int `json:"match_confidence,omitempty"`
}

// UpdateStatusRequest is the request format for PATCH /api/reports/{id}/status.
type UpdateStatusRequest struct {
	OwnerID string             `json:"owner_id"`
	Status  types.ReportStatus `json:"status"`
}

// CreateSightingRequest is the request format for POST /api/reports/{id}/sightings.
type CreateSightingRequest struct {
	Location     *types.Coordinate `json:"location"`
	Description  string            `json:"description"`
	Confidence   types.Confidence  `json:"confidence"`
	ImageURLs    []string          `json:"image_urls"`
	ReporterID   string            `json:"reporter_id"`
	ReporterName string            `json:"reporter_name"`
}

// SightingResponse returns the stored sighting with the report's
// probability after the sighting was applied.
type SightingResponse struct {
	Sighting          *types.Sighting `json:"sighting"`
	SearchProbability *int            `json:"search_probability,omitempty"`
}

// SightingsResponse is the response format for GET /api/reports/{id}/sightings.
type SightingsResponse struct {
	Sightings []types.Sighting `json:"sightings"`
	Total     int              `json:"total"`
}

// SearchAreaView adds display fields to a search area.
type SearchAreaView struct {
	types.SearchArea
	RadiusLabel string `json:"radius_label"`
	ColorHex    string `json:"color_hex"`
}

// SearchAreasResponse is the response format for POST /api/reports/{id}/search-areas.
type SearchAreasResponse struct {
	ReportID           string               `json:"report_id"`
	BehaviorPrediction string               `json:"behavior_prediction"`
	SearchTips         []string             `json:"search_tips"`
	SearchAreas        []SearchAreaView     `json:"search_areas"`
	Source             types.AnalysisSource `json:"source"`
	FallbackReason     string               `json:"fallback_reason,omitempty"`
	Model              string               `json:"model,omitempty"`
}

func newSearchAreasResponse(reportID string, result *types.AnalysisResult) *SearchAreasResponse {
	views := make([]SearchAreaView, 0, len(result.SearchAreas))
	for _, area := range result.SearchAreas {
		views = append(views, SearchAreaView{
			SearchArea:  area,
			RadiusLabel: geo.KmRadiusLabel(area.Radius),
			ColorHex:    area.Color.Hex(),
		})
	}
	return &SearchAreasResponse{
		ReportID:           reportID,
		BehaviorPrediction: result.BehaviorPrediction,
		SearchTips:         result.SearchTips,
		SearchAreas:        views,
		Source:             result.Source,
		FallbackReason:     result.FallbackReason,
		Model:              result.Model,
	}
}

// EventSearchAreasUpdated is broadcast whenever search areas are recomputed.
const EventSearchAreasUpdated = "search_areas_updated"

// SearchAreasEvent is the WebSocket message pushed to connected clients.
type SearchAreasEvent struct {
	Type     string               `json:"type"`
	ReportID string               `json:"report_id"`
	Result   *SearchAreasResponse `json:"result"`
}

// WeatherResponse is the response format for GET /api/weather/{condition}.
type WeatherResponse struct {
	Condition types.WeatherCondition `json:"condition"`
	rules.WeatherEffect
	Shelter bool `json:"shelter"`
}
