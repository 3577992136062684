package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/scrypster/lostpaws/internal/geo"
	"github.com/scrypster/lostpaws/internal/rules"
	"github.com/scrypster/lostpaws/pkg/types"
)

// Defaults applied to areas that omit a numeric field.
const (
	DefaultAreaRadius      = 500.0
	DefaultAreaProbability = 75

	minResponseAreas = 3
	maxResponseAreas = 6
	minResponseTips  = 3
	maxResponseTips  = 6
)

// SearchAreaResponse is the wire shape requested from the model.
type SearchAreaResponse struct {
	BehaviorPrediction string         `json:"behaviorPrediction"`
	SearchTips         []string       `json:"searchTips"`
	SearchAreas        []AreaResponse `json:"searchAreas"`
}

// AreaResponse is one search area as returned by the model, with its
// center relative to the last-known location.
type AreaResponse struct {
	Center      *OffsetResponse `json:"center"`
	Radius      *float64        `json:"radius"`
	Probability *float64        `json:"probability"`
	Description string          `json:"description"`
	Tips        flexibleText    `json:"tips"`
}

// OffsetResponse is a center offset in decimal degrees.
type OffsetResponse struct {
	LatitudeOffset  float64 `json:"latitudeOffset"`
	LongitudeOffset float64 `json:"longitudeOffset"`
}

// flexibleText accepts either a string or an array of strings.
type flexibleText string

func (t *flexibleText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = flexibleText(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tips must be a string or array of strings: %w", err)
	}
	*t = flexibleText(strings.Join(list, " "))
	return nil
}

// ParseSearchAreaResponse validates a model reply and converts it into an
// AnalysisResult anchored at origin. Areas are resolved to absolute
// coordinates, truncated to six, and given ids and colors by position.
// Tips are kept between three and six.
//
// Any schema violation returns an error wrapping ErrInvalidResponse; no
// partial result is ever returned.
func ParseSearchAreaResponse(text string, origin types.Coordinate) (*types.AnalysisResult, error) {
	cleanJSON := extractJSON(text)

	var resp SearchAreaResponse
	if err := json.Unmarshal([]byte(cleanJSON), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	prediction := strings.TrimSpace(resp.BehaviorPrediction)
	if prediction == "" {
		return nil, fmt.Errorf("%w: empty behaviorPrediction", ErrInvalidResponse)
	}
	if len(resp.SearchAreas) < minResponseAreas {
		return nil, fmt.Errorf("%w: %d search areas, need at least %d",
			ErrInvalidResponse, len(resp.SearchAreas), minResponseAreas)
	}
	if len(resp.SearchAreas) > maxResponseAreas {
		resp.SearchAreas = resp.SearchAreas[:maxResponseAreas]
	}

	areas := make([]types.SearchArea, 0, len(resp.SearchAreas))
	for i, raw := range resp.SearchAreas {
		area, err := resolveArea(raw, origin)
		if err != nil {
			return nil, fmt.Errorf("%w: search area %d: %v", ErrInvalidResponse, i+1, err)
		}
		area.ID = types.AreaID(i)
		area.Color = types.ColorForIndex(i)
		areas = append(areas, area)
	}

	return &types.AnalysisResult{
		BehaviorPrediction: prediction,
		SearchTips:         normalizeTips(resp.SearchTips),
		SearchAreas:        areas,
		Source:             types.SourceAI,
	}, nil
}

// normalizeTips drops blank tips, keeps at most six and tops a short list up
// to three from the general tips.
func normalizeTips(raw []string) []string {
	tips := make([]string, 0, maxResponseTips)
	seen := make(map[string]bool, maxResponseTips)
	for _, tip := range raw {
		tip = strings.TrimSpace(tip)
		if tip == "" || seen[tip] {
			continue
		}
		tips = append(tips, tip)
		seen[tip] = true
		if len(tips) == maxResponseTips {
			return tips
		}
	}
	for _, tip := range rules.GeneralSearchTips {
		if len(tips) >= minResponseTips {
			break
		}
		if !seen[tip] {
			tips = append(tips, tip)
			seen[tip] = true
		}
	}
	return tips
}

func resolveArea(raw AreaResponse, origin types.Coordinate) (types.SearchArea, error) {
	if raw.Center == nil {
		return types.SearchArea{}, fmt.Errorf("missing center")
	}

	radius := DefaultAreaRadius
	if raw.Radius != nil {
		radius = *raw.Radius
	}
	probability := DefaultAreaProbability
	if raw.Probability != nil {
		if math.IsNaN(*raw.Probability) {
			return types.SearchArea{}, fmt.Errorf("probability is not a number")
		}
		probability = int(math.Round(*raw.Probability))
	}

	area := types.SearchArea{
		Center:      geo.ApplyOffset(origin, raw.Center.LatitudeOffset, raw.Center.LongitudeOffset),
		Radius:      radius,
		Probability: probability,
		Description: strings.TrimSpace(raw.Description),
		Tip:         strings.TrimSpace(string(raw.Tips)),
	}
	if err := area.Validate(); err != nil {
		return types.SearchArea{}, err
	}
	if !geo.IsValid(area.Center) {
		return types.SearchArea{}, fmt.Errorf("center %v is not a valid coordinate", area.Center)
	}
	return area, nil
}

// extractJSON extracts the first valid JSON object from a string that may contain extra text.
// This handles cases where models add explanations or code fences around the JSON.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return text // No JSON found, return as-is and let parser fail
	}

	// Find the matching closing brace, ignoring braces inside strings.
	braceCount := 0
	inString := false
	escape := false

	for i := start; i < len(text); i++ {
		char := text[i]

		if escape {
			escape = false
			continue
		}
		if char == '\\' {
			escape = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			switch char {
			case '{':
				braceCount++
			case '}':
				braceCount--
				if braceCount == 0 {
					return text[start : i+1]
				}
			}
		}
	}

	return text // No complete JSON found, return as-is
}
