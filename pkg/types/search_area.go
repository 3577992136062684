package types

import "fmt"

// AreaColor is a positional map marker for a search area. It is assigned
// by output order, not by probability.
type AreaColor string

// AnalysisSource tells presentation where a result came from.
type AnalysisSource string

// Area colors in assignment order.
const (
	ColorRed    AreaColor = "red"
	ColorAmber  AreaColor = "amber"
	ColorBlue   AreaColor = "blue"
	ColorPurple AreaColor = "purple"
	ColorGreen  AreaColor = "green"
	ColorIndigo AreaColor = "indigo"
)

// Analysis source constants
const (
	// SourceAI marks results parsed from the remote language model.
	SourceAI AnalysisSource = "ai"

	// SourceFallback marks heuristic results from the rule-based generator.
	SourceFallback AnalysisSource = "fallback"
)

var areaColorOrder = []AreaColor{ColorRed, ColorAmber, ColorBlue, ColorPurple, ColorGreen}

var areaColorHex = map[AreaColor]string{
	ColorRed:    "#EF4444",
	ColorAmber:  "#F59E0B",
	ColorBlue:   "#3B82F6",
	ColorPurple: "#8B5CF6",
	ColorGreen:  "#10B981",
	ColorIndigo: "#6366F1",
}

// ColorForIndex returns the color for the zero-based position i:
// red, amber, blue, purple, green, then indigo for everything after.
func ColorForIndex(i int) AreaColor {
	if i >= 0 && i < len(areaColorOrder) {
		return areaColorOrder[i]
	}
	return ColorIndigo
}

// Hex resolves the color for map rendering.
func (c AreaColor) Hex() string {
	if hex, ok := areaColorHex[c]; ok {
		return hex
	}
	return areaColorHex[ColorIndigo]
}

// AreaID returns the ordinal id for the zero-based position i ("area1", ...).
func AreaID(i int) string {
	return fmt.Sprintf("area%d", i+1)
}

// SearchArea is one ranked candidate area for a lost-pet search.
type SearchArea struct {
	ID          string     `json:"id"`
	Center      Coordinate `json:"center"`
	Radius      float64    `json:"radius"` // meters
	Probability int        `json:"probability"`
	Color       AreaColor  `json:"color"`
	Description string     `json:"description"`
	Tip         string     `json:"tip"`
}

// Validate enforces radius > 0 and probability within [0,100].
func (a SearchArea) Validate() error {
	if a.Radius <= 0 {
		return fmt.Errorf("area %s: radius must be positive, got %v", a.ID, a.Radius)
	}
	if a.Probability < 0 || a.Probability > 100 {
		return fmt.Errorf("area %s: probability %d out of range", a.ID, a.Probability)
	}
	return nil
}

// AnalysisResult is the output contract of the recommendation engine.
type AnalysisResult struct {
	BehaviorPrediction string         `json:"behavior_prediction"`
	SearchTips         []string       `json:"search_tips"`
	SearchAreas        []SearchArea   `json:"search_areas"`
	Source             AnalysisSource `json:"source"`

	// FallbackReason carries the remote failure that triggered fallback.
	FallbackReason string `json:"fallback_reason,omitempty"`

	// Model names the remote model for AI-sourced results.
	Model string `json:"model,omitempty"`
}

// IsFallback reports whether the result was produced heuristically.
func (r *AnalysisResult) IsFallback() bool {
	return r.Source == SourceFallback
}
