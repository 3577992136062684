// Package llm is the remote analysis client for search-area recommendation.
// It builds the prompt, talks to an OpenAI-compatible or Anthropic chat
// endpoint behind a circuit breaker, and validates the JSON reply into a
// typed AnalysisResult.
package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/scrypster/lostpaws/internal/geo"
	"github.com/scrypster/lostpaws/pkg/types"
)

// MaxPromptSightings is the number of most recent sightings embedded in the prompt.
const MaxPromptSightings = 5

// SearchAreaSystemPrompt fixes the role and the output contract.
const SearchAreaSystemPrompt = `You are an expert in lost pet recovery and animal behavior.
You analyze lost pet reports and propose where searchers should look first.
OUTPUT: ONLY a valid JSON object. NO markdown. NO code blocks. NO prose.`

const searchAreaOutputContract = `Respond with a JSON object of exactly this shape:
{
  "behaviorPrediction": "how the pet is likely behaving and moving",
  "searchTips": ["specific actionable tip", "..."],
  "searchAreas": [
    {
      "center": {"latitudeOffset": 0.001, "longitudeOffset": -0.002},
      "radius": 500,
      "probability": 80,
      "description": "why this area",
      "tips": "what to do in this area"
    }
  ]
}

RULES:
1. Offsets are in decimal degrees relative to the last-known location.
2. radius is in meters and greater than 0.
3. probability is an integer from 0 to 100.
4. Return between 3 and 6 searchAreas, most likely first.
5. No extra keys. No null values. No trailing commas.`

// BuildSearchAreaPrompt renders the user message for a report and its
// sightings. Sightings without a coordinate or confidence are left out, and
// only the first MaxPromptSightings of the rest are included; callers pass
// them newest first.
func BuildSearchAreaPrompt(report *types.PetReport, sightings []types.Sighting) string {
	var b strings.Builder

	b.WriteString("Analyze this lost pet case and recommend search areas.\n\n")
	b.WriteString("PET:\n")
	writeField(&b, "Species", string(report.Species))
	writeField(&b, "Breed", report.Breed)
	writeField(&b, "Age", report.Age)
	writeField(&b, "Gender", string(report.Gender))
	writeField(&b, "Size", string(report.Size))
	writeField(&b, "Color", report.Color)
	writeField(&b, "Behavioral traits", joinOrNone(report.BehavioralTraits))
	writeField(&b, "Environmental factors", joinOrNone(report.EnvironmentalFactors))
	writeField(&b, "Weather", string(report.WeatherCondition))

	b.WriteString("\nLAST SEEN:\n")
	if report.Location != nil {
		writeField(&b, "Location", fmt.Sprintf("%.6f, %.6f", report.Location.Latitude, report.Location.Longitude))
	}
	writeField(&b, "Time", report.LastSeenAt)

	sightings = usableSightings(sightings, MaxPromptSightings)
	b.WriteString("\nRECENT SIGHTINGS:\n")
	if len(sightings) == 0 {
		b.WriteString("none\n")
	}
	for i, s := range sightings {
		fmt.Fprintf(&b, "%d. %.6f, %.6f at %s, confidence %s",
			i+1, s.Location.Latitude, s.Location.Longitude,
			s.CreatedAt.UTC().Format(time.RFC3339), s.Confidence)
		if report.Location != nil {
			fmt.Fprintf(&b, ", %.0fm from last-known location", geo.DistanceMeters(*report.Location, *s.Location))
		}
		if d := strings.TrimSpace(s.Description); d != "" {
			fmt.Fprintf(&b, ": %s", d)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(searchAreaOutputContract)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = "unknown"
	}
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

func usableSightings(sightings []types.Sighting, limit int) []types.Sighting {
	out := make([]types.Sighting, 0, min(len(sightings), limit))
	for i := range sightings {
		if len(out) == limit {
			break
		}
		if sightings[i].Validate() == nil {
			out = append(out, sightings[i])
		}
	}
	return out
}
