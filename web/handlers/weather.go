package handlers

import (
	"net/http"

	"github.com/scrypster/lostpaws/internal/rules"
	"github.com/scrypster/lostpaws/pkg/types"
)

// GetWeather handles GET /api/weather/{condition} - how the weather affects
// pet movement and how to adapt the search.
func (h *APIHandlers) GetWeather(w http.ResponseWriter, r *http.Request) {
	condition := types.WeatherCondition(extractID(r, "condition"))
	if condition == "" || !types.IsValidWeatherCondition(condition) {
		respondError(w, http.StatusBadRequest, "unknown weather condition", nil)
		return
	}

	respondJSON(w, http.StatusOK, WeatherResponse{
		Condition:     condition,
		WeatherEffect: rules.WeatherEffectFor(condition),
		Shelter:       rules.IsShelterWeather(condition),
	})
}
