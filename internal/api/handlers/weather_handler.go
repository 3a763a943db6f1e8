package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/skycast/skycast-be/internal/weather"
)

const dateLayout = "2006-01-02"

// WeatherHandler handles forecast requests. It runs behind the auth
// middleware, so every request that reaches it carries a resolved user.
type WeatherHandler struct {
	client *weather.Client
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(client *weather.Client) *WeatherHandler {
	return &WeatherHandler{client: client}
}

// WeatherResponse is the reshaped 7-day forecast returned to clients.
type WeatherResponse struct {
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Days      []weather.Day `json:"days"`
}

// GetForecast returns a 7-day forecast for the requested location, framed by
// the requested start date. The location is a city name, or a lat/lon pair
// passed through to the upstream as "lat,lon".
func (h *WeatherHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	location, err := locationFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return
	}

	forecast, err := h.client.Forecast(r.Context(), location)
	if err != nil {
		var upstream *weather.UpstreamError
		switch {
		case errors.Is(err, weather.ErrNoForecast):
			writeError(w, http.StatusNotFound, "no forecast data available for the specified location")
		case errors.As(err, &upstream):
			log.Warn().Int("status", upstream.Status).Str("location", location).Msg("Weather upstream returned an error")
			writeError(w, upstream.Status, "weather service error")
		default:
			log.Error().Err(err).Str("location", location).Msg("Failed to fetch forecast")
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, WeatherResponse{
		Latitude:  forecast.Latitude,
		Longitude: forecast.Longitude,
		StartDate: start.Format(dateLayout),
		EndDate:   start.AddDate(0, 0, 6).Format(dateLayout),
		Days:      forecast.Days,
	})
}

func locationFromQuery(q url.Values) (string, error) {
	if city := q.Get("city"); city != "" {
		return city, nil
	}

	lat, lon := q.Get("lat"), q.Get("lon")
	if lat == "" || lon == "" {
		return "", errors.New("city or lat/lon is required")
	}
	if _, err := strconv.ParseFloat(lat, 64); err != nil {
		return "", errors.New("invalid latitude")
	}
	if _, err := strconv.ParseFloat(lon, 64); err != nil {
		return "", errors.New("invalid longitude")
	}
	return lat + "," + lon, nil
}
