// Package weather wraps the WeatherAPI forecast service
// (http://api.weatherapi.com/v1) behind a small client that reshapes its
// response into the simplified schema this API serves.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "http://api.weatherapi.com/v1"
	requestTimeout = 20 * time.Second
	forecastDays   = 7
)

// ErrNoForecast is returned when the upstream has no forecast data for the
// requested location.
var ErrNoForecast = errors.New("no forecast data available")

// UpstreamError carries a non-2xx status from the upstream service so it can
// be proxied to the client as-is.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("weather service returned status %d", e.Status)
}

// Day holds the simplified forecast for a single day.
type Day struct {
	Date            string  `json:"date"`
	TempMaxC        float64 `json:"temp_max_c"`
	TempMinC        float64 `json:"temp_min_c"`
	PrecipitationMM float64 `json:"precipitation_mm"`
	WeatherCode     int     `json:"weathercode"`
}

// Forecast is the reshaped 7-day forecast for a location.
type Forecast struct {
	Latitude  float64
	Longitude float64
	Days      []Day
}

// apiResponse mirrors the subset of the WeatherAPI forecast.json payload this
// client reads. A populated Error field means the upstream rejected the query
// even though the HTTP status was 200.
type apiResponse struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC      float64 `json:"maxtemp_c"`
				MinTempC      float64 `json:"mintemp_c"`
				TotalPrecipMM float64 `json:"totalprecip_mm"`
				Condition     struct {
					Code int `json:"code"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client provides access to the WeatherAPI forecast endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the upstream base URL. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a new WeatherAPI client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Forecast fetches a 7-day forecast for the given location. One best-effort
// call per invocation: no retry and no caching.
func (c *Client) Forecast(ctx context.Context, city string) (*Forecast, error) {
	u, err := url.Parse(c.baseURL + "/forecast.json")
	if err != nil {
		return nil, fmt.Errorf("building forecast URL: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	q.Set("q", city)
	q.Set("days", strconv.Itoa(forecastDays))
	q.Set("aqi", "no")
	q.Set("alerts", "no")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling weather service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &UpstreamError{Status: res.StatusCode}
	}

	var payload apiResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding weather response: %w", err)
	}

	// The upstream reports an invalid location as an error object in an
	// otherwise successful response.
	if payload.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoForecast, payload.Error.Message)
	}
	if len(payload.Forecast.ForecastDay) == 0 {
		return nil, ErrNoForecast
	}

	forecast := &Forecast{
		Latitude:  payload.Location.Lat,
		Longitude: payload.Location.Lon,
		Days:      make([]Day, 0, len(payload.Forecast.ForecastDay)),
	}
	for _, fd := range payload.Forecast.ForecastDay {
		forecast.Days = append(forecast.Days, Day{
			Date:            fd.Date,
			TempMaxC:        fd.Day.MaxTempC,
			TempMinC:        fd.Day.MinTempC,
			PrecipitationMM: fd.Day.TotalPrecipMM,
			WeatherCode:     fd.Day.Condition.Code,
		})
	}
	return forecast, nil
}
