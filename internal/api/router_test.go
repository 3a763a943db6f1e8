package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/skycast/skycast-be/internal/auth"
	"github.com/skycast/skycast-be/internal/database"
	"github.com/skycast/skycast-be/internal/services"
	"github.com/skycast/skycast-be/internal/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routerForecastFixture = `{
	"location": {"lat": 51.52, "lon": -0.11},
	"forecast": {"forecastday": [
		{"date": "2024-01-01", "day": {"maxtemp_c": 8.0, "mintemp_c": 2.0, "totalprecip_mm": 0.5, "condition": {"code": 1000}}}
	]}
}`

func newTestRouter(t *testing.T) (http.Handler, *int) {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	var upstreamCalls int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		fmt.Fprint(w, routerForecastFixture)
	}))
	t.Cleanup(upstream.Close)

	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	userService := services.NewUserService(db, tokens)
	weatherClient := weather.NewClient("test-key", weather.WithBaseURL(upstream.URL))

	return NewRouter(userService, tokens, weatherClient), &upstreamCalls
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Skycast Weather API","status":"ok"}`, rec.Body.String())
}

func TestRouter_WeatherRequiresAuth(t *testing.T) {
	router, upstreamCalls := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/weather?city=London&date=2024-01-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	// The guard rejects before anything reaches the upstream.
	assert.Zero(t, *upstreamCalls)
}

func TestRouter_SignupThenWeather(t *testing.T) {
	router, upstreamCalls := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"email":"a@x.com","password":"longpass1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokenResp))
	require.NotEmpty(t, tokenResp.AccessToken)

	req = httptest.NewRequest(http.MethodGet, "/weather?city=London&date=2024-01-01", nil)
	req.Header.Set("Authorization", "Bearer "+tokenResp.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *upstreamCalls)

	var resp struct {
		Days []struct {
			Date string `json:"date"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Days)
	assert.Equal(t, "2024-01-01", resp.Days[0].Date)
}
