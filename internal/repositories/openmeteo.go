package repositories

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"weather-explorer/internal/models"
	"weather-explorer/pkg/logger"
)

const (
	OpenMeteoArchiveURL  = "https://archive-api.open-meteo.com/v1/archive"
	OpenMeteoForecastURL = "https://api.open-meteo.com/v1/forecast"

	dailyVariables = "temperature_2m_max,temperature_2m_min,apparent_temperature_max,apparent_temperature_min"

	maxBodySize = 10 << 20

	defaultMaxFailures    = 5
	defaultBreakerTimeout = 30 * time.Second
)

// Settings configures an Open-Meteo compatible source.
type Settings struct {
	Name           string
	BaseURL        string
	MaxFailures    uint32
	BreakerTimeout time.Duration
}

// OpenMeteoRepository fetches daily temperatures from an Open-Meteo endpoint. Calls go
// through a circuit breaker that opens after MaxFailures consecutive failures.
type OpenMeteoRepository struct {
	name       string
	baseURL    string
	httpClient HTTPClient
	breaker    *gobreaker.CircuitBreaker
	l          *logger.Logger
}

// OpenMeteoErrorResponse is the body Open-Meteo sends with 4xx answers.
type OpenMeteoErrorResponse struct {
	Error   bool   `json:"error"`
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

func NewOpenMeteoRepository(s Settings, l *logger.Logger, httpClient HTTPClient) *OpenMeteoRepository {
	if s.Name == "" {
		s.Name = "open-meteo-archive"
	}
	if s.BaseURL == "" {
		s.BaseURL = OpenMeteoArchiveURL
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = defaultMaxFailures
	}
	if s.BreakerTimeout == 0 {
		s.BreakerTimeout = defaultBreakerTimeout
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	maxFailures := s.MaxFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			l.Warning("circuit breaker state changed", map[string]any{
				"repository": name,
				"from":       from.String(),
				"to":         to.String(),
			})
		},
	})

	return &OpenMeteoRepository{
		name:       s.Name,
		baseURL:    s.BaseURL,
		httpClient: httpClient,
		breaker:    breaker,
		l:          l,
	}
}

func (o *OpenMeteoRepository) Name() string {
	return o.name
}

// FetchHistory returns the upstream JSON document for q, unmodified.
func (o *OpenMeteoRepository) FetchHistory(ctx context.Context, q models.GeoQuery) ([]byte, error) {
	body, err := o.breaker.Execute(func() (interface{}, error) {
		return o.fetch(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	return body.([]byte), nil
}

func (o *OpenMeteoRepository) fetch(ctx context.Context, q models.GeoQuery) ([]byte, error) {
	requestURL := o.requestURL(q)

	o.l.Info("making openmeteo API request", map[string]any{
		"repository": o.name,
		"params":     q.RequestParams(),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	o.l.Info("received openmeteo API response", map[string]any{
		"repository": o.name,
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp OpenMeteoErrorResponse
		if jsonErr := json.Unmarshal(body, &errorResp); jsonErr == nil && errorResp.Error {
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, errorResp.Reason)
		}
		return nil, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("failed to parse JSON response: %d bytes of invalid JSON", len(body))
	}

	return body, nil
}

func (o *OpenMeteoRepository) requestURL(q models.GeoQuery) string {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', 4, 64))
	params.Set("start_date", q.StartDate.Format(models.DateLayout))
	params.Set("end_date", q.EndDate.Format(models.DateLayout))
	params.Set("daily", dailyVariables)
	params.Set("timezone", "auto")

	return o.baseURL + "?" + params.Encode()
}
