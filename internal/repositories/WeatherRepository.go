package repositories

import (
	"context"
	"net/http"
	"time"

	"weather-explorer/config"
	"weather-explorer/internal/models"
	"weather-explorer/pkg/logger"
)

// WeatherRepository is an upstream source of raw daily weather documents.
type WeatherRepository interface {
	Name() string
	FetchHistory(ctx context.Context, q models.GeoQuery) ([]byte, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// InitWeatherRepositories builds the configured sources in configuration order.
func InitWeatherRepositories(cfg *config.Config, l *logger.Logger) []WeatherRepository {
	var repos []WeatherRepository
	for _, api := range cfg.Weather.APIs {
		settings := Settings{
			Name:           api.Name,
			BaseURL:        api.BaseURL,
			MaxFailures:    api.MaxFailures,
			BreakerTimeout: time.Duration(api.BreakerTimeout) * time.Second,
		}
		client := &http.Client{Timeout: time.Duration(api.Timeout) * time.Second}

		switch api.Name {
		case config.APIOpenMeteoArchive:
			if settings.BaseURL == "" {
				settings.BaseURL = OpenMeteoArchiveURL
			}
			repos = append(repos, NewOpenMeteoRepository(settings, l, client))
		case config.APIOpenMeteoForecast:
			if settings.BaseURL == "" {
				settings.BaseURL = OpenMeteoForecastURL
			}
			repos = append(repos, NewOpenMeteoRepository(settings, l, client))
		default:
			l.Warning("skipping unsupported weather api", map[string]any{"name": api.Name})
		}
	}

	return repos
}
