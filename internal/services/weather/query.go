package weather

import (
	"context"
	"fmt"

	"weather-explorer/internal/models"
	"weather-explorer/internal/normalize"
	"weather-explorer/internal/storage"
	"weather-explorer/pkg/logger"
)

// SeriesView is a normalized stored payload together with the shape it was read as.
// An empty series with shape "unrecognized" means the payload could not be read,
// while an empty series with a known shape means it held no days.
type SeriesView struct {
	Name    string                 `json:"filename"`
	Shape   normalize.Shape        `json:"shape" swaggertype:"string" example:"nested-daily"`
	Records models.CanonicalSeries `json:"records"`
}

// QueryService is the read path over the weather store.
type QueryService struct {
	store storage.WeatherStore
	l     *logger.Logger
}

func NewQueryService(store storage.WeatherStore, l *logger.Logger) *QueryService {
	return &QueryService{
		store: store,
		l:     l,
	}
}

// GetSeries loads name and normalizes it. Only store errors are returned.
func (s *QueryService) GetSeries(ctx context.Context, name string) (models.CanonicalSeries, error) {
	view, err := s.Inspect(ctx, name)
	if err != nil {
		return nil, err
	}
	return view.Records, nil
}

func (s *QueryService) Inspect(ctx context.Context, name string) (SeriesView, error) {
	raw, err := s.store.Get(ctx, name)
	if err != nil {
		return SeriesView{}, err
	}

	series, shape := normalize.NormalizeReport(raw)
	if shape == normalize.Unrecognized {
		s.l.Warning("unrecognized weather payload, returning empty series", map[string]any{
			"name": name,
			"size": len(raw),
		})
	}

	return SeriesView{
		Name:    name,
		Shape:   shape,
		Records: series,
	}, nil
}

// Day returns the record for date (YYYY-MM-DD) from a stored payload.
func (s *QueryService) Day(ctx context.Context, name, date string) (models.WeatherData, error) {
	series, err := s.GetSeries(ctx, name)
	if err != nil {
		return models.WeatherData{}, err
	}

	i := models.FilterByDate(series, date)
	if i < 0 {
		return models.WeatherData{}, fmt.Errorf("%w: no record for %s in %q", models.ErrNotFound, date, name)
	}

	return series[i], nil
}

// ListFiles returns every stored payload, ordered by name.
func (s *QueryService) ListFiles(ctx context.Context) ([]models.StoredFile, error) {
	files, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	s.l.Debug("listed weather files", map[string]any{"count": len(files)})

	return files, nil
}

// Content returns the stored payload bytes exactly as written.
func (s *QueryService) Content(ctx context.Context, name string) ([]byte, error) {
	return s.store.Get(ctx, name)
}

// Backend names the storage medium behind the service.
func (s *QueryService) Backend() string {
	return s.store.Backend()
}
