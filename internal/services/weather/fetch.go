package weather

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"weather-explorer/internal/models"
	"weather-explorer/internal/repositories"
	"weather-explorer/internal/storage"
	"weather-explorer/pkg/logger"
)

// FetchService fetches a query's observations upstream and stores them verbatim.
type FetchService struct {
	repos []repositories.WeatherRepository
	store storage.WeatherStore
	group singleflight.Group
	l     *logger.Logger
}

func NewFetchService(repos []repositories.WeatherRepository, store storage.WeatherStore, l *logger.Logger) *FetchService {
	return &FetchService{
		repos: repos,
		store: store,
		l:     l,
	}
}

// FetchAndStore validates q, fetches it from the first source that answers and stores
// the payload under StorageName(q). Concurrent calls for the same name share one
// upstream request and one write.
func (s *FetchService) FetchAndStore(ctx context.Context, q models.GeoQuery) (models.StoredFile, error) {
	if err := q.Validate(); err != nil {
		return models.StoredFile{}, err
	}

	name := StorageName(q)

	v, err, shared := s.group.Do(name, func() (interface{}, error) {
		return s.fetchAndStore(ctx, q, name)
	})
	if err != nil {
		return models.StoredFile{}, err
	}

	if shared {
		s.l.Debug("joined in-flight fetch", map[string]any{"name": name})
	}

	return v.(models.StoredFile), nil
}

func (s *FetchService) fetchAndStore(ctx context.Context, q models.GeoQuery, name string) (models.StoredFile, error) {
	s.l.Info("starting weather fetch", map[string]any{
		"params":       q.RequestParams(),
		"name":         name,
		"repositories": len(s.repos),
	})

	raw, source, err := s.fetch(ctx, q)
	if err != nil {
		s.l.Error(err, map[string]any{"params": q.RequestParams()})
		return models.StoredFile{}, err
	}

	file, err := s.store.Put(ctx, name, raw)
	if err != nil {
		s.l.Error(err, map[string]any{"name": name, "backend": s.store.Backend()})
		return models.StoredFile{}, err
	}

	s.l.Info("stored weather data", map[string]any{
		"name":       file.Name,
		"size":       file.Size,
		"repository": source,
	})

	return file, nil
}

// fetch tries the sources in order and returns the first valid JSON document.
func (s *FetchService) fetch(ctx context.Context, q models.GeoQuery) ([]byte, string, error) {
	if len(s.repos) == 0 {
		return nil, "", errors.Wrap(models.ErrUpstream, "no weather sources configured")
	}

	failures := make([]string, 0, len(s.repos))
	for _, repo := range s.repos {
		raw, err := repo.FetchHistory(ctx, q)
		if err == nil && !json.Valid(raw) {
			err = fmt.Errorf("malformed JSON payload (%d bytes)", len(raw))
		}
		if err != nil {
			s.l.Warning("failed to fetch weather data", map[string]any{"repo": repo.Name(), "err": err.Error()})
			failures = append(failures, repo.Name()+": "+err.Error())
			continue
		}

		return raw, repo.Name(), nil
	}

	return nil, "", errors.Wrapf(models.ErrUpstream, "all weather sources failed (%s)", strings.Join(failures, "; "))
}
