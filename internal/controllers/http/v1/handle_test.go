package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "weather-explorer/internal/controllers/http/v1"
	"weather-explorer/internal/models"
	"weather-explorer/internal/repositories"
	"weather-explorer/internal/services/weather"
	"weather-explorer/internal/storage"
	"weather-explorer/pkg/httpserver"
	"weather-explorer/pkg/logger"
)

const tokyo = `{"daily": {"time": ["2024-01-01","2024-01-02"], "temperature_2m_max": [5.1, 6.2], "temperature_2m_min": [-1.0, 0.3]}}`

type stubRepository struct {
	payload string
	err     error
	calls   int
}

func (s *stubRepository) Name() string {
	return "stub"
}

func (s *stubRepository) FetchHistory(context.Context, models.GeoQuery) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.payload), nil
}

type brokenStore struct {
	storage.WeatherStore
}

func (brokenStore) Put(context.Context, string, []byte) (models.StoredFile, error) {
	return models.StoredFile{}, errors.Join(models.ErrStorage, errors.New("read-only file system"))
}

func (brokenStore) List(context.Context) ([]models.StoredFile, error) {
	return nil, errors.Join(models.ErrStorage, errors.New("permission denied"))
}

func newApp(t *testing.T, repo repositories.WeatherRepository, store storage.WeatherStore) *fiber.App {
	t.Helper()

	l := logger.NewZapLogger("test-app")
	if store == nil {
		store = storage.NewMemoryStore(l)
	}

	app := httpserver.InitFiberServer(httpserver.Options{AppName: "test-app"})
	v1.NewRouter(
		app,
		weather.NewFetchService([]repositories.WeatherRepository{repo}, store, l),
		weather.NewQueryService(store, l),
		v1.ServiceInfo{Name: "test-app", Version: "1.0.0", Repositories: []string{repo.Name()}},
		l,
	)

	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

func postStore(t *testing.T, app *fiber.App, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/store-weather-data", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return do(t, app, req)
}

func TestStoreWeatherData_Success(t *testing.T) {
	repo := &stubRepository{payload: tokyo}
	app := newApp(t, repo, nil)

	resp, body := postStore(t, app, `{"latitude": 35.6895, "longitude": 139.6917, "start_date": "2024-01-01", "end_date": "2024-01-07"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out v1.StoreWeatherResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Success)
	assert.Equal(t, "Weather data successfully stored", out.Message)
	assert.Equal(t, "weather_35_6895_139_6917_20240101_20240107.json", out.Filename)
	assert.Equal(t, int64(len(tokyo)), out.Size)
	assert.False(t, out.LastModified.IsZero())
}

func TestStoreWeatherData_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{"latitude out of range", `{"latitude": 95, "longitude": 0, "start_date": "2024-01-01", "end_date": "2024-01-02"}`, "latitude must be between -90 and 90"},
		{"longitude out of range", `{"latitude": 0, "longitude": -181, "start_date": "2024-01-01", "end_date": "2024-01-02"}`, "longitude must be between -180 and 180"},
		{"reversed dates", `{"latitude": 0, "longitude": 0, "start_date": "2024-01-05", "end_date": "2024-01-01"}`, "start_date must be less than or equal to end_date"},
		{"range too long", `{"latitude": 0, "longitude": 0, "start_date": "2024-01-01", "end_date": "2024-03-01"}`, "cannot exceed 31 days"},
		{"bad date format", `{"latitude": 0, "longitude": 0, "start_date": "01/01/2024", "end_date": "2024-01-02"}`, "start_date must be in ISO format"},
		{"missing latitude", `{"longitude": 0, "start_date": "2024-01-01", "end_date": "2024-01-02"}`, "latitude"},
		{"missing dates", `{"latitude": 0, "longitude": 0}`, "start_date, end_date"},
		{"not json", `latitude=1`, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepository{payload: tokyo}
			app := newApp(t, repo, nil)

			resp, body := postStore(t, app, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var out v1.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Contains(t, out.Error, tt.contains)
			assert.Zero(t, repo.calls, "invalid requests never reach the weather source")
		})
	}
}

func TestStoreWeatherData_ZeroCoordinatesAreValid(t *testing.T) {
	app := newApp(t, &stubRepository{payload: tokyo}, nil)

	resp, body := postStore(t, app, `{"latitude": 0, "longitude": 0, "start_date": "2024-01-01", "end_date": "2024-01-01"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestStoreWeatherData_UpstreamFailure(t *testing.T) {
	app := newApp(t, &stubRepository{err: errors.New("connection refused")}, nil)

	resp, body := postStore(t, app, `{"latitude": 35.6895, "longitude": 139.6917, "start_date": "2024-01-01", "end_date": "2024-01-07"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var out v1.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Failed to fetch weather data", out.Error)
}

func TestStoreWeatherData_StorageFailure(t *testing.T) {
	l := logger.NewZapLogger("test-app")
	app := newApp(t, &stubRepository{payload: tokyo}, brokenStore{storage.NewMemoryStore(l)})

	resp, body := postStore(t, app, `{"latitude": 35.6895, "longitude": 139.6917, "start_date": "2024-01-01", "end_date": "2024-01-07"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var out v1.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Failed to store weather data", out.Error)
}

func TestListWeatherFiles(t *testing.T) {
	l := logger.NewZapLogger("test-app")
	store := storage.NewMemoryStore(l)
	app := newApp(t, &stubRepository{payload: tokyo}, store)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/list-weather-files", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	for _, name := range []string{"b.json", "a.json"} {
		_, err := store.Put(context.Background(), name, []byte(tokyo))
		require.NoError(t, err)
	}

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/list-weather-files", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var files []models.StoredFile
	require.NoError(t, json.Unmarshal(body, &files))
	require.Len(t, files, 2)
	assert.Equal(t, "a.json", files[0].Name)
	assert.Equal(t, "b.json", files[1].Name)
	assert.Equal(t, int64(len(tokyo)), files[0].Size)
}

func TestListWeatherFiles_StorageFailure(t *testing.T) {
	l := logger.NewZapLogger("test-app")
	app := newApp(t, &stubRepository{payload: tokyo}, brokenStore{storage.NewMemoryStore(l)})

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/list-weather-files", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestWeatherFileContent(t *testing.T) {
	l := logger.NewZapLogger("test-app")
	store := storage.NewMemoryStore(l)
	app := newApp(t, &stubRepository{payload: tokyo}, store)

	_, err := store.Put(context.Background(), "tokyo.json", []byte(tokyo))
	require.NoError(t, err)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/weather-file-content/tokyo.json", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, tokyo, string(body), "content is served verbatim")
	assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get(fiber.HeaderContentType))

	etag := resp.Header.Get(fiber.HeaderETag)
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/weather-file-content/tokyo.json", nil)
	req.Header.Set(fiber.HeaderIfNoneMatch, etag)
	resp, _ = do(t, app, req)
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/weather-file-content/tokyo.json", nil)
	req.Header.Set(fiber.HeaderIfNoneMatch, `"0000000000000000"`)
	resp, _ = do(t, app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWeatherFileContent_ETagChangesWithContent(t *testing.T) {
	l := logger.NewZapLogger("test-app")
	store := storage.NewMemoryStore(l)
	app := newApp(t, &stubRepository{payload: tokyo}, store)

	_, err := store.Put(context.Background(), "f.json", []byte(`[]`))
	require.NoError(t, err)
	first, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/weather-file-content/f.json", nil))

	_, err = store.Put(context.Background(), "f.json", []byte(tokyo))
	require.NoError(t, err)
	second, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/weather-file-content/f.json", nil))

	assert.NotEqual(t, first.Header.Get(fiber.HeaderETag), second.Header.Get(fiber.HeaderETag))
}

func TestWeatherFileContent_NotFound(t *testing.T) {
	app := newApp(t, &stubRepository{payload: tokyo}, nil)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/weather-file-content/missing.json", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var out v1.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Contains(t, out.Error, "missing.json")
}

func TestWeatherSeries(t *testing.T) {
	l := logger.NewZapLogger("test-app")
	store := storage.NewMemoryStore(l)
	app := newApp(t, &stubRepository{payload: tokyo}, store)

	_, err := store.Put(context.Background(), "tokyo.json", []byte(tokyo))
	require.NoError(t, err)
	_, err = store.Put(context.Background(), "garbage.json", []byte(`{"hello": "world"}`))
	require.NoError(t, err)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/weather-series/tokyo.json", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{
		"filename": "tokyo.json",
		"shape": "nested-daily",
		"records": [
			{"date": "2024-01-01", "temp_max": 5.1, "temp_min": -1.0, "apparent_max": null, "apparent_min": null},
			{"date": "2024-01-02", "temp_max": 6.2, "temp_min": 0.3, "apparent_max": null, "apparent_min": null}
		]
	}`, string(body))

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/weather-series/garbage.json", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"filename": "garbage.json", "shape": "unrecognized", "records": []}`, string(body))

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/weather-series/missing.json", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWeatherDay(t *testing.T) {
	l := logger.NewZapLogger("test-app")
	store := storage.NewMemoryStore(l)
	app := newApp(t, &stubRepository{payload: tokyo}, store)

	_, err := store.Put(context.Background(), "tokyo.json", []byte(tokyo))
	require.NoError(t, err)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/weather-series/tokyo.json/2024-01-02", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"date": "2024-01-02", "temp_max": 6.2, "temp_min": 0.3, "apparent_max": null, "apparent_min": null}`, string(body))

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/weather-series/tokyo.json/2024-01-09", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/weather-series/tokyo.json/yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSystemEndpoints(t *testing.T) {
	app := newApp(t, &stubRepository{payload: tokyo}, nil)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status": "healthy", "service": "test-app", "version": "1.0.0"}`, string(body))

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status": "ok", "storage_backend": "memory", "repositories": ["stub"]}`, string(body))

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/manage/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/no-such-route", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
