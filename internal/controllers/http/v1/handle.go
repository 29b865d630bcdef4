package http

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"weather-explorer/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// StoreWeatherRequest is the body of POST /store-weather-data
type StoreWeatherRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required" example:"35.6895"`
	Longitude *float64 `json:"longitude" validate:"required" example:"139.6917"`
	StartDate string   `json:"start_date" validate:"required" example:"2024-01-01"`
	EndDate   string   `json:"end_date" validate:"required" example:"2024-01-07"`
}

// StoreWeatherResponse reports a stored payload
type StoreWeatherResponse struct {
	Success      bool      `json:"success" example:"true"`
	Message      string    `json:"message" example:"Weather data successfully stored"`
	Filename     string    `json:"filename" example:"weather_35_6895_139_6917_20240101_20240107.json"`
	Size         int64     `json:"size" example:"1024"`
	LastModified time.Time `json:"last_modified"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"latitude must be between -90 and 90"`
}

// StatusResponse is returned by the banner endpoint
type StatusResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"weather-explorer"`
	Version string `json:"version" example:"1.0.0"`
}

// HealthResponse describes the running backends
type HealthResponse struct {
	Status         string   `json:"status" example:"ok"`
	StorageBackend string   `json:"storage_backend" example:"file"`
	Repositories   []string `json:"repositories"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as an ErrorResponse. Client errors carry their message, server
// errors are logged and answered with summary.
func (r *routes) fail(c *fiber.Ctx, err error, summary string) error {
	code := statusFor(err)
	if code < fiber.StatusInternalServerError {
		return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
	}

	r.l.Error(err, map[string]any{
		"path":   c.Path(),
		"status": code,
	})

	return c.Status(code).JSON(ErrorResponse{Error: summary})
}

// handleRoot godoc
// @Summary Service banner
// @Tags System
// @Produce json
// @Success 200 {object} StatusResponse
// @Router / [get]
func (r *routes) handleRoot(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		Status:  "healthy",
		Service: r.info.Name,
		Version: r.info.Version,
	})
}

// handleHealth godoc
// @Summary Detailed health check
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (r *routes) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:         "ok",
		StorageBackend: r.query.Backend(),
		Repositories:   r.info.Repositories,
	})
}

// handleStoreWeatherData godoc
// @Summary Fetch and store historical weather data
// @Description Fetches daily observations for a location and date range and stores the payload verbatim
// @Tags Weather
// @Accept json
// @Produce json
// @Param request body StoreWeatherRequest true "Location and date range (at most 31 days)"
// @Success 200 {object} StoreWeatherResponse
// @Failure 400 {object} ErrorResponse "Invalid coordinates or dates"
// @Failure 502 {object} ErrorResponse "Weather source unavailable"
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Router /store-weather-data [post]
func (r *routes) handleStoreWeatherData(c *fiber.Ctx) error {
	var req StoreWeatherRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body: expected JSON object",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: describeRequest(err),
		})
	}

	q, err := models.ParseGeoQuery(*req.Latitude, *req.Longitude, req.StartDate, req.EndDate)
	if err != nil {
		return r.fail(c, err, "Failed to store weather data")
	}

	file, err := r.fetch.FetchAndStore(c.UserContext(), q)
	if err != nil {
		if errors.Is(err, models.ErrUpstream) {
			return r.fail(c, err, "Failed to fetch weather data")
		}
		return r.fail(c, err, "Failed to store weather data")
	}

	return c.JSON(StoreWeatherResponse{
		Success:      true,
		Message:      "Weather data successfully stored",
		Filename:     file.Name,
		Size:         file.Size,
		LastModified: file.LastModified,
	})
}

// handleListWeatherFiles godoc
// @Summary List stored weather files
// @Tags Weather
// @Produce json
// @Success 200 {array} models.StoredFile
// @Failure 500 {object} ErrorResponse
// @Router /list-weather-files [get]
func (r *routes) handleListWeatherFiles(c *fiber.Ctx) error {
	files, err := r.query.ListFiles(c.UserContext())
	if err != nil {
		return r.fail(c, err, "Failed to list weather files")
	}

	return c.JSON(files)
}

// handleWeatherFileContent godoc
// @Summary Get a stored weather file
// @Description Returns the stored payload exactly as received from the weather source
// @Tags Weather
// @Produce json
// @Param name path string true "Stored file name"
// @Param If-None-Match header string false "ETag from a previous response"
// @Success 200 {object} object
// @Success 304 "Not modified"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /weather-file-content/{name} [get]
func (r *routes) handleWeatherFileContent(c *fiber.Ctx) error {
	name, err := pathName(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	raw, err := r.query.Content(c.UserContext(), name)
	if err != nil {
		return r.fail(c, err, "Failed to retrieve file content")
	}

	etag := contentETag(raw)
	c.Set(fiber.HeaderETag, etag)

	if etagMatches(c.Get(fiber.HeaderIfNoneMatch), etag) {
		return c.SendStatus(fiber.StatusNotModified)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}

// handleWeatherSeries godoc
// @Summary Get a stored weather file as a daily series
// @Description Normalizes the stored payload. Unreadable payloads give an empty series with shape "unrecognized"
// @Tags Weather
// @Produce json
// @Param name path string true "Stored file name"
// @Success 200 {object} weather.SeriesView
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /weather-series/{name} [get]
func (r *routes) handleWeatherSeries(c *fiber.Ctx) error {
	name, err := pathName(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	view, err := r.query.Inspect(c.UserContext(), name)
	if err != nil {
		return r.fail(c, err, "Failed to read weather series")
	}

	return c.JSON(view)
}

// handleWeatherDay godoc
// @Summary Get a single day from a stored weather file
// @Tags Weather
// @Produce json
// @Param name path string true "Stored file name"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} models.WeatherData
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /weather-series/{name}/{date} [get]
func (r *routes) handleWeatherDay(c *fiber.Ctx) error {
	name, err := pathName(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	date := c.Params("date")
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: fmt.Sprintf("date must be in ISO format (YYYY-MM-DD), got: %q", date),
		})
	}

	day, err := r.query.Day(c.UserContext(), name, date)
	if err != nil {
		return r.fail(c, err, "Failed to read weather series")
	}

	return c.JSON(day)
}

func pathName(c *fiber.Ctx) (string, error) {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return "", fmt.Errorf("invalid file name %q", c.Params("name"))
	}
	return name, nil
}

func contentETag(raw []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(raw))
}

// etagMatches reports whether an If-None-Match header covers etag.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func describeRequest(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}

	return "Missing required parameter: " + strings.Join(fields, ", ")
}
