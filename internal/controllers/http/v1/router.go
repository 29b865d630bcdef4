package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "weather-explorer/docs"
	"weather-explorer/internal/services/weather"
	"weather-explorer/pkg/logger"
)

// ServiceInfo is reported by the banner and health endpoints.
type ServiceInfo struct {
	Name         string
	Version      string
	Repositories []string
}

type routes struct {
	fetch *weather.FetchService
	query *weather.QueryService
	info  ServiceInfo
	l     *logger.Logger
}

func NewRouter(
	app *fiber.App,
	fetchService *weather.FetchService,
	queryService *weather.QueryService,
	info ServiceInfo,
	l *logger.Logger,
) {
	r := &routes{
		fetch: fetchService,
		query: queryService,
		info:  info,
		l:     l,
	}

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	app.Get("/", r.handleRoot)
	app.Get("/health", r.handleHealth)

	// API routes
	app.Post("/store-weather-data", r.handleStoreWeatherData)
	app.Get("/list-weather-files", r.handleListWeatherFiles)
	app.Get("/weather-file-content/:name", r.handleWeatherFileContent)
	app.Get("/weather-series/:name", r.handleWeatherSeries)
	app.Get("/weather-series/:name/:date", r.handleWeatherDay)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "Endpoint not found: " + c.Path(),
		})
	})
}
