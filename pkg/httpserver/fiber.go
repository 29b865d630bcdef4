package httpserver

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Options configure the HTTP server. Timeouts are in seconds; zero means none.
type Options struct {
	AppName        string
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
	AllowedOrigins string
	// AccessLog disables the request logger when false.
	AccessLog bool
}

func InitFiberServer(opts Options) *fiber.App {
	s := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  seconds(opts.ReadTimeout),
		WriteTimeout: seconds(opts.WriteTimeout),
		IdleTimeout:  seconds(opts.IdleTimeout),
	})

	s.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	s.Use(requestid.New())
	if opts.AccessLog {
		s.Use(fiberlogger.New(fiberlogger.Config{
			Format:     "${time} ${pid} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: time.RFC3339,
		}))
	}
	s.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(opts.AllowedOrigins),
		AllowMethods: "GET,POST,HEAD,OPTIONS",
	}))
	s.Use(healthcheck.New(healthcheck.Config{
		LivenessEndpoint:  "/manage/health",
		ReadinessEndpoint: "/manage/ready",
	}))

	return s
}

func allowOrigins(origins string) string {
	if origins == "" {
		return "*"
	}
	return origins
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
