package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-explorer/config"
	v1 "weather-explorer/internal/controllers/http/v1"
	"weather-explorer/internal/repositories"
	"weather-explorer/internal/services/weather"
	"weather-explorer/internal/storage"
	"weather-explorer/pkg/httpserver"
	"weather-explorer/pkg/logger"
	"weather-explorer/pkg/observe"
)

// @title Weather Explorer API
// @version 1.0.0
// @description Fetches historical daily weather observations, stores them verbatim and serves them back as normalized series.

// @contact.name Weather Explorer Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Weather
// @tag.description Fetch, store and read weather payloads
// @tag.name System
// @tag.description Banner and health
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cnf, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load configuration: %v\n", err)
		os.Exit(1)
	}

	writers := []io.Writer{os.Stdout}

	var hook *observe.SentryHook
	if cnf.Sentry.DSN != "" {
		hook, err = observe.NewSentryHook(cnf.App.Env, cnf.App.Name, cnf.Sentry.Debug, cnf.Sentry.DSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sentry disabled: %v\n", err)
		} else {
			writers = append(writers, hook)
		}
	}

	l := logger.NewZapLoggerWithOptions(cnf.App.Name, logger.Options{
		AppEnv: cnf.App.Env,
		Level:  cnf.Log.Level,
		Format: cnf.Log.Format,
	}, writers...)

	if hook != nil {
		hook.SetLogger(l)
		if cnf.Log.Format == logger.FormatConsole {
			l.Warning("sentry receives json log lines only, console output is not reported", map[string]any{"format": cnf.Log.Format})
		}
	}

	store, err := storage.New(storage.Options{
		Backend: cnf.Storage.Backend,
		Dir:     cnf.Storage.Dir,
	}, l)
	if err != nil {
		l.Fatal("cannot open weather store", map[string]any{"err": err.Error()})
	}

	repos := repositories.InitWeatherRepositories(cnf, l)
	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		names = append(names, repo.Name())
	}

	fetchService := weather.NewFetchService(repos, store, l)
	queryService := weather.NewQueryService(store, l)

	app := httpserver.InitFiberServer(httpserver.Options{
		AppName:        cnf.App.Name,
		ReadTimeout:    cnf.Server.ReadTimeout,
		WriteTimeout:   cnf.Server.WriteTimeout,
		IdleTimeout:    cnf.Server.IdleTimeout,
		AllowedOrigins: cnf.Server.AllowedOrigins,
		AccessLog:      true,
	})

	v1.NewRouter(
		app,
		fetchService,
		queryService,
		v1.ServiceInfo{
			Name:         cnf.App.Name,
			Version:      cnf.App.Version,
			Repositories: names,
		},
		l,
	)

	go func() {
		if err := app.Listen(":" + cnf.Server.Port); err != nil {
			l.Error(err, map[string]any{"port": cnf.Server.Port})
			cancel()
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":    cnf.Server.Port,
		"env":     cnf.App.Env,
		"storage": store.Backend(),
		"sources": names,
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		if hook != nil {
			hook.Flush()
		}
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
