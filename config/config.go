package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config/config.yaml"
	DefaultEnvFile    = ".env"

	EnvDevelopment = "development"
	EnvProduction  = "production"

	StorageBackendFile   = "file"
	StorageBackendMemory = "memory"

	APIOpenMeteoArchive  = "open-meteo-archive"
	APIOpenMeteoForecast = "open-meteo"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Weather WeatherConfig `yaml:"weather"`
	Sentry  SentryConfig  `yaml:"sentry"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"APP_NAME"`
	Version string `yaml:"version" envconfig:"APP_VERSION"`
	Env     string `yaml:"env" envconfig:"APP_ENV"`
}

// ServerConfig timeouts are in seconds.
type ServerConfig struct {
	Port           string `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout    int    `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout   int    `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout    int    `yaml:"idle_timeout" envconfig:"SERVER_IDLE_TIMEOUT"`
	AllowedOrigins string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" envconfig:"STORAGE_BACKEND"`
	Dir     string `yaml:"dir" envconfig:"STORAGE_DIR"`
}

type WeatherConfig struct {
	APIs []WeatherAPIConfig `yaml:"apis" ignored:"true"`
}

// WeatherAPIConfig describes one upstream source. Timeout and BreakerTimeout are in seconds.
type WeatherAPIConfig struct {
	Name           string `yaml:"name"`
	BaseURL        string `yaml:"base_url,omitempty"`
	Timeout        int    `yaml:"timeout"`
	MaxFailures    uint32 `yaml:"max_failures,omitempty"`
	BreakerTimeout int    `yaml:"breaker_timeout,omitempty"`
}

type SentryConfig struct {
	DSN   string `yaml:"dsn" envconfig:"SENTRY_DSN"`
	Debug bool   `yaml:"debug" envconfig:"SENTRY_DEBUG"`
}

// ConfigProvider loads and validates a Config.
type ConfigProvider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

// FileConfigProvider layers defaults, an optional .env file, an optional YAML file
// and the process environment, later sources winning.
type FileConfigProvider struct {
	path    string
	envFile string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{
		path:    path,
		envFile: DefaultEnvFile,
	}
}

func NewConfig() (*Config, error) {
	return NewConfigWithProvider(NewFileConfigProvider(DefaultConfigPath))
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	cnf, err := provider.Load()
	if err != nil {
		return nil, err
	}

	if err := provider.Validate(cnf); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cnf, nil
}

func (p *FileConfigProvider) Load() (*Config, error) {
	cnf := defaults()

	// .env only seeds variables that are not already set
	if err := godotenv.Load(p.envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading %s: %w", p.envFile, err)
	}

	if err := p.loadFromFile(cnf); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	if len(cnf.Weather.APIs) == 0 {
		cnf.Weather.APIs = []WeatherAPIConfig{{Name: APIOpenMeteoArchive, Timeout: 30}}
	}

	return cnf, nil
}

func (p *FileConfigProvider) loadFromFile(config *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}

	if err := yaml.Unmarshal(yamlData, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return nil
}

func (p *FileConfigProvider) Validate(config *Config) error {
	var problems []string

	if config.App.Name == "" {
		problems = append(problems, "app.name is required")
	}
	if config.Server.Port == "" {
		problems = append(problems, "server.port is required")
	}
	if config.Server.ReadTimeout < 0 || config.Server.WriteTimeout < 0 || config.Server.IdleTimeout < 0 {
		problems = append(problems, "server timeouts must not be negative")
	}

	switch config.Log.Format {
	case "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("log.format must be json or console, got %q", config.Log.Format))
	}

	switch config.Storage.Backend {
	case StorageBackendFile:
		if config.Storage.Dir == "" {
			problems = append(problems, "storage.dir is required for the file backend")
		}
	case StorageBackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("storage.backend must be file or memory, got %q", config.Storage.Backend))
	}

	for i, api := range config.Weather.APIs {
		switch api.Name {
		case APIOpenMeteoArchive, APIOpenMeteoForecast:
		default:
			problems = append(problems, fmt.Sprintf("weather.apis[%d].name %q is not supported", i, api.Name))
		}
		if api.Timeout <= 0 {
			problems = append(problems, fmt.Sprintf("weather.apis[%d].timeout must be positive", i))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}

	return nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:    "weather-explorer",
			Version: "1.0.0",
			Env:     EnvDevelopment,
		},
		Server: ServerConfig{
			Port:           "8080",
			ReadTimeout:    10,
			WriteTimeout:   10,
			IdleTimeout:    120,
			AllowedOrigins: "*",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Storage: StorageConfig{
			Backend: StorageBackendFile,
			Dir:     "data",
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

func (c *Config) GetWeatherAPIByName(name string) (*WeatherAPIConfig, bool) {
	for i := range c.Weather.APIs {
		if c.Weather.APIs[i].Name == name {
			return &c.Weather.APIs[i], true
		}
	}
	return nil, false
}

func (c *Config) GetWeatherAPIs() []WeatherAPIConfig {
	return c.Weather.APIs
}
