package lumen

import (
	"github.com/rangka/lumen/pkg/config"
	"github.com/rangka/lumen/pkg/httpserver"
	"github.com/rangka/lumen/pkg/redis"
)

// DefaultEnvironment is used when APP_ENV is not set.
const DefaultEnvironment = "production"

// Config is the application configuration read from the environment.
type Config struct {
	Name              string `env:"APP_NAME" envDefault:"lumen"`
	Env               string `env:"APP_ENV" envDefault:"production"`
	Debug             bool   `env:"APP_DEBUG" envDefault:"false"`
	URL               string `env:"APP_URL"`
	Key               string `env:"APP_KEY"`
	DisableMiddleware bool   `env:"APP_MIDDLEWARE_DISABLE" envDefault:"false"`
	RunningUnitTests  bool   `env:"APP_RUNNING_UNIT_TESTS" envDefault:"false"`
	ConfigPath        string `env:"APP_CONFIG_PATH"`

	HTTP  httpserver.Config
	Redis redis.Config
}

// LoadConfig reads Config from the environment and an optional .env file.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
