package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel      string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort      string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	WebSocketPort string `yaml:"websocket-port" env:"WEBSOCKET_PORT"`
	Game          Game   `yaml:"game"`
	Redis         Redis  `yaml:"redis"`
	Status        Status `yaml:"status"`
}

type Game struct {
	Port           string `yaml:"port" env:"GAME_PORT" env-default:"8888"`
	MaxRooms       int    `yaml:"max-rooms" env:"GAME_MAX_ROOMS" env-default:"0"`
	OutboundQueue  int    `yaml:"outbound-queue" env:"GAME_OUTBOUND_QUEUE" env-default:"64"`
	MaxMessageSize int    `yaml:"max-message-size" env:"GAME_MAX_MESSAGE_SIZE" env-default:"1024"`
}

type Redis struct {
	Enabled       bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host          string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port          string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	StatusChannel string `yaml:"status-channel" env:"REDIS_STATUS_CHANNEL" env-default:"caro:status"`
}

type Status struct {
	QueueSize int `yaml:"queue-size" env:"STATUS_QUEUE_SIZE" env-default:"256"`
}

// Load - reads the YAML file at path with environment overrides. A missing file means environment and defaults only.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to load config from environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
