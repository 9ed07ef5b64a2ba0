package config

import (
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
	UIConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetTimezone() *time.Location
}

type mainConfig struct {
	EnvVars
	API
	Session
	UI
}

// New returns the environment backed configuration. A .env file in the working
// directory is loaded first when present; variables already set win.
func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}
