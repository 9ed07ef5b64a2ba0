package config

import "time"

type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
	GetBotBypassHeader() string
}

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the challenge API origin, e.g. "https://api.example.com"
func (API) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", "http://localhost:8080")
}

func (API) GetAPITimeout() time.Duration {
	return GetDuration("API_TIMEOUT", 10*time.Second)
}

// GetBotBypassHeader returns the header sent on every request so tunnelling proxies
// skip their interstitial page. An empty value disables it.
func (API) GetBotBypassHeader() string {
	return GetEnv("BOT_BYPASS_HEADER", "ngrok-skip-browser-warning")
}
