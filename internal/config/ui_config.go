package config

import "time"

type UIConfig interface {
	GetLocale() string
	GetToastDuration() time.Duration
	GetTopUpRoute() string
}

type UI struct{}

var _ UIConfig = UI{}

func (UI) GetLocale() string {
	return GetEnv("LOCALE", "ko")
}

func (UI) GetToastDuration() time.Duration {
	return GetDuration("TOAST_DURATION", 3*time.Second)
}

func (UI) GetTopUpRoute() string {
	return GetEnv("TOPUP_ROUTE", "/ordersheet")
}
