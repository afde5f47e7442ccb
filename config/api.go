package config

import (
	"time"

	"github.com/spf13/viper"
)

// API holds the backend client settings
type API struct {
	BaseURL string
	Timeout time.Duration
	Breaker *Breaker
}

// Breaker holds circuit breaker settings for backend calls
type Breaker struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
}

func getAPIConfig(v *viper.Viper) *API {
	return &API{
		BaseURL: v.GetString("api.base_url"),
		Timeout: v.GetDuration("api.timeout"),
		Breaker: &Breaker{
			MaxRequests:      lookup(v, "api.breaker.max_requests", uint32(1), v.GetUint32),
			Interval:         lookup(v, "api.breaker.interval", 5*time.Second, v.GetDuration),
			Timeout:          lookup(v, "api.breaker.timeout", 3*time.Second, v.GetDuration),
			MinRequests:      lookup(v, "api.breaker.min_requests", uint32(3), v.GetUint32),
			FailureThreshold: lookup(v, "api.breaker.failure_threshold", 0.6, v.GetFloat64),
		},
	}
}
