package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	sessionSecretVar = "SESSION_SECRET"
	sessionMaxAgeVar = "SESSION_MAX_AGE"
	viewerIdleVar    = "VIEWER_IDLE_TIMEOUT"
)

type SecurityConfig interface {
	GetSessionSecret() string
	GetMaxSessionAge() time.Duration
	GetViewerIdleTimeout() time.Duration
	IsProduction() bool
}

type Security struct {
	v *viper.Viper
}

var _ SecurityConfig = Security{}

// GetSessionSecret is the HMAC key for session tokens. Empty means one is generated per process.
func (s Security) GetSessionSecret() string {
	return s.v.GetString(sessionSecretVar)
}

func (s Security) GetMaxSessionAge() time.Duration {
	return durationOr(s.v, sessionMaxAgeVar, 7*24*time.Hour)
}

// GetViewerIdleTimeout is how long an idle browser's front-end state is kept
func (s Security) GetViewerIdleTimeout() time.Duration {
	return durationOr(s.v, viewerIdleVar, 30*time.Minute)
}

func (s Security) IsProduction() bool {
	return EnvVars{v: s.v}.GetEnv() == "PRODUCTION"
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	if d := v.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}
