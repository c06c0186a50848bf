package config

import (
	"strconv"
	"time"
)

// SessionConfig describes the client-facing session cookie.
type SessionConfig interface {
	GetSessionCookieName() string
	GetSessionSealKey() string
	GetSessionMaxAge() time.Duration
	GetSecureCookies() bool
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionCookieName() string {
	return GetEnv("SESSION_COOKIE_NAME", "gateway_session")
}

// GetSessionSealKey returns the 32-byte key used to seal the session
// record. Never log or echo this value.
func (Session) GetSessionSealKey() string {
	return GetEnv("SESSION_SEAL_KEY", "")
}

func (Session) GetSessionMaxAge() time.Duration {
	hours, err := strconv.Atoi(GetEnv("SESSION_MAX_AGE_HOURS", "168"))
	if err != nil || hours <= 0 {
		hours = 168 // 7 days
	}
	return time.Duration(hours) * time.Hour
}

func (Session) GetSecureCookies() bool {
	return EnvVars{}.GetEnv() != "DEV"
}
