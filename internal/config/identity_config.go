package config

import (
	"strconv"
	"time"
)

// IdentityConfig describes how to reach the remote identity API that
// verifies credentials and issues tokens.
type IdentityConfig interface {
	GetIdentityBaseURL() string
	GetIdentityTimeout() time.Duration
}

type Identity struct{}

var _ IdentityConfig = Identity{}

// GetIdentityBaseURL returns the base URL of the identity API
// (e.g., "https://id.example.com/api/v1/public")
func (Identity) GetIdentityBaseURL() string {
	return GetEnv("IDENTITY_API_URL", "http://localhost:8080/api/v1/public")
}

// GetIdentityTimeout bounds the single blocking point of an authentication
// attempt: the HTTP call to the identity API.
func (Identity) GetIdentityTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv("IDENTITY_TIMEOUT_SECONDS", "10"))
	if err != nil || seconds <= 0 {
		seconds = 10
	}
	return time.Duration(seconds) * time.Second
}
