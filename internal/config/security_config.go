package config

import "time"

// sessionMaxAge is the fixed lifetime of the session cookie
const sessionMaxAge = 24 * time.Hour

type SecurityConfig interface {
	GetSessionCookieName() string
	GetMaxSessionAge() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSessionCookieName() string {
	return "auth_token"
}

func (Security) GetMaxSessionAge() time.Duration {
	return sessionMaxAge
}
