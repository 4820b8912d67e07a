package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar             = "PORT"
	appNameVar             = "APP_NAME"
	envVar                 = "ENV"
	baseURLVar             = "BASE_URL"
	logLevelVar            = "LOG_LEVEL"
	userServiceURLVar      = "USER_SERVICE_URL"
	surveyServiceURLVar    = "SURVEY_SERVICE_URL"
	upstreamTimeoutVar     = "UPSTREAM_TIMEOUT"
	defaultUpstreamTimeout = 10 * time.Second
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Survey Gateway")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envVar, "production")
}

// IsDevelopment reports whether ENV names a development environment.
// Session cookies drop the Secure flag only in development, so an unset ENV is not one.
func (e EnvVars) IsDevelopment() bool {
	switch strings.ToLower(e.GetEnv()) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// GetBaseURL returns the public URL of the gateway (e.g., "https://surveys.example.com").
// Provider redirect URIs are derived from it.
func (EnvVars) GetBaseURL() string {
	return strings.TrimSuffix(GetEnv(baseURLVar, "http://localhost:8080"), "/")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetUserServiceURL() string {
	return strings.TrimSuffix(GetEnv(userServiceURLVar, "http://user-service:8080"), "/")
}

func (EnvVars) GetSurveyServiceURL() string {
	return strings.TrimSuffix(GetEnv(surveyServiceURLVar, "http://survey-service:8080"), "/")
}

// GetUpstreamTimeout bounds every call to a backend service
func (EnvVars) GetUpstreamTimeout() time.Duration {
	return GetDuration(upstreamTimeoutVar, defaultUpstreamTimeout)
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDuration parses a Go duration ("15s") or a whole number of seconds; anything else
// yields the default.
func GetDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
