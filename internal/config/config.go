package config

import "time"

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsDevelopment() bool
	GetBaseURL() string
	GetLogLevel() string
	GetUserServiceURL() string
	GetSurveyServiceURL() string
	GetUpstreamTimeout() time.Duration
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
	Security
}

func New() Config {
	return mainConfig{}
}
