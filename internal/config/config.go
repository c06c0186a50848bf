package config

type Config interface {
	EnvConfig
	IdentityConfig
	TokenConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Identity
	Token
	Session
}

func New() Config {
	return mainConfig{}
}
