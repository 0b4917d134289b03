package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	portEnvVar     = "PORT"
	apiPortEnvVar  = "API_PORT"
	appNameVar     = "APP_NAME"
	envVar         = "ENV"
	logLevelVar    = "LOG_LEVEL"
	apiEndpointVar = "API_ENDPOINT"
)

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

// GetPort is the listen address of the web front end
func (e EnvVars) GetPort() string {
	return listenAddr(e.v.GetString(portEnvVar))
}

// GetAPIPort is the listen address of the RPC backend
func (e EnvVars) GetAPIPort() string {
	return listenAddr(e.v.GetString(apiPortEnvVar))
}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(appNameVar)
}

func (e EnvVars) GetEnv() string {
	env := e.v.GetString(envVar)
	if env == "" {
		return "DEV"
	}
	return strings.ToUpper(env)
}

func (e EnvVars) GetLogLevel() string {
	return e.v.GetString(logLevelVar)
}

// GetAPIEndpoint is the base endpoint the Remote Data Client posts procedures to
func (e EnvVars) GetAPIEndpoint() string {
	return strings.TrimRight(e.v.GetString(apiEndpointVar), "/")
}

func listenAddr(port string) string {
	if port != "" && port[0] != ':' && !strings.Contains(port, ":") {
		port = ":" + port
	}
	return port
}
