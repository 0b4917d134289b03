package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ConfigFileEnvVar names an optional YAML file read before environment overrides.
const ConfigFileEnvVar = "TASKS_CONFIG"

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	QueryConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAPIPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetAPIEndpoint() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Query
	Storage
}

// New returns a Config read from the environment only
func New() Config {
	return newConfig(newViper())
}

// Load returns a Config read from the YAML file at path (if any) with environment overrides.
// An empty path falls back to the TASKS_CONFIG environment variable.
func Load(path string) (Config, error) {
	v := newViper()
	if path == "" {
		path = v.GetString(ConfigFileEnvVar)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "[config Load] failed to read %s", path)
		}
	}
	return newConfig(v), nil
}

func newConfig(v *viper.Viper) Config {
	return mainConfig{
		EnvVars:  EnvVars{v: v},
		Cors:     Cors{v: v},
		Security: Security{v: v},
		Query:    Query{v: v},
		Storage:  Storage{v: v},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(portEnvVar, "8080")
	v.SetDefault(apiPortEnvVar, "8081")
	v.SetDefault(appNameVar, "Tasks")
	v.SetDefault(envVar, "DEV")
	v.SetDefault(logLevelVar, "info")
	v.SetDefault(apiEndpointVar, "http://localhost:8081/_rpc")
	v.SetDefault(folderEnvVar, "./data")
	v.SetDefault(dbFileVar, "todos.db")
	v.SetDefault(allowedOriginsVar, "http://localhost:5173")
}
