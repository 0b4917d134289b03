package config

import (
	"time"

	"github.com/spf13/viper"
)

type QueryConfig interface {
	GetListRetry() int
	GetTaskRetry() int
	GetRetryDelay() time.Duration
}

type Query struct {
	v *viper.Viper
}

var _ QueryConfig = Query{}

// GetListRetry is the retry count of the task list query
func (q Query) GetListRetry() int {
	return intOr(q.v, "QUERY_LIST_RETRY", 3)
}

// GetTaskRetry is the retry count of the single task query
func (q Query) GetTaskRetry() int {
	return intOr(q.v, "QUERY_TASK_RETRY", 2)
}

// GetRetryDelay is the base of the exponential retry delay
func (q Query) GetRetryDelay() time.Duration {
	return durationOr(q.v, "QUERY_RETRY_DELAY", time.Second)
}

func intOr(v *viper.Viper, key string, fallback int) int {
	if !v.IsSet(key) {
		return fallback
	}
	return v.GetInt(key)
}
