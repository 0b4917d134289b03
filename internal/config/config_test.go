package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-tasks/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := config.New()

	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, ":8081", c.GetAPIPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "http://localhost:8081/_rpc", c.GetAPIEndpoint())
	require.Equal(t, filepath.Join("data", "todos.db"), c.GetDBPath())
	require.Equal(t, 3, c.GetListRetry())
	require.Equal(t, 2, c.GetTaskRetry())
	require.Equal(t, 7*24*time.Hour, c.GetMaxSessionAge())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("http://localhost:5173"))
	require.False(t, c.IsProduction())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("API_ENDPOINT", "https://api.example.com/_rpc/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("ENV", "production")
	t.Setenv("QUERY_LIST_RETRY", "0")

	c := config.New()

	require.Equal(t, ":9000", c.GetPort())
	require.Equal(t, "https://api.example.com/_rpc", c.GetAPIEndpoint())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("https://b.example.com"))
	require.True(t, c.IsProduction())
	require.Equal(t, 0, c.GetListRetry())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("APP_NAME: Chores\nDB_FILE: /var/lib/tasks.db\nSESSION_MAX_AGE: 1h\n"), 0o600))

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "Chores", c.GetAppName())
	require.Equal(t, "/var/lib/tasks.db", c.GetDBPath())
	require.Equal(t, time.Hour, c.GetMaxSessionAge())

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
