package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
jwt:
  secret: file-secret
distance:
  provider: greatcircle
  concurrency: 8
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, DistanceProviderGreatCircle, cfg.Distance.Provider)
	assert.Equal(t, 8, cfg.Distance.Concurrency)
	// untouched sections keep their defaults
	assert.Equal(t, 25, cfg.Distance.BatchSize)
	assert.Equal(t, "volunteerhub", cfg.Database.DBName)
	assert.Equal(t, ImageDriverLocal, cfg.Images.Driver)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, "jwt:\n  secret: file-secret\n")

	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing secret", "server:\n  port: \"8080\"\n"},
		{"bad provider", "jwt:\n  secret: s\ndistance:\n  provider: bing\n"},
		{"batch too large", "jwt:\n  secret: s\ndistance:\n  batch_size: 100\n"},
		{"bad timeout", "jwt:\n  secret: s\ndistance:\n  timeout: soon\n"},
		{"cloudinary without creds", "jwt:\n  secret: s\nimages:\n  driver: cloudinary\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDistanceProvider_FallsBackWithoutKey(t *testing.T) {
	cfg := &Config{}
	cfg.Distance.Provider = DistanceProviderGoogle
	assert.Equal(t, DistanceProviderGreatCircle, cfg.DistanceProvider())

	cfg.Distance.GoogleMapsAPIKey = "key"
	assert.Equal(t, DistanceProviderGoogle, cfg.DistanceProvider())
}

func TestApplyEnv_TypesAndErrors(t *testing.T) {
	env := map[string]string{
		"SERVER_PORT":          "7000",
		"DISTANCE_CONCURRENCY": " 6 ",
		"REDIS_ENABLED":        "1",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := &Config{}
	require.NoError(t, applyEnv(cfg, lookup))
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, 6, cfg.Distance.Concurrency)
	assert.True(t, cfg.Redis.Enabled)
	assert.Empty(t, cfg.Database.Host)

	env["REDIS_DB"] = "zero"
	err := applyEnv(cfg, lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")

	assert.Error(t, applyEnv("not a struct", lookup))
}
