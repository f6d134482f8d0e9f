package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is a stand-in for t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // no config.toml present

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "stockwatch-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "http://localhost:3001", cfg.ProductAPI.BaseURL)
	assert.Equal(t, 10, cfg.ProductAPI.TimeoutSeconds)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Audit.Enabled)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STOCKWATCH_PRODUCT_API_BASE_URL", "http://products.internal:9000")
	t.Setenv("STOCKWATCH_APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://products.internal:9000", cfg.ProductAPI.BaseURL)
	assert.Equal(t, "9090", cfg.App.Port)
}

func TestValidate_RejectsBadDriver(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.Driver = "mysql"

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
}

func TestValidate_RejectsNonPositiveTimeout(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.ProductAPI.TimeoutSeconds = -1

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout_seconds")
}

func TestValidate_ProductionHardening(t *testing.T) {
	t.Run("postgres requires password", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.Database.Driver = "postgres"

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password")
	})

	t.Run("wildcard CORS rejected", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})
}

func TestDSN_EscapesCredentials(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "stockwatch",
		Password: "p@ss w0rd",
		DBName:   "stockwatch",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "p%40ss%20w0rd")
	assert.Contains(t, dsn, "sslmode=require")
}
