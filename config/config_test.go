package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		DatabaseURL:    "postgres://localhost/gee_graphics_test",
		Port:           "8080",
		GoEnv:          "test",
		StorageBackend: StorageBackendDatabase,
		LocalStorePath: "./data",
		JWTSecret:      "test-secret",
		JWTIssuer:      "gee-graphics-api",
		JWTAudience:    "gee-graphics-dashboard",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "Valid database config",
			mutate: func(c *Config) {},
		},
		{
			name: "Valid local config without database URL",
			mutate: func(c *Config) {
				c.StorageBackend = StorageBackendLocal
				c.DatabaseURL = ""
			},
		},
		{
			name:    "Missing JWT secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: true,
		},
		{
			name: "Database backend without URL",
			mutate: func(c *Config) {
				c.DatabaseURL = ""
			},
			wantErr: true,
		},
		{
			name: "Local backend without path",
			mutate: func(c *Config) {
				c.StorageBackend = StorageBackendLocal
				c.LocalStorePath = ""
			},
			wantErr: true,
		},
		{
			name:    "Unknown backend",
			mutate:  func(c *Config) { c.StorageBackend = "s3" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("STORAGE_BACKEND", StorageBackendLocal)
	t.Setenv("LOCAL_STORE_PATH", t.TempDir())
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageBackendLocal, cfg.StorageBackend)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.IsProduction())

	// Load also publishes the global instance
	assert.Same(t, cfg, GetConfig())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("STORAGE_BACKEND", StorageBackendLocal)
	t.Setenv("LOCAL_STORE_PATH", t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_AUDIENCE", "")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gee-graphics-api", cfg.JWTIssuer)
	assert.Equal(t, "gee-graphics-dashboard", cfg.JWTAudience)
}
