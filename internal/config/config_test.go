package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("AUTH_CREDENTIALS_SOURCE", "")
	t.Setenv("AUTH_LOGIN_DELAY_MS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, SessionStoreFile, cfg.Session.Store)
	assert.Equal(t, "dashboard_user", cfg.Session.Key)
	assert.Equal(t, CredentialsStatic, cfg.Auth.CredentialsSource)
	assert.Equal(t, time.Second, cfg.Auth.LoginDelay())
	assert.True(t, cfg.Auth.BindToken)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("AUTH_LOGIN_DELAY_MS", "250")
	t.Setenv("AUTH_BIND_TOKEN", "false")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, 250*time.Millisecond, cfg.Auth.LoginDelay())
	assert.False(t, cfg.Auth.BindToken)
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:     AppConfig{Name: "crm-dashboard", Port: "8080"},
			Auth:    AuthConfig{JWTSecret: "s", BcryptCost: 10, CredentialsSource: CredentialsStatic},
			Session: SessionConfig{Store: SessionStoreMemory, Key: "dashboard_user"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown store", mutate: func(c *Config) { c.Session.Store = "cookie" }, wantErr: "Store"},
		{name: "unknown credential source", mutate: func(c *Config) { c.Auth.CredentialsSource = "ldap" }, wantErr: "CredentialsSource"},
		{name: "empty secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: "JWTSecret"},
		{name: "non numeric port", mutate: func(c *Config) { c.App.Port = "http" }, wantErr: "Port"},
		{
			name:    "postgres without dsn",
			mutate:  func(c *Config) { c.Auth.CredentialsSource = CredentialsPostgres },
			wantErr: "POSTGRES_DSN",
		},
		{
			name:    "file store without dir",
			mutate:  func(c *Config) { c.Session.Store = SessionStoreFile },
			wantErr: "SESSION_DIR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequestTimeout_Disabled(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
	assert.Equal(t, time.Duration(0), AppConfig{RequestTimeoutSeconds: -1}.RequestTimeout())
}
