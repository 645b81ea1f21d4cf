package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

// clearEnv unsets every variable Load reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORAGE_DRIVER", "SQLITE_PATH",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"BOT_TOKEN", "BOT_PASSWORD",
		"GEMINI_API_KEY", "GEMINI_MODEL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "flashdeck.db", cfg.SQLitePath)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "flashdeck", cfg.Database.Name)
	assert.Equal(t, "flashdeck", cfg.Database.User)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.GeminiModel)
}

func TestLoad_Drivers(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectedErr string
	}{
		{
			name: "memory",
			env:  map[string]string{"STORAGE_DRIVER": "memory"},
		},
		{
			name: "driver is case insensitive",
			env:  map[string]string{"STORAGE_DRIVER": "SQLite"},
		},
		{
			name: "postgres with password",
			env:  map[string]string{"STORAGE_DRIVER": "postgres", "DB_PASSWORD": "secret"},
		},
		{
			name:        "postgres without password",
			env:         map[string]string{"STORAGE_DRIVER": "postgres"},
			expectedErr: "DB_PASSWORD",
		},
		{
			name:        "unknown driver",
			env:         map[string]string{"STORAGE_DRIVER": "mongo"},
			expectedErr: "STORAGE_DRIVER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.expectedErr != "" {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				assert.Contains(t, err.Error(), tt.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, cfg)
		})
	}
}

func TestConfig_RequireBot(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectedErr string
	}{
		{name: "both set", cfg: Config{BotToken: "token", BotPassword: "pass"}},
		{name: "missing token", cfg: Config{BotPassword: "pass"}, expectedErr: "BOT_TOKEN"},
		{name: "missing password", cfg: Config{BotToken: "token"}, expectedErr: "BOT_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.RequireBot()
			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.expectedErr)
		})
	}
}
