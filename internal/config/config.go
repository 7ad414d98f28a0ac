// Package config provides configuration for the webhook bridge.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Session store backends selectable via SESSION_BACKEND.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds the bridge configuration.
type Config struct {
	// Server settings
	HTTPPort  int
	ServerURL string

	// Messenger platform
	AppSecret       string
	ValidationToken string
	PageAccessToken string
	SendAPIURL      string

	// Dialog engine (Watson Assistant v1)
	WatsonURL       string
	WatsonUsername  string
	WatsonPassword  string
	WatsonWorkspace string
	WatsonVersion   string

	// Session store
	SessionBackend string
	RedisHost      string
	RedisPort      int
	SQLiteDSN      string

	// Outbound call behavior
	DialogTimeout time.Duration
	SendTimeout   time.Duration
	MaxRetries    int

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		HTTPPort:  getEnvInt("HTTP_PORT", 5000),
		ServerURL: getEnv("SERVER_URL", "http://localhost:5000"),

		AppSecret:       getEnv("MESSENGER_APP_SECRET", ""),
		ValidationToken: getEnv("MESSENGER_VALIDATION_TOKEN", ""),
		PageAccessToken: getEnv("MESSENGER_PAGE_ACCESS_TOKEN", ""),
		SendAPIURL:      getEnv("SEND_API_URL", "https://graph.facebook.com/v2.6"),

		WatsonURL:       getEnv("WATSON_URL", "https://gateway.watsonplatform.net/assistant/api"),
		WatsonUsername:  getEnv("WATSON_USERNAME", ""),
		WatsonPassword:  getEnv("WATSON_PASSWORD", ""),
		WatsonWorkspace: getEnv("WATSON_WORKSPACE", ""),
		WatsonVersion:   getEnv("WATSON_VERSION", "2018-02-16"),

		SessionBackend: getEnv("SESSION_BACKEND", BackendRedis),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnvInt("REDIS_PORT", 6379),
		SQLiteDSN:      getEnv("SQLITE_DSN", "file:sessions.db?cache=shared&mode=rwc"),

		DialogTimeout: time.Duration(getEnvInt("DIALOG_TIMEOUT_MS", 15000)) * time.Millisecond,
		SendTimeout:   time.Duration(getEnvInt("SEND_TIMEOUT_MS", 10000)) * time.Millisecond,
		MaxRetries:    getEnvInt("MAX_RETRIES", 3),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the credentials the bridge cannot run without. The
// process must refuse to start when any of them is missing.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"MESSENGER_APP_SECRET", c.AppSecret},
		{"MESSENGER_VALIDATION_TOKEN", c.ValidationToken},
		{"MESSENGER_PAGE_ACCESS_TOKEN", c.PageAccessToken},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required environment variable %s", r.name)
		}
	}
	return nil
}

// RedisAddr returns the host:port address of the session cache.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
