package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Clinic identity used in generated messages.
	ClinicName string

	// Gemini configuration. An empty API key selects the offline
	// deterministic client, which is a supported operating mode.
	GeminiAPIKey  string
	GeminiModelID string
	LLMTimeout    time.Duration

	// Seed for the offline scorer/importer jitter. Zero means seed
	// from the clock at startup.
	OfflineSeed int64

	CORSAllowedOrigins []string

	// Per-IP request rate limiting. Zero disables it.
	RateLimitRPS   int
	RateLimitBurst int

	// Demo data loaded at startup so the API is drivable out of the box.
	SeedDemoData bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", ""),
		ClinicName:         getEnv("CLINIC_NAME", "SlimFit"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:      getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		LLMTimeout:         getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		OfflineSeed:        int64(getEnvAsInt("OFFLINE_SEED", 0)),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		RateLimitRPS:       getEnvAsInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
		SeedDemoData:       getEnvAsBool("SEED_DEMO_DATA", true),
	}
}

// OfflineMode reports whether the AI collaborator should run without
// external connectivity.
func (c *Config) OfflineMode() bool {
	return strings.TrimSpace(c.GeminiAPIKey) == ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
