package config

import (
	"fmt"
	"os"
	"strconv"
)

// Store backends for the remote meal/profile mirror.
const (
	StoreBackendSupabase = "supabase"
	StoreBackendDynamoDB = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Vision model (DashScope multimodal generation)
	DashScopeAPIKey   string
	DashScopeEndpoint string
	VisionModel       string

	// Analysis proxy consumed by on-device clients. Empty means the
	// client calls the vision model directly.
	AnalysisAPIURL string

	// Supabase (managed auth/database/storage)
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string
	StorageBucket     string

	// Remote store selection
	StoreBackend string

	// AWS configuration (dynamodb backend)
	AWSRegion     string
	DynamoDBTable string

	// Local cache snapshot
	CacheFile string

	// Capture
	CaptureDevice string
	PicturesDir   string

	// Logging
	LogLevel string

	// History load bound
	MealHistoryLimit int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":3001"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		DashScopeAPIKey:   getEnv("DASHSCOPE_API_KEY", ""),
		DashScopeEndpoint: getEnv("DASHSCOPE_ENDPOINT", "https://dashscope.aliyuncs.com/api/v1/services/aigc/multimodal-generation/generation"),
		VisionModel:       getEnv("VISION_MODEL", "qwen-vl-plus"),

		AnalysisAPIURL: getEnv("ANALYSIS_API_URL", ""),

		SupabaseURL:       getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:   getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		StorageBucket:     getEnv("STORAGE_BUCKET", "food-images"),

		StoreBackend: getEnv("STORE_BACKEND", StoreBackendSupabase),

		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("DYNAMODB_TABLE", "nutrilens"),

		CacheFile: getEnv("NUTRILENS_CACHE_FILE", ""),

		CaptureDevice: getEnv("CAPTURE_DEVICE", "/dev/video0"),
		PicturesDir:   getEnv("PICTURES_DIR", ""),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MealHistoryLimit: getEnvInt("MEAL_HISTORY_LIMIT", 50),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendSupabase, StoreBackendDynamoDB:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q", StoreBackendSupabase, StoreBackendDynamoDB)
	}

	if c.Environment == "production" {
		if c.DashScopeAPIKey == "" {
			return fmt.Errorf("DASHSCOPE_API_KEY is required in production")
		}
		if c.StoreBackend == StoreBackendSupabase && c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required with the supabase backend")
		}
		if c.StoreBackend == StoreBackendDynamoDB && c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required with the dynamodb backend")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
