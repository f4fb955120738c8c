package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Database
	DBDriver   string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Market data backend
	MarketAPIURL    string
	MarketTimeout   time.Duration
	MarketRateLimit float64
	MarketRateBurst int
	RedisURL        string
	QuoteCacheTTL   time.Duration
	RefreshInterval time.Duration
	RefreshAlways   bool

	// History retention
	HistoryMaxPoints int
	DailyMaxPoints   int

	// Ledger policies
	ExternalFundingPolicy string
	FallbackExchangeRate  string
	ProceedsPolicy        string
	SeedDemo              bool

	// AI analysis
	AIProvider   string
	GeminiModel  string
	GeminiAPIKey string

	// Owner auth
	OwnerPassphrase  string
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Pipeline / rate limiting
	PipelineAPIKey string
	APIRateLimit   float64
	APIRateBurst   int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		// Database
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		SQLitePath: getEnv("SQLITE_PATH", "thaifolio.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "thaifolio"),
		DBPassword: getEnv("DB_PASSWORD", "thaifolio"),
		DBName:     getEnv("DB_NAME", "thaifolio"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Market data backend
		MarketAPIURL:    getEnv("MARKET_API_URL", "http://localhost:8000"),
		MarketTimeout:   getDuration("MARKET_TIMEOUT", 10*time.Second),
		MarketRateLimit: getFloat("MARKET_RATE_LIMIT", 5),
		MarketRateBurst: getInt("MARKET_RATE_BURST", 5),
		RedisURL:        getEnv("REDIS_URL", ""),
		QuoteCacheTTL:   getDuration("QUOTE_CACHE_TTL", 60*time.Second),
		RefreshInterval: getDuration("REFRESH_INTERVAL", 60*time.Second),
		RefreshAlways:   getBool("REFRESH_ALWAYS", false),

		// History retention
		HistoryMaxPoints: getInt("HISTORY_MAX_POINTS", 50),
		DailyMaxPoints:   getInt("DAILY_MAX_POINTS", 365),

		// Ledger policies
		ExternalFundingPolicy: getEnv("EXTERNAL_FUNDING_POLICY", "manual_rate"),
		FallbackExchangeRate:  getEnv("FALLBACK_EXCHANGE_RATE", "35"),
		ProceedsPolicy:        getEnv("PROCEEDS_POLICY", "sole_usd_wallet"),
		SeedDemo:              getBool("SEED_DEMO", true),

		// AI analysis
		AIProvider:   getEnv("AI_PROVIDER", "backend"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		// Owner auth
		OwnerPassphrase: getEnv("OWNER_PASSPHRASE", ""),
		JWTSecret:       getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Pipeline / rate limiting
		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),
		APIRateLimit:   getFloat("API_RATE_LIMIT", 20),
		APIRateBurst:   getInt("API_RATE_BURST", 40),
	}

	// Parse JWT expiration duration
	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// AuthEnabled reports whether owner authentication is configured.
func (c *Config) AuthEnabled() bool {
	return c.OwnerPassphrase != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func getFloat(key string, defaultValue float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %g\n", key, raw, defaultValue)
		return defaultValue
	}
	return f
}

func getBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, raw, defaultValue)
		return defaultValue
	}
	return b
}
