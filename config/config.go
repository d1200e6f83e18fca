package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Waitlist configuration
	Timezone              string
	RolloverCheckInterval time.Duration
	PositionPushInterval  time.Duration

	// Kiosk authentication (bcrypt hash of the shared passcode)
	KioskPasscodeHash string

	// Rate limiting for public registration
	RegisterRateWindow time.Duration
	RegisterRateLimit  int

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// Waitlist
		Timezone:              getEnv("WAITLIST_TIMEZONE", "Asia/Tokyo"),
		RolloverCheckInterval: getEnvAsDuration("ROLLOVER_CHECK_INTERVAL", "1m"),
		PositionPushInterval:  getEnvAsDuration("POSITION_PUSH_INTERVAL", "5s"),

		// Kiosk
		KioskPasscodeHash: getEnv("KIOSK_PASSCODE_HASH", ""),

		// Rate limiting
		RegisterRateWindow: getEnvAsDuration("REGISTER_RATE_WINDOW", "1m"),
		RegisterRateLimit:  getEnvAsInt("REGISTER_RATE_LIMIT", 5),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
