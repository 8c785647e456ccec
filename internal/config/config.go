package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mongo     MongoConfig     `yaml:"mongo"`
	JWT       JWTConfig       `yaml:"jwt"`
	Security  SecurityConfig  `yaml:"security"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Uploads   UploadsConfig   `yaml:"uploads"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Telegram  TelegramConfig  `yaml:"telegram"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"` // development, production
	LogLevel    string `yaml:"log_level"`
}

// MongoConfig holds database connection settings
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// JWTConfig holds token signing settings
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// SecurityConfig holds password hashing settings
type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

// RateLimitConfig holds per-IP limits for public and auth endpoints
type RateLimitConfig struct {
	GeneralRequests int           `yaml:"general_requests"`
	AuthRequests    int           `yaml:"auth_requests"`
	Window          time.Duration `yaml:"window"`
}

// CORSConfig holds allowed origins for the SPA
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// UploadsConfig holds the quotation upload directory
type UploadsConfig struct {
	Dir string `yaml:"dir"`
}

// AnalyticsConfig holds rollup settings
type AnalyticsConfig struct {
	Timezone string `yaml:"timezone"`
	Schedule string `yaml:"schedule"`
}

// MQTTConfig configures the optional MQTT event sink
type MQTTConfig struct {
	BrokerURL   string `yaml:"broker_url"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// TelegramConfig configures the optional admin chat notifier
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// Load reads configuration from the environment (and .env), then applies the
// YAML file named by CONFIG_FILE on top when set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "5000"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "acservice"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 5*24*time.Hour),
		},
		Security: SecurityConfig{
			BcryptCost: getEnvAsInt("BCRYPT_COST", 10),
		},
		RateLimit: RateLimitConfig{
			GeneralRequests: getEnvAsInt("RATE_LIMIT_GENERAL_REQUESTS", 100),
			AuthRequests:    getEnvAsInt("RATE_LIMIT_AUTH_REQUESTS", 10),
			Window:          getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Uploads: UploadsConfig{
			Dir: getEnv("UPLOAD_DIR", "uploads"),
		},
		Analytics: AnalyticsConfig{
			Timezone: getEnv("TIMEZONE", "Asia/Kolkata"),
			Schedule: getEnv("ROLLUP_SCHEDULE", "0 5 0 * * *"),
		},
		MQTT: MQTTConfig{
			BrokerURL:   getEnv("MQTT_BROKER_URL", ""),
			ClientID:    getEnv("MQTT_CLIENT_ID", "ac-service-backend"),
			Username:    getEnv("MQTT_USERNAME", ""),
			Password:    getEnv("MQTT_PASSWORD", ""),
			TopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "acservice/events"),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   int64(getEnvAsInt("TELEGRAM_CHAT_ID", 0)),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyFile overlays values from a YAML file. ${VAR} references are expanded first.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	expanded := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expanded, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.JWT.Secret == "" {
		log.Warn("JWT_SECRET not set, using development secret")
		c.JWT.Secret = "dev-secret-change-me"
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive")
	}
	if c.RateLimit.GeneralRequests <= 0 || c.RateLimit.AuthRequests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	if _, err := time.LoadLocation(c.Analytics.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Analytics.Timezone, err)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Location returns the business time zone used for day boundaries
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Analytics.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warnf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Warnf("Invalid duration value for %s, using default: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
