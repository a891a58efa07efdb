package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	Lookup   LookupConfig
	Bonus    BonusConfig
	Rollup   RollupConfig
	Media    MediaConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds Postgres connection settings. A non-empty DSN wins
// over the individual fields.
type DatabaseConfig struct {
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnectionString builds the GORM DSN from whichever fields are set.
func (d DatabaseConfig) ConnectionString() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// AIConfig holds the estimation provider configuration
type AIConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	Model             string  `mapstructure:"model"`
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
}

// LookupConfig holds the external product database configuration
type LookupConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// BonusConfig holds the exercise-bonus conversion factors: how many units
// of limit headroom one burned kilocalorie buys.
type BonusConfig struct {
	SugarGramsPerKcal float64 `mapstructure:"sugar_g_per_kcal"`
	SodiumMgPerKcal   float64 `mapstructure:"sodium_mg_per_kcal"`
}

// RollupConfig tunes day aggregation.
type RollupConfig struct {
	// PreferEntryAmountForGramUnits switches gram/ml entries to their
	// literal logged amount when summing micronutrients, instead of the
	// calorie-ratio inference used for pieces.
	PreferEntryAmountForGramUnits bool `mapstructure:"prefer_entry_amount_for_gram_units"`
}

// MediaConfig holds S3 image storage settings. Uploads stay disabled while
// the bucket is empty.
type MediaConfig struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LoggingConfig holds log output configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/caltrack/")

	// Environment variable settings
	v.SetEnvPrefix("CALTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "caltrack")
	v.SetDefault("database.name", "caltrack")
	v.SetDefault("database.sslmode", "disable")

	// Auth defaults
	v.SetDefault("auth.issuer", "caltrack")
	v.SetDefault("auth.token_ttl", "72h")

	// AI defaults
	v.SetDefault("ai.model", "claude-sonnet-4-5")
	v.SetDefault("ai.requests_per_minute", 20)

	// Lookup defaults
	v.SetDefault("lookup.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("lookup.user_agent", "CalorieTracker/1.0")
	v.SetDefault("lookup.cache_ttl", "720h") // barcode data is stable, keep it a month

	// Bonus defaults: 100 kcal of exercise buys 5 g of sugar and 100 mg of
	// sodium headroom
	v.SetDefault("bonus.sugar_g_per_kcal", 0.05)
	v.SetDefault("bonus.sodium_mg_per_kcal", 1.0)

	// Rollup defaults: infer consumed grams from the calorie ratio for
	// every unit
	v.SetDefault("rollup.prefer_entry_amount_for_gram_units", false)

	// Media defaults
	v.SetDefault("media.region", "eu-central-1")
	v.SetDefault("media.key_prefix", "food-images")

	// Logging defaults
	v.SetDefault("logging.level", "info")

	// Keys without a usable default still need registering so values
	// from AutomaticEnv survive Unmarshal.
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.password", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("media.bucket", "")
	v.SetDefault("media.public_url", "")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required (set CALTRACK_AUTH_JWT_SECRET)")
	}

	if config.Database.DSN == "" && config.Database.Password == "" {
		return fmt.Errorf("database password is required (set CALTRACK_DATABASE_PASSWORD or CALTRACK_DATABASE_DSN)")
	}

	if config.AI.APIKey == "" {
		return fmt.Errorf("AI API key is required (set CALTRACK_AI_API_KEY)")
	}

	if config.Bonus.SugarGramsPerKcal < 0 || config.Bonus.SodiumMgPerKcal < 0 {
		return fmt.Errorf("bonus factors must not be negative")
	}

	if config.Media.Bucket != "" && config.Media.Region == "" {
		return fmt.Errorf("media region is required when a bucket is configured")
	}

	return nil
}
