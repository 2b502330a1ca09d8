package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Grocy    GrocyConfig
	OCR      OCRConfig
	Mapping  MappingConfig
	Matching MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
}

// GrocyConfig holds Grocy API configuration
type GrocyConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	BestBeforeDays    int           `mapstructure:"best_before_days"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// OCRConfig holds Tesseract configuration
type OCRConfig struct {
	Language       string `mapstructure:"language"`
	TessdataPrefix string `mapstructure:"tessdata_prefix"`
}

// MappingConfig holds learned mapping storage configuration
type MappingConfig struct {
	Store string `mapstructure:"store"` // "json" or "sqlite"
	Path  string `mapstructure:"path"`
}

// MatchingConfig holds product matching configuration
type MatchingConfig struct {
	MaxEdits           int  `mapstructure:"max_edits"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/grocyscan/")

	// Environment variable settings
	v.SetEnvPrefix("GROCYSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Tesseract's own variable is honoured when nothing more specific is set
	if config.OCR.TessdataPrefix == "" {
		config.OCR.TessdataPrefix = os.Getenv("TESSDATA_PREFIX")
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile exports variables from ./.env without overriding ones already set
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return gotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.max_upload_bytes", 10<<20)

	// Grocy defaults
	v.SetDefault("grocy.base_url", "")
	v.SetDefault("grocy.api_key", "")
	v.SetDefault("grocy.best_before_days", 7)
	v.SetDefault("grocy.requests_per_second", 5)
	v.SetDefault("grocy.timeout", "30s")

	// OCR defaults
	v.SetDefault("ocr.language", "deu")
	v.SetDefault("ocr.tessdata_prefix", "")

	// Mapping defaults
	v.SetDefault("mapping.store", "json")
	v.SetDefault("mapping.path", "mappings.json")

	// Matching defaults
	v.SetDefault("matching.max_edits", 4)
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Grocy.BaseURL == "" {
		return fmt.Errorf("Grocy base URL is required (set GROCYSCAN_GROCY_BASE_URL)")
	}

	if config.Grocy.APIKey == "" {
		return fmt.Errorf("Grocy API key is required (set GROCYSCAN_GROCY_API_KEY)")
	}

	if config.Mapping.Store != "json" && config.Mapping.Store != "sqlite" {
		return fmt.Errorf("mapping store must be 'json' or 'sqlite', got: %s", config.Mapping.Store)
	}

	if config.Mapping.Path == "" {
		return fmt.Errorf("mapping path is required")
	}

	if config.Matching.MaxEdits < 0 {
		return fmt.Errorf("matching max_edits must not be negative, got: %d", config.Matching.MaxEdits)
	}

	if config.Grocy.BestBeforeDays < 0 {
		return fmt.Errorf("grocy best_before_days must not be negative, got: %d", config.Grocy.BestBeforeDays)
	}

	return nil
}
