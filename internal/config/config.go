package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       App       `mapstructure:"app"`
	Engine    Engine    `mapstructure:"engine"`
	AI        AI        `mapstructure:"ai"`
	Authority Authority `mapstructure:"authority"`
	Feeds     Feeds     `mapstructure:"feeds"`
	Cache     Cache     `mapstructure:"cache"`
	Delivery  Delivery  `mapstructure:"delivery"`
	Schedule  Schedule  `mapstructure:"schedule"`
}

// App holds general application configuration
type App struct {
	Debug      bool   `mapstructure:"debug"`
	LogLevel   string `mapstructure:"log_level"`
	DataDir    string `mapstructure:"data_dir"`
	ConfigFile string `mapstructure:"config_file"`
}

// Engine holds the scoring and clustering parameters. Invalid values here
// are fatal at startup and are never clamped.
type Engine struct {
	MaxAgeHours           int     `mapstructure:"max_age_hours"`
	SimilarityEps         float64 `mapstructure:"similarity_eps"`
	MinSamples            int     `mapstructure:"min_samples"`
	Metric                string  `mapstructure:"metric"`
	ClusterSizeBonusCap   int     `mapstructure:"cluster_size_bonus_cap"`
	AuthorityDefaultScore int     `mapstructure:"authority_default_score"`
	AllowMissingTimestamp bool    `mapstructure:"allow_missing_timestamp"`
	ExtractWorkers        int     `mapstructure:"extract_workers"`
}

// AI holds embedding provider configuration
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	Timeout        string `mapstructure:"timeout"`
}

// Authority holds domain-authority table configuration
type Authority struct {
	TableFile string `mapstructure:"table_file"`
}

// Feeds holds RSS ingestion configuration
type Feeds struct {
	URLs            []string `mapstructure:"urls"`
	UserAgent       string   `mapstructure:"user_agent"`
	Timeout         string   `mapstructure:"timeout"`
	MaxItemsPerFeed int      `mapstructure:"max_items_per_feed"`
	FetchWorkers    int      `mapstructure:"fetch_workers"`
}

// Cache holds embedding cache configuration
type Cache struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
}

// Delivery holds digest delivery configuration
type Delivery struct {
	Stdout     bool   `mapstructure:"stdout"`
	File       string `mapstructure:"file"`
	WebhookURL string `mapstructure:"webhook_url"`
	Timeout    string `mapstructure:"timeout"`
}

// Schedule holds periodic-run configuration
type Schedule struct {
	Cron string `mapstructure:"cron"`
}

var globalConfig *Config

// Load loads the configuration from file, environment, and defaults.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".headliner")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".headliner-cache")

	// Engine defaults
	viper.SetDefault("engine.max_age_hours", 240)
	viper.SetDefault("engine.similarity_eps", 0.3)
	viper.SetDefault("engine.min_samples", 2)
	viper.SetDefault("engine.metric", "cosine")
	viper.SetDefault("engine.cluster_size_bonus_cap", 3)
	viper.SetDefault("engine.authority_default_score", 0)
	viper.SetDefault("engine.allow_missing_timestamp", false)
	viper.SetDefault("engine.extract_workers", 4)

	// AI defaults
	viper.SetDefault("ai.gemini.embedding_model", "text-embedding-004")
	viper.SetDefault("ai.gemini.timeout", "30s")

	// Feeds defaults
	viper.SetDefault("feeds.user_agent", "Headliner/1.0")
	viper.SetDefault("feeds.timeout", "30s")
	viper.SetDefault("feeds.max_items_per_feed", 50)
	viper.SetDefault("feeds.fetch_workers", 8)

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.directory", ".headliner-cache")

	// Delivery defaults
	viper.SetDefault("delivery.stdout", true)
	viper.SetDefault("delivery.timeout", "10s")

	// Schedule defaults
	viper.SetDefault("schedule.cron", "0 7 * * *")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("delivery.webhook_url", []string{
		"HEADLINER_WEBHOOK_URL",
		"SLACK_WEBHOOK_URL",
	})

	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"HEADLINER_DEBUG",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// validateConfig ensures the configuration is usable. Engine parameter
// errors abort startup before any batch work begins.
func validateConfig(config *Config) error {
	var errors []string

	e := config.Engine
	if e.MaxAgeHours <= 0 {
		errors = append(errors, fmt.Sprintf("engine.max_age_hours must be positive, got %d", e.MaxAgeHours))
	}
	if e.SimilarityEps < 0 {
		errors = append(errors, fmt.Sprintf("engine.similarity_eps must not be negative, got %g", e.SimilarityEps))
	}
	if e.MinSamples <= 0 {
		errors = append(errors, fmt.Sprintf("engine.min_samples must be positive, got %d", e.MinSamples))
	}
	switch e.Metric {
	case "cosine", "euclidean":
	default:
		errors = append(errors, fmt.Sprintf("engine.metric must be cosine or euclidean, got %q", e.Metric))
	}
	if e.ClusterSizeBonusCap < 0 {
		errors = append(errors, fmt.Sprintf("engine.cluster_size_bonus_cap must not be negative, got %d", e.ClusterSizeBonusCap))
	}
	if e.AuthorityDefaultScore < 0 {
		errors = append(errors, fmt.Sprintf("engine.authority_default_score must not be negative, got %d", e.AuthorityDefaultScore))
	}
	if e.ExtractWorkers <= 0 {
		errors = append(errors, fmt.Sprintf("engine.extract_workers must be positive, got %d", e.ExtractWorkers))
	}

	durations := map[string]string{
		"ai.gemini.timeout": config.AI.Gemini.Timeout,
		"feeds.timeout":     config.Feeds.Timeout,
		"delivery.timeout":  config.Delivery.Timeout,
	}
	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				errors = append(errors, fmt.Sprintf("invalid duration for %s: %s", key, duration))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Convenience getters for commonly used configuration values
func GetApp() App             { return Get().App }
func GetEngine() Engine       { return Get().Engine }
func GetFeeds() Feeds         { return Get().Feeds }
func GetCache() Cache         { return Get().Cache }
func GetDelivery() Delivery   { return Get().Delivery }
func GetSchedule() Schedule   { return Get().Schedule }
func GetGeminiAPIKey() string { return Get().AI.Gemini.APIKey }
func IsDebugMode() bool       { return Get().App.Debug }

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}
