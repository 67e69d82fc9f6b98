package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	DataForSEO DataForSEOConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	BrightData BrightDataConfig
	Pipeline   PipelineConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DataForSEOConfig holds DataForSEO API configuration
type DataForSEOConfig struct {
	Login    string        `mapstructure:"login"`
	Password string        `mapstructure:"password"`
	BaseURL  string        `mapstructure:"base_url"`
	Depth    int           `mapstructure:"depth"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GeminiConfig holds Gemini API configuration. An empty key disables Gemini models.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// BrightDataConfig holds Bright Data datasets API configuration. An empty token disables
// the Perplexity and Copilot answer engines.
type BrightDataConfig struct {
	Token             string        `mapstructure:"token"`
	BaseURL           string        `mapstructure:"base_url"`
	PerplexityDataset string        `mapstructure:"perplexity_dataset"`
	CopilotDataset    string        `mapstructure:"copilot_dataset"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// PipelineConfig holds pipeline tuning
type PipelineConfig struct {
	DefaultLimit int    `mapstructure:"default_limit"`
	GraderModel  string `mapstructure:"grader_model"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/serpops/")

	// Environment variable settings: SERPOPS_OPENAI_API_KEY -> openai.api_key
	v.SetEnvPrefix("SERPOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment when present.
// Variables already set in the environment win.
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values.
// Every key needs a default, even an empty one, so that AutomaticEnv can fill it on Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// DataForSEO defaults
	v.SetDefault("dataforseo.login", "")
	v.SetDefault("dataforseo.password", "")
	v.SetDefault("dataforseo.base_url", "https://api.dataforseo.com")
	v.SetDefault("dataforseo.depth", 100)
	v.SetDefault("dataforseo.timeout", "120s")

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.timeout", "120s")

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")

	// Bright Data defaults
	v.SetDefault("brightdata.token", "")
	v.SetDefault("brightdata.base_url", "https://api.brightdata.com")
	v.SetDefault("brightdata.perplexity_dataset", "gd_m7dhdot1vw9a7gc1n")
	v.SetDefault("brightdata.copilot_dataset", "gd_m7di5jy6s9geokz8w")
	v.SetDefault("brightdata.timeout", "180s")

	// Pipeline defaults
	v.SetDefault("pipeline.default_limit", 10)
	v.SetDefault("pipeline.grader_model", "gpt-4o-mini")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.DataForSEO.Login == "" || config.DataForSEO.Password == "" {
		return fmt.Errorf("DataForSEO credentials are required (set SERPOPS_DATAFORSEO_LOGIN and SERPOPS_DATAFORSEO_PASSWORD)")
	}

	if config.OpenAI.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required (set SERPOPS_OPENAI_API_KEY)")
	}

	if config.DataForSEO.Depth < 1 || config.DataForSEO.Depth > 700 {
		return fmt.Errorf("dataforseo depth must be between 1 and 700, got: %d", config.DataForSEO.Depth)
	}

	if config.Pipeline.DefaultLimit < 1 {
		return fmt.Errorf("pipeline default_limit must be positive, got: %d", config.Pipeline.DefaultLimit)
	}

	return nil
}
