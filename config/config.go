package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`  // e.g., ":8080"
	AppEnv         string `mapstructure:"APP_ENV"`         // "production" switches gin to release mode
	LogLevel       string `mapstructure:"LOG_LEVEL"`       // zerolog level name
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"` // comma separated CORS origins, "*" for any

	// AI Configuration
	AIProvider   string `mapstructure:"AI_PROVIDER"` // "gemini" or "openai"
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`
	OpenAIKey    string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel  string `mapstructure:"OPENAI_MODEL"`

	// Wizard Configuration
	MaxLogoBytes       int64         `mapstructure:"MAX_LOGO_BYTES"`
	SessionIdleTimeout time.Duration `mapstructure:"SESSION_IDLE_TIMEOUT"`
	StepIndicator      bool          `mapstructure:"WIZARD_STEP_INDICATOR"` // enables jumping back to visited steps
	ResultsStep        bool          `mapstructure:"WIZARD_RESULTS_STEP"`   // false drops the separate results step

	// ConfigFile is the config file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":        ":8080",
	"APP_ENV":               "development",
	"LOG_LEVEL":             "info",
	"ALLOWED_ORIGINS":       "*",
	"AI_PROVIDER":           "gemini",
	"GEMINI_API_KEY":        "",
	"GEMINI_MODEL":          "gemini-1.5-flash-latest",
	"OPENAI_API_KEY":        "",
	"OPENAI_MODEL":          "gpt-4o",
	"MAX_LOGO_BYTES":        5 * 1024 * 1024,
	"SESSION_IDLE_TIMEOUT":  "30m",
	"WIZARD_STEP_INDICATOR": true,
	"WIZARD_RESULTS_STEP":   true,
}

// LoadConfig reads config.yaml from path and overlays environment variables,
// including any loaded from path/.env. Neither file is required.
func LoadConfig(path string) (config Config, err error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)     // Path to look for the config file in
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.ConfigFile = v.ConfigFileUsed()

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	switch strings.ToLower(c.AIProvider) {
	case "gemini", "openai":
	default:
		return fmt.Errorf("AI_PROVIDER must be gemini or openai, got %q", c.AIProvider)
	}
	if c.MaxLogoBytes <= 0 {
		return fmt.Errorf("MAX_LOGO_BYTES must be positive, got %d", c.MaxLogoBytes)
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %s", c.SessionIdleTimeout)
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS into a list.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
