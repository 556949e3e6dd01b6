package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Task store and delivery
	MSGraph        MSGraphConfig
	Telegram       TelegramConfig
	GoogleCalendar GoogleCalendarConfig

	// Intent engine
	Intent IntentConfig

	// LLM Provider Abstraction
	LLM LLMConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// MSGraphConfig carries the Microsoft Graph To Do credentials. ListID
// empty means the default well-known list is resolved at first use.
type MSGraphConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	RefreshToken string
	ListID       string
}

type TelegramConfig struct {
	BotToken    string
	WebhookURL  string
	SecretToken string

	// Per-sender webhook rate limiting. RateLimitPerMin 0 disables it.
	RateLimitPerMin int
	RateLimitBurst  int
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	CalendarID      string
}

// IntentConfig tunes the analysis pipeline. Zero values fall back to
// the engine defaults.
type IntentConfig struct {
	Timezone          string
	ComplexityLexicon []string
	MaxCandidates     int
	ExtractRetries    int
	RetryDelay        string
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"` // global timeout for the entire fallback chain
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name        string `yaml:"name"`
	Enabled     bool   `yaml:"enabled"`
	Priority    int    `yaml:"priority"`
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Model       string `yaml:"model"`
	VisionModel string `yaml:"vision_model,omitempty"`
	Timeout     string `yaml:"timeout"`
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Microsoft Graph To Do
	cfg.MSGraph.TenantID = viper.GetString("msgraph.tenant_id")
	cfg.MSGraph.ClientID = viper.GetString("msgraph.client_id")
	cfg.MSGraph.ClientSecret = viper.GetString("msgraph.client_secret")
	cfg.MSGraph.RefreshToken = viper.GetString("msgraph.refresh_token")
	cfg.MSGraph.ListID = viper.GetString("msgraph.list_id")
	if tenant := viper.GetString("msgraph_tenant_id"); tenant != "" {
		cfg.MSGraph.TenantID = tenant
	}
	if clientID := viper.GetString("msgraph_client_id"); clientID != "" {
		cfg.MSGraph.ClientID = clientID
	}
	if clientSecret := viper.GetString("msgraph_client_secret"); clientSecret != "" {
		cfg.MSGraph.ClientSecret = clientSecret
	}
	if refreshToken := viper.GetString("msgraph_refresh_token"); refreshToken != "" {
		cfg.MSGraph.RefreshToken = refreshToken
	}

	// Telegram
	cfg.Telegram.BotToken = viper.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = viper.GetString("telegram.webhook_url")
	cfg.Telegram.SecretToken = viper.GetString("telegram.secret_token")
	cfg.Telegram.RateLimitPerMin = viper.GetInt("telegram.rate_limit_per_min")
	cfg.Telegram.RateLimitBurst = viper.GetInt("telegram.rate_limit_burst")
	if tgToken := viper.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}
	if tgSecret := viper.GetString("telegram_secret_token"); tgSecret != "" {
		cfg.Telegram.SecretToken = tgSecret
	}

	// Google Calendar
	cfg.GoogleCalendar.CredentialsPath = viper.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.CalendarID = viper.GetString("google_calendar.calendar_id")
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}

	// Intent engine
	cfg.Intent.Timezone = viper.GetString("intent.timezone")
	cfg.Intent.MaxCandidates = viper.GetInt("intent.max_candidates")
	cfg.Intent.ExtractRetries = viper.GetInt("intent.extract_retries")
	cfg.Intent.RetryDelay = viper.GetString("intent.retry_delay")
	cfg.Intent.ComplexityLexicon = splitList(viper.GetString("intent.complexity_lexicon"))

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = viper.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = viper.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")

	// Load provider configurations
	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						Name:        getStringFromMap(providerMap, "name"),
						Enabled:     getBoolFromMap(providerMap, "enabled"),
						Priority:    getIntFromMap(providerMap, "priority"),
						APIKey:      expandEnvVar(getStringFromMap(providerMap, "api_key")),
						BaseURL:     getStringFromMap(providerMap, "base_url"),
						Model:       getStringFromMap(providerMap, "model"),
						VisionModel: getStringFromMap(providerMap, "vision_model"),
						Timeout:     getStringFromMap(providerMap, "timeout"),
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return nil, fmt.Errorf("invalid LLM config: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("telegram.rate_limit_per_min", 60)
	viper.SetDefault("telegram.rate_limit_burst", 5)

	viper.SetDefault("intent.timezone", "UTC")

	// LLM defaults
	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.retry_attempts", 3)
	viper.SetDefault("llm.retry_delay", "1s")
	viper.SetDefault("llm.max_total_timeout", "60s")
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	// Check if value is in format ${VAR_NAME}
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		// Try lowercase version
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		// Try direct os.Getenv as last resort
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	enabledCount := 0
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		// Check required fields
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if provider.Model == "" {
			return fmt.Errorf("provider %s: model is required", provider.Name)
		}

		if provider.Enabled {
			enabledCount++

			// Check priority is valid
			if provider.Priority <= 0 {
				return fmt.Errorf("provider %s: priority must be positive", provider.Name)
			}

			// Check for duplicate priorities
			if priorityMap[provider.Priority] {
				return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
			}
			priorityMap[provider.Priority] = true

			// Check API key is set (warning only)
			if provider.APIKey == "" {
				fmt.Printf("Warning: provider %s has no API key configured\n", provider.Name)
			}
		}
	}

	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	return nil
}

// splitList splits a comma-separated value since viper may not parse
// arrays seamlessly from env.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		// Handle float64 from JSON unmarshaling
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}
