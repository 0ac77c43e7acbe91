package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel       OTelConfig
	Completion CompletionConfig
	Jira       JiraConfig
	Env        string
	Port       string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

// CompletionConfig configures the chat-completion backend. The defaults
// target Together AI's OpenAI-compatible endpoint.
type CompletionConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// JiraConfig carries the tracker credentials plus the custom field that
// receives generated test-case text.
type JiraConfig struct {
	BaseURL       string
	Email         string
	APIToken      string
	TestCaseField string
}

// Load loads configuration from environment variables. In development it
// first loads .env from the working directory.
func Load() (Config, error) {
	if getEnv("CASEFORGE_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := Config{
		Env:  getEnv("CASEFORGE_ENV", "development"),
		Port: getEnv("PORT", "10000"),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "caseforge"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Completion: CompletionConfig{
			APIKey:      getEnv("TOGETHER_API_KEY", ""),
			BaseURL:     getEnv("LLM_BASE_URL", "https://api.together.xyz/v1"),
			Model:       getEnv("LLM_MODEL", "mistralai/Mistral-7B-Instruct-v0.2"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 500),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
			TopP:        getEnvFloat("LLM_TOP_P", 0.9),
		},
		Jira: JiraConfig{
			BaseURL:       getEnv("JIRA_BASE_URL", ""),
			Email:         getEnv("JIRA_EMAIL", ""),
			APIToken:      getEnv("JIRA_API_TOKEN", ""),
			TestCaseField: getEnv("JIRA_TESTCASE_FIELD", "customfield_10169"),
		},
	}

	if cfg.Completion.APIKey == "" {
		return Config{}, fmt.Errorf("TOGETHER_API_KEY is required")
	}

	if cfg.Jira.BaseURL == "" || cfg.Jira.Email == "" || cfg.Jira.APIToken == "" {
		return Config{}, fmt.Errorf("JIRA_BASE_URL, JIRA_EMAIL and JIRA_API_TOKEN are required")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

// HeaderMap parses the OTLP headers value ("key1=value1,key2=value2") into a
// map ready for the exporter options. Malformed pairs are skipped.
func (c OTelConfig) HeaderMap() map[string]string {
	headers := make(map[string]string)
	for pair := range strings.SplitSeq(c.Headers, ",") {
		if key, value, ok := strings.Cut(pair, "="); ok {
			headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	return headers
}

// TracesURL is the full OTLP/HTTP trace ingestion URL for the configured
// collector endpoint.
func (c OTelConfig) TracesURL() string {
	return c.Endpoint + "/v1/traces"
}

// LogsURL is the full OTLP/HTTP log ingestion URL for the configured
// collector endpoint.
func (c OTelConfig) LogsURL() string {
	return c.Endpoint + "/v1/logs"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
