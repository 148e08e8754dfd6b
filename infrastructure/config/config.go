package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion    string
	AWSAccountID string

	// Graph database
	NeptuneEndpoint string
	NeptunePort     int
	NeptuneIAMAuth  bool

	// Parameter store
	GremlinParameterName string
	GremlinFallbackQuery string
	ParameterDecrypt     bool
	ParameterPathPrefix  string

	// Text generation
	BedrockModelID   string
	BedrockRegion    string
	BedrockMaxTokens int

	// Notebook scheduler
	NotebookName string
	Action       string
	EventBusName string

	// Chat history
	ConversationsTable string
	HistoryLimit       int

	// Prompt catalog file; empty uses the built-in catalog
	PromptCatalogPath string

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
	OTLPEndpoint  string

	// CORS origins; empty allows only the local frontend
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:    getEnv("AWS_REGION", getEnv("AWS_DEFAULT_REGION", "us-east-1")),
		AWSAccountID: getEnv("AWS_ACCOUNT_ID", "YOUR_AWS_ACCOUNT_ID"),

		NeptuneEndpoint: getEnv("NEPTUNE_ENDPOINT", ""),
		NeptunePort:     getEnvInt("NEPTUNE_PORT", 8182),
		NeptuneIAMAuth:  getEnvBool("NEPTUNE_IAM_AUTH", false),

		GremlinParameterName: getEnv("GREMLIN_PARAMETER_NAME", "/app/gremlin/query1"),
		GremlinFallbackQuery: getEnv("GREMLIN_FALLBACK_QUERY", ""),
		ParameterDecrypt:     getEnvBool("PARAMETER_DECRYPT", true),
		ParameterPathPrefix:  getEnv("PARAMETER_PATH_PREFIX", "/app/gremlin/"),

		BedrockModelID:   getEnv("BEDROCK_MODEL_ID", "anthropic.claude-3-sonnet-20240229-v1:0"),
		BedrockRegion:    getEnv("BEDROCK_REGION", ""),
		BedrockMaxTokens: getEnvInt("BEDROCK_MAX_TOKENS", 1024),

		NotebookName: getEnv("NOTEBOOK_NAME", ""),
		Action:       getEnv("ACTION", ""),
		EventBusName: getEnv("EVENT_BUS_NAME", ""),

		ConversationsTable: getEnv("CONVERSATIONS_TABLE", ""),
		HistoryLimit:       getEnvInt("HISTORY_LIMIT", 50),

		PromptCatalogPath: getEnv("PROMPT_CATALOG_PATH", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", ""),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
		OTLPEndpoint:  getEnv("OTLP_ENDPOINT", "localhost:4317"),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
	}

	if cfg.BedrockRegion == "" {
		cfg.BedrockRegion = cfg.AWSRegion
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.NeptunePort <= 0 || c.NeptunePort > 65535 {
		return fmt.Errorf("NEPTUNE_PORT must be a valid port, got %d", c.NeptunePort)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive")
	}
	if c.IsProduction() && c.NeptuneEndpoint == "" {
		return fmt.Errorf("NEPTUNE_ENDPOINT is required in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NeptuneHTTPURL is the base URL of the HTTP-form transport
func (c *Config) NeptuneHTTPURL() string {
	if strings.HasPrefix(c.NeptuneEndpoint, "http://") || strings.HasPrefix(c.NeptuneEndpoint, "https://") {
		return strings.TrimRight(c.NeptuneEndpoint, "/")
	}
	return fmt.Sprintf("https://%s:%d", c.NeptuneEndpoint, c.NeptunePort)
}

// NeptuneGremlinURL is the URL of the persistent-session transport
func (c *Config) NeptuneGremlinURL() string {
	if strings.HasPrefix(c.NeptuneEndpoint, "ws://") || strings.HasPrefix(c.NeptuneEndpoint, "wss://") {
		return strings.TrimRight(c.NeptuneEndpoint, "/")
	}
	return fmt.Sprintf("wss://%s:%d/gremlin", c.NeptuneEndpoint, c.NeptunePort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
