package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию StoryWeaver сервера.
type Config struct {
	// Server settings
	Port        string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	ReadTimeoutSeconds  int `envconfig:"SERVER_READ_TIMEOUT" default:"15"`
	WriteTimeoutSeconds int `envconfig:"SERVER_WRITE_TIMEOUT" default:"120"`
	IdleTimeoutSeconds  int `envconfig:"SERVER_IDLE_TIMEOUT" default:"60"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:9002"`

	// PostgreSQL settings
	DBHost        string `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string `envconfig:"DB_PORT" default:"5432"`
	DBUser        string `envconfig:"DB_USER" default:"postgres"`
	DBPassword    string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName        string `envconfig:"DB_NAME" default:"storyweaver"`
	DBSSLMode     string `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int    `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleMinutes int    `envconfig:"DB_MAX_IDLE_MINUTES" default:"5"`

	// Generative text API settings (OpenAI-compatible endpoint)
	AIAPIKey  string `envconfig:"AI_API_KEY"`
	AIModel   string `envconfig:"AI_MODEL" default:"deepseek/deepseek-chat-v3-0324:free"`
	AIBaseURL string `envconfig:"AI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	AITimeout int    `envconfig:"AI_TIMEOUT" default:"120"`

	// Speech synthesis API settings
	TTSAPIKey  string `envconfig:"ELEVENLABS_API_KEY"`
	TTSBaseURL string `envconfig:"ELEVENLABS_BASE_URL" default:"https://api.elevenlabs.io"`
	TTSTimeout int    `envconfig:"ELEVENLABS_TIMEOUT" default:"30"`
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// Load загружает конфигурацию из переменных окружения.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}
