package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config конфигурация сервера портала
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База данных
	DatabasePath    string        `json:"database_path"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Логирование
	LogLevel string `json:"log_level"`

	// Аутентификация
	JWTSecret string        `json:"-"`
	TokenTTL  time.Duration `json:"token_ttl"`

	// Учетная запись администратора, создаваемая при первом старте
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"-"`

	// Чат-ассистент
	Chat *ChatConfig `json:"chat"`

	// Карты (расчет расстояний)
	Maps *MapsConfig `json:"maps"`

	// Извлечение текста из документов
	DocParse *DocParseConfig `json:"doc_parse"`

	// Веб-поиск для проверки производителей
	WebSearch *WebSearchConfig `json:"web_search"`
}

// ChatConfig конфигурация чат-ассистента
type ChatConfig struct {
	APIKey           string        `json:"-"`
	Model            string        `json:"model"`
	BaseURL          string        `json:"base_url"`
	Timeout          time.Duration `json:"timeout"`
	RequestsPerMin   int           `json:"requests_per_min"`
	SnapshotCacheTTL time.Duration `json:"snapshot_cache_ttl"`
}

// MapsConfig конфигурация клиента расчета расстояний
type MapsConfig struct {
	APIKey   string        `json:"-"`
	BaseURL  string        `json:"base_url"`
	Timeout  time.Duration `json:"timeout"`
	CacheTTL time.Duration `json:"cache_ttl"`
}

// DocParseConfig конфигурация сервиса извлечения текста
type DocParseConfig struct {
	BaseURL string        `json:"base_url"`
	APIKey  string        `json:"-"`
	Timeout time.Duration `json:"timeout"`
}

// WebSearchConfig конфигурация веб-поиска
type WebSearchConfig struct {
	Enabled         bool          `json:"enabled"`
	BaseURL         string        `json:"base_url"`
	Timeout         time.Duration `json:"timeout"`
	CacheTTL        time.Duration `json:"cache_ttl"`
	RateLimitPerSec int           `json:"rate_limit_per_sec"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	config := &Config{
		// Сервер
		Port: getEnv("SERVER_PORT", "8080"),

		// База данных
		DatabasePath:    getEnv("DATABASE_PATH", "portal.db"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		// Логирование
		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		// Аутентификация
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 12*time.Hour),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Chat: &ChatConfig{
			APIKey:           os.Getenv("CHAT_API_KEY"),
			Model:            getEnv("CHAT_MODEL", "gpt-4o-mini"),
			BaseURL:          getEnv("CHAT_BASE_URL", "https://api.openai.com/v1"),
			Timeout:          getEnvDuration("CHAT_TIMEOUT", 30*time.Second),
			RequestsPerMin:   getEnvInt("CHAT_REQUESTS_PER_MIN", 10),
			SnapshotCacheTTL: getEnvDuration("CHAT_SNAPSHOT_CACHE_TTL", 1*time.Minute),
		},

		Maps: &MapsConfig{
			APIKey:   os.Getenv("MAPS_API_KEY"),
			BaseURL:  getEnv("MAPS_BASE_URL", "https://maps.googleapis.com/maps/api/distancematrix/json"),
			Timeout:  getEnvDuration("MAPS_TIMEOUT", 10*time.Second),
			CacheTTL: getEnvDuration("MAPS_CACHE_TTL", 24*time.Hour),
		},

		DocParse: &DocParseConfig{
			BaseURL: getEnv("DOCPARSE_BASE_URL", "http://localhost:8500"),
			APIKey:  os.Getenv("DOCPARSE_API_KEY"),
			Timeout: getEnvDuration("DOCPARSE_TIMEOUT", 60*time.Second),
		},

		WebSearch: &WebSearchConfig{
			Enabled:         getEnv("WEB_SEARCH_ENABLED", "true") == "true",
			BaseURL:         getEnv("WEB_SEARCH_BASE_URL", "https://html.duckduckgo.com/html/"),
			Timeout:         getEnvDuration("WEB_SEARCH_TIMEOUT", 5*time.Second),
			CacheTTL:        getEnvDuration("WEB_SEARCH_CACHE_TTL", 24*time.Hour),
			RateLimitPerSec: getEnvInt("WEB_SEARCH_RATE_LIMIT_PER_SEC", 1),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Validate проверяет обязательные поля конфигурации
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port is empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive, got %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("max idle connections must not be negative, got %d", c.MaxIdleConns)
	}
	return nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
