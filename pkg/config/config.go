package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Data      DataConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	CacheTTL int
}

type LLMConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	TimeoutSec  int
	NumKeywords int
}

type AuthConfig struct {
	JWTSecret              string
	AccessTokenExpireMin   int
	SignupTokenExpireMin   int
	RefreshTokenExpireDays int
	RememberMeExpireDays   int
}

type RateLimitConfig struct {
	// Transport-level limit applied per client key across all routes.
	MaxRequestsPerMinute int
	// Keyword generations allowed per faculty member per rolling hour.
	GenerationsPerHour int
}

type DataConfig struct {
	InstitutionsPath string
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/scholarsphere")

	viper.SetEnvPrefix("SCHOLARSPHERE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 10485760)

	viper.SetDefault("sqlite.path", "./data/scholarsphere.db")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.cacheTTL", 300)

	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.0)
	viper.SetDefault("llm.maxTokens", 64)
	viper.SetDefault("llm.timeoutSec", 60)
	viper.SetDefault("llm.numKeywords", 5)

	viper.SetDefault("auth.accessTokenExpireMin", 30)
	viper.SetDefault("auth.signupTokenExpireMin", 15)
	viper.SetDefault("auth.refreshTokenExpireDays", 7)
	viper.SetDefault("auth.rememberMeExpireDays", 30)

	viper.SetDefault("ratelimit.maxRequestsPerMinute", 60)
	viper.SetDefault("ratelimit.generationsPerHour", 3)

	viper.SetDefault("data.institutionsPath", "./data/institutions.json")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
