package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	ScoreTTL time.Duration
}

type OracleConfig struct {
	BaseURL string
	APIKey  string

	CallTimeout         time.Duration
	MaxAttempts         int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	FallbackScore       int
}

type BreakerConfig struct {
	WindowSize            int
	MinCalls              int
	FailureRateThreshold  float64
	SlowCallRateThreshold float64
	SlowCallDuration      time.Duration
	Cooldown              time.Duration
	HalfOpenMaxCalls      int
}

type Config struct {
	GRPCPort int
	HTTPPort int

	ScoreApprovalThreshold int

	DB      DatabaseConfig
	Kafka   KafkaConfig
	Redis   RedisConfig
	Oracle  OracleConfig
	Breaker BreakerConfig

	LogLevel  string
	LogFormat string

	ServiceName string
}

// Load reads configuration from the environment, applying development
// defaults everywhere except the database password.
func Load() Config {
	return Config{
		GRPCPort: getEnvInt("GRPC_PORT", 9090),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		ScoreApprovalThreshold: getEnvInt("SCORE_APPROVAL_THRESHOLD", 600),

		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "credit"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "credit_engine"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "credit.decisions"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			ScoreTTL: getEnvDuration("REDIS_SCORE_TTL", 15*time.Minute),
		},
		Oracle: OracleConfig{
			BaseURL:             getEnv("ORACLE_BASE_URL", ""),
			APIKey:              getEnv("ORACLE_API_KEY", ""),
			CallTimeout:         getEnvDuration("ORACLE_TIMEOUT", 3*time.Second),
			MaxAttempts:         getEnvInt("ORACLE_MAX_ATTEMPTS", 3),
			RetryInitialBackoff: getEnvDuration("ORACLE_RETRY_BACKOFF", 200*time.Millisecond),
			RetryMaxBackoff:     getEnvDuration("ORACLE_RETRY_MAX_BACKOFF", 2*time.Second),
			FallbackScore:       getEnvInt("ORACLE_FALLBACK_SCORE", 620),
		},
		Breaker: BreakerConfig{
			WindowSize:            getEnvInt("BREAKER_WINDOW_SIZE", 20),
			MinCalls:              getEnvInt("BREAKER_MIN_CALLS", 5),
			FailureRateThreshold:  getEnvFloat("BREAKER_FAILURE_RATE", 0.5),
			SlowCallRateThreshold: getEnvFloat("BREAKER_SLOW_RATE", 0.8),
			SlowCallDuration:      getEnvDuration("BREAKER_SLOW_CALL_DURATION", 2*time.Second),
			Cooldown:              getEnvDuration("BREAKER_COOLDOWN", 30*time.Second),
			HalfOpenMaxCalls:      getEnvInt("BREAKER_HALF_OPEN_CALLS", 3),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		ServiceName: "credit-engine",
	}
}

func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
