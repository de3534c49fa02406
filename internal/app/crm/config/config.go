package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config содержит все настройки приложения
type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Mongo      MongoConfig
	Kafka      KafkaConfig
	JWT        JWTConfig
	SuperAdmin SuperAdminConfig
}

// AppConfig - общие настройки приложения
type AppConfig struct {
	Env              string // development | production
	LogLevel         string
	BcryptCost       int
	FollowUpSchedule string // cron-расписание сканера напоминаний
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig - настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig - настройки подключения к Redis
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MongoConfig - настройки подключения к MongoDB (комментарии к активностям лидов)
type MongoConfig struct {
	URI      string
	Database string
}

// KafkaConfig - настройки Kafka producer
type KafkaConfig struct {
	Brokers       []string
	LeadTopic     string
	ReminderTopic string
}

// JWTConfig - настройки для JWT токенов.
// Access и refresh токены подписываются разными секретами
type JWTConfig struct {
	AccessSecret         string
	RefreshSecret        string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// SuperAdminConfig - учетные данные для bootstrap root-пользователя.
// Все поля опциональны: без них bootstrap пропускается
type SuperAdminConfig struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Load загружает конфигурацию из переменных окружения.
// Секреты подписи токенов обязательны: без них сервис не стартует,
// чтобы исключить подпись пустым секретом по умолчанию
func Load() (*Config, error) {
	accessSecret := os.Getenv("JWT_ACCESS_SECRET")
	if accessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}

	refreshSecret := os.Getenv("JWT_REFRESH_SECRET")
	if refreshSecret == "" {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	accessDuration, err := time.ParseDuration(getEnv("JWT_ACCESS_DURATION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_DURATION: %w", err)
	}

	refreshDuration, err := time.ParseDuration(getEnv("JWT_REFRESH_DURATION", "168h")) // 7 дней
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_DURATION: %w", err)
	}

	bcryptCost := getEnvInt("BCRYPT_COST", bcrypt.DefaultCost)
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return &Config{
		App: AppConfig{
			Env:              getEnv("APP_ENV", "development"),
			LogLevel:         getEnv("LOG_LEVEL", "info"),
			BcryptCost:       bcryptCost,
			FollowUpSchedule: getEnv("FOLLOW_UP_SCHEDULE", "*/5 * * * *"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "crm"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "crm"),
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			LeadTopic:     getEnv("KAFKA_LEAD_TOPIC", "lead_events"),
			ReminderTopic: getEnv("KAFKA_REMINDER_TOPIC", "follow_up_reminders"),
		},
		JWT: JWTConfig{
			AccessSecret:         accessSecret,
			RefreshSecret:        refreshSecret,
			AccessTokenDuration:  accessDuration,
			RefreshTokenDuration: refreshDuration,
		},
		SuperAdmin: SuperAdminConfig{
			Email:     getEnv("SUPER_ADMIN_EMAIL", ""),
			Password:  getEnv("SUPER_ADMIN_PASSWORD", ""),
			FirstName: getEnv("SUPER_ADMIN_FIRST_NAME", ""),
			LastName:  getEnv("SUPER_ADMIN_LAST_NAME", ""),
		},
	}, nil
}

// IsProduction сообщает, запущен ли сервис в production окружении.
// Влияет на флаг Secure у cookie с токенами
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
