package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"courier-booking/logger"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside production
const DefaultJWTSecret = "change-me"

type Config struct {
	AppEnv      string
	AppHost     string
	AppPort     string
	FrontendURL string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	JWTSecret string
	JWTTTL    time.Duration

	UploadDir string
	LogDir    string

	KafkaBrokers      []string
	KafkaTopic        string
	RabbitMQURL       string
	NotificationQueue string

	// client side
	CourierAPIURL   string
	CourierStateDir string
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file loaded, using process environment: " + err.Error())
	}

	ttlHours, err := strconv.Atoi(getEnv("JWT_TTL_HOURS", "24"))
	if err != nil || ttlHours <= 0 {
		logger.Warning("Invalid JWT_TTL_HOURS, falling back to 24")
		ttlHours = 24
	}

	return &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		AppHost:     getEnv("APP_HOST", "0.0.0.0"),
		AppPort:     getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_DATABASE", "courier"),
		DBUser:     getEnv("DB_USERNAME", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTTTL:    time.Duration(ttlHours) * time.Hour,

		UploadDir: getEnv("UPLOAD_DIR", "storage/uploads"),
		LogDir:    getEnv("LOG_DIR", "log/app"),

		KafkaBrokers:      splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "shipment-status"),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		NotificationQueue: getEnv("NOTIFICATION_QUEUE", "shipment-notifications"),

		CourierAPIURL:   getEnv("COURIER_API_URL", "http://localhost:8080"),
		CourierStateDir: getEnv("COURIER_STATE_DIR", defaultStateDir()),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "courierctl"
	}
	return ".courierctl"
}

// DSN builds the postgres connection string for gorm
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.AppPort
}
