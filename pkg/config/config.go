package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	Mailjet       MailjetConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Elasticsearch ElasticsearchConfig
	Delivery      DeliveryConfig
	Checkout      CheckoutConfig
	Analytics     AnalyticsConfig
}

type AppConfig struct {
	Name        string `env:"APP_NAME" env-default:"MyMarketplace"`
	Version     string `env:"APP_VERSION" env-default:"1.0.0"`
	Environment string `env:"APP_ENV" env-default:"development"`
}

type ServerConfig struct {
	Port            string        `env:"PORT" env-default:"8080"`
	RequestTimeout  time.Duration `env:"SERVER_REQUEST_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	AllowOrigins    []string      `env:"SERVER_ALLOW_ORIGINS" env-default:"http://localhost:3000,http://localhost:8080"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST" env-default:"localhost"`
	Port            string        `env:"DB_PORT" env-default:"5432"`
	User            string        `env:"DB_USER" env-default:"postgres"`
	Password        string        `env:"DB_PASSWORD"`
	Name            string        `env:"DB_NAME" env-default:"marketplace"`
	SSLMode         string        `env:"DB_SSL_MODE" env-default:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
}

type JWTConfig struct {
	SecretKey string        `env:"JWT_SECRET"`
	TTL       time.Duration `env:"JWT_TTL" env-default:"24h"`
}

type MailjetConfig struct {
	MailjetBaseUrl           string `env:"MAILJET_BASE_URL"`
	MailjetBasicAuthUsername string `env:"MAILJET_BASIC_AUTH_USERNAME"`
	MailjetBasicAuthPassword string `env:"MAILJET_BASIC_AUTH_PASSWORD"`
	MailjetSenderEmail       string `env:"MAILJET_SENDER_EMAIL"`
	MailjetSenderName        string `env:"MAILJET_SENDER_NAME" env-default:"MyMarketplace"`
}

type RedisConfig struct {
	RedisHost     string `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort     string `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`
}

type KafkaConfig struct {
	Brokers    []string `env:"KAFKA_BROKERS"`
	OrderTopic string   `env:"KAFKA_ORDER_TOPIC" env-default:"order_events"`
}

type ElasticsearchConfig struct {
	URL          string `env:"ES_URL"`
	Username     string `env:"ES_USER"`
	Password     string `env:"ES_PASSWORD"`
	ProductIndex string `env:"ES_PRODUCT_INDEX" env-default:"products"`
}

// DeliveryConfig drives the assignment pass and the earning tier table.
type DeliveryConfig struct {
	MaxActiveDeliveries int    `env:"MAX_ACTIVE_DELIVERIES" env-default:"5"`
	BatchSize           int    `env:"ASSIGNMENT_BATCH_SIZE" env-default:"100"`
	Schedule            string `env:"ASSIGNMENT_SCHEDULE" env-default:"@every 30s"`

	LowTierMax   float64 `env:"EARNING_LOW_TIER_MAX" env-default:"500"`
	LowTierFee   float64 `env:"EARNING_LOW_TIER_FEE" env-default:"30"`
	LowTierRate  float64 `env:"EARNING_LOW_TIER_RATE" env-default:"0"`
	MidTierMax   float64 `env:"EARNING_MID_TIER_MAX" env-default:"2000"`
	MidTierFee   float64 `env:"EARNING_MID_TIER_FEE" env-default:"40"`
	MidTierRate  float64 `env:"EARNING_MID_TIER_RATE" env-default:"0.02"`
	HighTierFee  float64 `env:"EARNING_HIGH_TIER_FEE" env-default:"60"`
	HighTierRate float64 `env:"EARNING_HIGH_TIER_RATE" env-default:"0.03"`
}

type CheckoutConfig struct {
	ShippingFee           float64 `env:"SHIPPING_FEE" env-default:"49"`
	FreeShippingThreshold float64 `env:"FREE_SHIPPING_THRESHOLD" env-default:"999"`
}

type AnalyticsConfig struct {
	LowStockThreshold int `env:"LOW_STOCK_THRESHOLD" env-default:"5"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Delivery.MaxActiveDeliveries <= 0 {
		return nil, errors.New("max active deliveries must be positive")
	}

	if cfg.Delivery.LowTierMax >= cfg.Delivery.MidTierMax {
		return nil, errors.New("earning tiers must be increasing")
	}

	return &cfg, nil
}

// DSN builds the postgres connection string for gorm and goose.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
