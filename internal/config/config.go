package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/edu-checkout/internal/delivery"
	"github.com/fairyhunter13/edu-checkout/internal/money"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Log      LogConfig
	Delivery DeliveryConfig
	Events   EventsConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
// In production, set DB_SSLMODE to "require" or "verify-full".
type DBConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        int    `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name        string `envconfig:"DB_NAME" default:"edu_checkout"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"` // Use "require" in production
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// DeliveryConfig holds the flat delivery fee table, in major currency units.
// FeesFile points to an optional YAML file whose entries override the
// environment values:
//
//	inside_region: 80
//	outside_region: 150
//	courier_channel: 120
type DeliveryConfig struct {
	InsideFee  money.Money `envconfig:"DELIVERY_FEE_INSIDE" default:"80"`
	OutsideFee money.Money `envconfig:"DELIVERY_FEE_OUTSIDE" default:"150"`
	CourierFee money.Money `envconfig:"DELIVERY_FEE_COURIER" default:"120"`
	FeesFile   string      `envconfig:"DELIVERY_FEES_FILE"`
}

// Fees returns the validated fee table.
func (c DeliveryConfig) Fees() (delivery.Fees, error) {
	fees := delivery.Fees{
		InsideRegion:  c.InsideFee,
		OutsideRegion: c.OutsideFee,
		Courier:       c.CourierFee,
	}

	if c.FeesFile != "" {
		data, err := os.ReadFile(c.FeesFile)
		if err != nil {
			return delivery.Fees{}, fmt.Errorf("read delivery fees file: %w", err)
		}
		if err := yaml.Unmarshal(data, &fees); err != nil {
			return delivery.Fees{}, fmt.Errorf("parse delivery fees file: %w", err)
		}
	}

	if err := fees.Validate(); err != nil {
		return delivery.Fees{}, err
	}
	return fees, nil
}

// EventsConfig holds the order event bus configuration.
// An empty URL disables publishing.
type EventsConfig struct {
	NATSURL      string `envconfig:"NATS_URL"`
	OrderSubject string `envconfig:"NATS_ORDER_SUBJECT" default:"orders.created"`
}

// Enabled reports whether order events should be published.
func (c EventsConfig) Enabled() bool {
	return c.NATSURL != ""
}

// Load parses environment variables into the Config struct and checks the
// delivery fee table.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Delivery.Fees(); err != nil {
		return nil, fmt.Errorf("delivery config: %w", err)
	}
	return &cfg, nil
}
