package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerPort    int           `envconfig:"SERVER_PORT" default:"8080"`
	SnapshotPath  string        `envconfig:"SNAPSHOT_PATH" default:"farmstand.db"`
	JWTSecret     string        `envconfig:"JWT_SECRET" default:"farmstand-dev-secret"`
	KafkaBrokers  []string      `envconfig:"KAFKA_BROKERS"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	CheckoutDelay time.Duration `envconfig:"CHECKOUT_DELAY" default:"1500ms"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
