package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Environment string        `yaml:"environment"`
	Server      ServerConfig  `yaml:"server"`
	Log         LogConfig     `yaml:"log"`
	Store       StoreConfig   `yaml:"store"`
	AI          AIConfig      `yaml:"ai"`
	Auth        AuthConfig    `yaml:"auth"`
	Events      EventsConfig  `yaml:"events"`
	Archive     ArchiveConfig `yaml:"archive"`
	Labels      LabelsConfig  `yaml:"labels"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Port        int      `yaml:"port"`
	MetricsPort int      `yaml:"metrics_port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// LogConfig holds the structured logging settings
type LogConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

// StoreConfig selects and configures the item store
type StoreConfig struct {
	Driver   string `yaml:"driver"` // sqlite, postgres, redis, memory
	DSN      string `yaml:"dsn"`
	RedisURL string `yaml:"redis_url"`
	Key      string `yaml:"key"`
}

// AIConfig configures the AI gateway
type AIConfig struct {
	Provider    string        `yaml:"provider"` // openai, ollama
	Model       string        `yaml:"model"`
	VisionModel string        `yaml:"vision_model"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	SlotPolicy  string        `yaml:"slot_policy"` // reject, supersede
}

// AuthConfig configures session tokens issued by the login gate
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// EventsConfig configures downstream change-event publishers. Empty sections are disabled.
type EventsConfig struct {
	Kafka KafkaConfig `yaml:"kafka"`
	AMQP  AMQPConfig  `yaml:"amqp"`
}

// KafkaConfig configures the Kafka publisher
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// AMQPConfig configures the RabbitMQ publisher
type AMQPConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// ArchiveConfig configures the intake photo archive. An empty bucket disables it.
type ArchiveConfig struct {
	S3Bucket string `yaml:"s3_bucket"`
	Region   string `yaml:"region"`
	Prefix   string `yaml:"prefix"`
}

// LabelsConfig configures QR label rendering
type LabelsConfig struct {
	CacheSize int `yaml:"cache_size"`
	Size      int `yaml:"size"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Environment: "dev",
		Server: ServerConfig{
			Port:        8080,
			MetricsPort: 9090,
			CORSOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "kitchenops.db",
			Key:    "hotel_pantry_items",
		},
		AI: AIConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			VisionModel: "gpt-4o",
			Timeout:     60 * time.Second,
			SlotPolicy:  "reject",
		},
		Auth: AuthConfig{
			JWTSecret: "kitchenops-dev-secret",
			TokenTTL:  12 * time.Hour,
		},
		Events: EventsConfig{
			Kafka: KafkaConfig{Topic: "kitchenops.inventory"},
			AMQP:  AMQPConfig{Exchange: "kitchenops_inventory"},
		},
		Archive: ArchiveConfig{
			Prefix: "intake-photos",
		},
		Labels: LabelsConfig{
			CacheSize: 256,
			Size:      256,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies .env and environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Environment, "KITCHENOPS_ENV")
	setString(&c.Log.Level, "KITCHENOPS_LOG_LEVEL")
	setString(&c.Log.Format, "KITCHENOPS_LOG_FORMAT")
	setString(&c.Store.Driver, "KITCHENOPS_STORE_DRIVER")
	setString(&c.Store.DSN, "KITCHENOPS_STORE_DSN")
	setString(&c.Store.RedisURL, "KITCHENOPS_REDIS_URL")
	setString(&c.AI.Provider, "KITCHENOPS_AI_PROVIDER")
	setString(&c.AI.Model, "KITCHENOPS_AI_MODEL")
	setString(&c.AI.VisionModel, "KITCHENOPS_AI_VISION_MODEL")
	setString(&c.AI.BaseURL, "KITCHENOPS_AI_BASE_URL")
	setString(&c.AI.SlotPolicy, "KITCHENOPS_AI_SLOT_POLICY")
	setString(&c.Auth.JWTSecret, "KITCHENOPS_JWT_SECRET")
	setString(&c.Events.AMQP.URL, "KITCHENOPS_AMQP_URL")
	setString(&c.Archive.S3Bucket, "KITCHENOPS_S3_BUCKET")
	setString(&c.Archive.Region, "AWS_REGION")

	if v := os.Getenv("KITCHENOPS_KAFKA_BROKERS"); v != "" {
		c.Events.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KITCHENOPS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid KITCHENOPS_PORT: %w", err)
		}
		c.Server.Port = port
	}

	if c.AI.APIKey == "" && c.AI.Provider == "openai" {
		c.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks the configuration for values the server cannot start with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.Server.MetricsPort)
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store driver %s requires a dsn", c.Store.Driver)
		}
	case "redis":
		if c.Store.RedisURL == "" {
			return errors.New("store driver redis requires redis_url")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}
	if c.Store.Key == "" {
		return errors.New("store key must not be empty")
	}

	switch c.AI.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unknown ai provider: %q", c.AI.Provider)
	}
	switch c.AI.SlotPolicy {
	case "reject", "supersede":
	default:
		return fmt.Errorf("unknown slot policy: %q", c.AI.SlotPolicy)
	}
	if c.AI.Timeout <= 0 {
		return errors.New("ai timeout must be positive")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("auth jwt_secret must not be empty")
	}
	if len(c.Events.Kafka.Brokers) > 0 && c.Events.Kafka.Topic == "" {
		return errors.New("kafka topic is required when brokers are set")
	}
	if c.Events.AMQP.URL != "" && c.Events.AMQP.Exchange == "" {
		return errors.New("amqp exchange is required when url is set")
	}
	if c.Labels.CacheSize <= 0 {
		return errors.New("labels cache_size must be positive")
	}
	return nil
}
