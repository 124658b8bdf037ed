package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "hotel_pantry_items", cfg.Store.Key)
	assert.Equal(t, "reject", cfg.AI.SlotPolicy)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8181
store:
  driver: memory
ai:
  provider: ollama
  model: llava
  timeout: 15s
  slot_policy: supersede
events:
  kafka:
    brokers: ["localhost:9092"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "ollama", cfg.AI.Provider)
	assert.Equal(t, 15*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "supersede", cfg.AI.SlotPolicy)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.Kafka.Brokers)
	assert.Equal(t, "kitchenops.inventory", cfg.Events.Kafka.Topic)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("KITCHENOPS_PORT", "7000")
	t.Setenv("KITCHENOPS_STORE_DRIVER", "redis")
	t.Setenv("KITCHENOPS_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("KITCHENOPS_KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Events.Kafka.Brokers)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
}

func TestLoadRejectsInvalidPortEnv(t *testing.T) {
	t.Setenv("KITCHENOPS_PORT", "eighty")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [port"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }},
		{"redis without url", func(c *Config) { c.Store.Driver = "redis" }},
		{"sqlite without dsn", func(c *Config) { c.Store.DSN = "" }},
		{"unknown provider", func(c *Config) { c.AI.Provider = "azure" }},
		{"unknown slot policy", func(c *Config) { c.AI.SlotPolicy = "queue" }},
		{"zero timeout", func(c *Config) { c.AI.Timeout = 0 }},
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"kafka without topic", func(c *Config) {
			c.Events.Kafka.Brokers = []string{"k:9092"}
			c.Events.Kafka.Topic = ""
		}},
		{"zero label cache", func(c *Config) { c.Labels.CacheSize = 0 }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSampleConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default().Server, cfg.Server)
	assert.Equal(t, "us-east-1", cfg.Archive.Region)
	assert.Empty(t, cfg.Events.Kafka.Brokers)
}
