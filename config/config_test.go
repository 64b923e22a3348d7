package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "order-topic", cfg.Kafka.TopicOrder)
	assert.Equal(t, 10*time.Second, cfg.Clients.RequestTimeout)
	assert.NotEmpty(t, cfg.Clients.CustomerURL)
	assert.NotEmpty(t, cfg.Clients.PaymentURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("KAFKA_BROKERS", "kafka1:9092,kafka2:9092")
	t.Setenv("CLIENT_TIMEOUT_SECONDS", "3")

	cfg := Load()

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, []string{"kafka1:9092", "kafka2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3*time.Second, cfg.Clients.RequestTimeout)
}
