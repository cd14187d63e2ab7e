package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("JWT_TTL_HOURS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_DATABASE", "shipments")

	cfg := Load()

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Contains(t, cfg.DSN(), "host=db")
	assert.Contains(t, cfg.DSN(), "dbname=shipments")
}

func TestLoadBadTTL(t *testing.T) {
	t.Setenv("JWT_TTL_HOURS", "soon")
	assert.Equal(t, 24*time.Hour, Load().JWTTTL)
}
