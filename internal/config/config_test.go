package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("RECEIPTS_WORKERS", "")
	t.Setenv("BACKEND_TIMEOUT", "")
	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, 4, cfg.ReceiptsWorkers)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092")
	t.Setenv("RECEIPTS_WORKERS", "x")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("REPORT_TZ", "UTC")
	cfg := Load()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 4, cfg.ReceiptsWorkers)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLocation_Invalid(t *testing.T) {
	_, err := Config{ReportTZ: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}
