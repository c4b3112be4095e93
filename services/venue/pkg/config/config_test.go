package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dset/Cloud-Market/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, ":8080", cfg.App.HTTPAddress)
	assert.Equal(t, "venue", cfg.Postgres.Database)
	assert.Equal(t, redis.Standalone, cfg.Redis.Mode)
	assert.Equal(t, []string{"localhost:9092"}, cfg.TradeKafka.Brokers)
	assert.Equal(t, 10, cfg.Coordinator.MaxAttempts)
	assert.Equal(t, 5*time.Millisecond, cfg.Coordinator.BaseDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.Coordinator.MaxDelay)
	assert.Equal(t, 2*time.Second, cfg.Coordinator.SideEffectTimeout)
	assert.True(t, cfg.Coordinator.SelfTradePrevention)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_MAX_CONNS", "8")
	t.Setenv("REDIS_ADDRS", "r1:6379,r2:6379")
	t.Setenv("REDIS_MODE", "cluster")
	t.Setenv("TRADE_KAFKA_TOPIC", "trades")
	t.Setenv("COORDINATOR_MAX_ATTEMPTS", "3")
	t.Setenv("COORDINATOR_SELF_TRADE_PREVENTION", "false")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg := &Config{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, int32(8), cfg.Postgres.MaxConns)
	assert.Equal(t, []string{"r1:6379", "r2:6379"}, cfg.Redis.Addrs)
	assert.Equal(t, redis.Cluster, cfg.Redis.Mode)
	assert.Equal(t, "trades", cfg.TradeKafka.Topic)
	assert.Equal(t, 3, cfg.Coordinator.MaxAttempts)
	assert.False(t, cfg.Coordinator.SelfTradePrevention)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MIGRATION_DIR=/srv/migrations\nPOSTGRES_DATABASE=venue_dotenv\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("MIGRATION_DIR")
		os.Unsetenv("POSTGRES_DATABASE")
	})

	cfg := &MigrateConfig{}
	require.NoError(t, Load(cfg, path))

	assert.Equal(t, "/srv/migrations", cfg.Migration.MigrationDir)
	assert.Equal(t, "venue_dotenv", cfg.Postgres.Database)
	assert.Equal(t, "schema_migrations", cfg.Migration.TableName)
}

func TestLoad_MissingFile(t *testing.T) {
	assert.Error(t, Load(&Config{}, filepath.Join(t.TempDir(), "absent.env")))
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("COORDINATOR_MAX_ATTEMPTS", "many")

	assert.Error(t, Load(&Config{}))
}
