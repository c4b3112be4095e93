package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	migrationpg "github.com/dset/Cloud-Market/pkg/migration-pg"
	"github.com/dset/Cloud-Market/pkg/postgresql"
	"github.com/dset/Cloud-Market/pkg/redis"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and an
// optional .env file, panicking on invalid values.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load()

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and an optional
// .env file. A missing .env file is not an error.
func Load[T any](cfg T, files ...string) error {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return err
	}

	return env.Parse(cfg)
}

// Config holds the configuration of the venue HTTP service.
type Config struct {
	App         AppConfig         `envPrefix:"APP_"`
	Postgres    postgresql.Config `envPrefix:"POSTGRES_"`
	Redis       redis.Config      `envPrefix:"REDIS_"`
	TradeKafka  KafkaConfig       `envPrefix:"TRADE_KAFKA_"`
	Coordinator CoordinatorConfig `envPrefix:"COORDINATOR_"`
	Auth        AuthConfig        `envPrefix:"AUTH_"`
}

// MigrateConfig holds the configuration of the migration command.
type MigrateConfig struct {
	App       AppConfig          `envPrefix:"APP_"`
	Postgres  postgresql.Config  `envPrefix:"POSTGRES_"`
	Migration migrationpg.Config `envPrefix:"MIGRATION_"`
}

// TradeTailConfig holds the configuration of the trade tail command.
type TradeTailConfig struct {
	App        AppConfig   `envPrefix:"APP_"`
	TradeKafka KafkaConfig `envPrefix:"TRADE_KAFKA_"`
	GroupID    string      `env:"TRADE_TAIL_GROUP_ID"`
}

// AppConfig holds process level settings.
type AppConfig struct {
	Name            string        `env:"NAME" envDefault:"venue"`
	Environment     string        `env:"ENV" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddress     string        `env:"HTTP_ADDRESS" envDefault:":8080"`
	GRPCAddress     string        `env:"GRPC_ADDRESS" envDefault:":9090"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	ReadyTimeout    time.Duration `env:"READY_TIMEOUT" envDefault:"2s"`
}

// KafkaConfig holds the configuration of the trade event writer.
type KafkaConfig struct {
	Enabled      bool          `env:"ENABLED" envDefault:"true"`
	Brokers      []string      `env:"BROKERS" envDefault:"localhost:9092"`
	Topic        string        `env:"TOPIC" envDefault:"venue.trades"`
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"10ms"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`
}

// CoordinatorConfig bounds the retries of conflicting transactions.
type CoordinatorConfig struct {
	MaxAttempts         int           `env:"MAX_ATTEMPTS" envDefault:"10"`
	BaseDelay           time.Duration `env:"BASE_DELAY" envDefault:"5ms"`
	MaxDelay            time.Duration `env:"MAX_DELAY" envDefault:"250ms"`
	SideEffectTimeout   time.Duration `env:"SIDE_EFFECT_TIMEOUT" envDefault:"2s"`
	SelfTradePrevention bool          `env:"SELF_TRADE_PREVENTION" envDefault:"true"`
	IdempotencyTTL      time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	BookChannel         string        `env:"BOOK_CHANNEL" envDefault:"orderbook"`
}

// AuthConfig holds the token verification keys. One of them must be set.
type AuthConfig struct {
	JWTPublicKey string        `env:"JWT_PUBLIC_KEY"`
	JWTSecret    string        `env:"JWT_SECRET"`
	Issuer       string        `env:"JWT_ISSUER"`
	Leeway       time.Duration `env:"JWT_LEEWAY" envDefault:"30s"`
}
