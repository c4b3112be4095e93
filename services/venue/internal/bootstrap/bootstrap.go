package bootstrap

import (
	"github.com/dset/Cloud-Market/pkg/logger"
	"github.com/dset/Cloud-Market/pkg/postgresql"
	"github.com/dset/Cloud-Market/pkg/redis"
	tradepublisher "github.com/dset/Cloud-Market/services/venue/internal/infrastructure/kafka/trade-publisher"
	"github.com/dset/Cloud-Market/services/venue/pkg/config"
)

// Bootstrap is the bootstrap for the venue service.
type Bootstrap struct {
	Infrastructure Infrastructure
	Repository     Repository
	Usecase        Usecase
	REST           REST
	Logger         logger.Interface

	Config      config.Config
	Postgres    postgresql.PostgreSQLClient
	Redis       redis.Client
	TradeWriter tradepublisher.MessageWriter
}

// BoostrapConfig is the config for the bootstrap. Redis and TradeWriter are
// optional; without them submissions are neither idempotent nor announced.
type BoostrapConfig struct {
	Config      config.Config
	Postgres    postgresql.PostgreSQLClient
	Redis       redis.Client
	TradeWriter tradepublisher.MessageWriter
	Logger      logger.Interface
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(config BoostrapConfig) (Bootstrap, error) {
	b.Config = config.Config
	b.Postgres = config.Postgres
	b.Redis = config.Redis
	b.TradeWriter = config.TradeWriter
	b.Logger = config.Logger

	b.registerInfrastructure()
	b.registerRepository()
	b.registerUsecase()
	if err := b.registerREST(); err != nil {
		return Bootstrap{}, err
	}

	return *b, nil
}
