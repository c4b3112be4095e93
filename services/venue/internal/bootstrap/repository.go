package bootstrap

import (
	orderInfra "github.com/dset/Cloud-Market/services/venue/internal/infrastructure/postgresql/order"
	tradeInfra "github.com/dset/Cloud-Market/services/venue/internal/infrastructure/postgresql/trade"
)

// Repository is the repository for the venue service.
type Repository struct {
	OrderRepository orderInfra.OrderRepository
	TradeRepository tradeInfra.TradeRepository
}

// registerRepository registers the repository.
func (b *Bootstrap) registerRepository() {
	b.Repository.OrderRepository = orderInfra.NewRepository(b.Postgres, b.Logger)
	b.Repository.TradeRepository = tradeInfra.NewRepository(b.Postgres, b.Logger)
}
