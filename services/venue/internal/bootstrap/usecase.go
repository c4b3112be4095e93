package bootstrap

import (
	orderUc "github.com/dset/Cloud-Market/services/venue/internal/usecase/order"
	orderbookUc "github.com/dset/Cloud-Market/services/venue/internal/usecase/orderbook"
	tradeUc "github.com/dset/Cloud-Market/services/venue/internal/usecase/trade"

	orderDomain "github.com/dset/Cloud-Market/services/venue/internal/domain/order"
	orderbookDomain "github.com/dset/Cloud-Market/services/venue/internal/domain/orderbook"
	tradeDomain "github.com/dset/Cloud-Market/services/venue/internal/domain/trade"
)

// Usecase is the usecase for the venue service.
type Usecase struct {
	OrderUsecase     orderDomain.Usecase
	TradeUsecase     tradeDomain.Usecase
	OrderbookUsecase orderbookDomain.Usecase
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() {
	opts := orderUc.DefaultOptions()
	opts.MaxAttempts = b.Config.Coordinator.MaxAttempts
	opts.BaseDelay = b.Config.Coordinator.BaseDelay
	opts.MaxDelay = b.Config.Coordinator.MaxDelay
	opts.SideEffectTimeout = b.Config.Coordinator.SideEffectTimeout

	b.Usecase.OrderUsecase = orderUc.NewUsecaseWithOptions(orderUc.Dependencies{
		OrderRepository: b.Repository.OrderRepository,
		TradeRepository: b.Repository.TradeRepository,
		Transaction:     b.Infrastructure.Transaction,
		Publisher:       b.Infrastructure.TradePublisher,
		Notifier:        b.Infrastructure.BookNotifier,
		Idempotency:     b.Infrastructure.Idempotency,
		Logger:          b.Logger,
	}, opts)
	b.Usecase.TradeUsecase = tradeUc.NewUsecase(b.Repository.TradeRepository, b.Logger)
	b.Usecase.OrderbookUsecase = orderbookUc.NewUsecase(b.Repository.OrderRepository, b.Logger)
}
