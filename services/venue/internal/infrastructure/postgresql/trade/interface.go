package trade

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// TradeRepository is the repository for the trade.
type TradeRepository interface {
	GetByID(ctx context.Context, id string) (*Trade, error)
	StoreBatch(ctx context.Context, trades []*Trade) error
}
