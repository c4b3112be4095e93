package trade

import (
	"context"

	tradeInfra "github.com/dset/Cloud-Market/services/venue/internal/infrastructure/postgresql/trade"
)

//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=mock

// Usecase is the usecase for the trade.
type Usecase interface {
	GetTrade(ctx context.Context, tradeID, requester string) (*tradeInfra.Trade, error)
}
