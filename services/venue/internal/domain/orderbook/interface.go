package orderbook

import (
	"context"

	orderbookv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/orderbook/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=mock

// Usecase is the usecase for the order book projection.
type Usecase interface {
	GetOrderBook(ctx context.Context, instrument string) (*orderbookv1.Book, error)
}
