package orderbook

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/logger"
	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
	orderv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/order/v1"
	orderbookDomain "github.com/dset/Cloud-Market/services/venue/internal/domain/orderbook"
	orderbookv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/orderbook/v1"
	"github.com/dset/Cloud-Market/services/venue/internal/infrastructure/postgresql/order"
)

type usecase struct {
	orderRepository order.OrderRepository
	logger          logger.Interface
}

var _ orderbookDomain.Usecase = (*usecase)(nil)

// NewUsecase creates a new order book usecase.
func NewUsecase(orderRepository order.OrderRepository, logger logger.Interface) *usecase {
	return &usecase{
		orderRepository: orderRepository,
		logger:          logger,
	}
}

// GetOrderBook projects the resting orders of an instrument into bids and
// asks. The book is computed from the store on every call.
func (u *usecase) GetOrderBook(ctx context.Context, instrument string) (*orderbookv1.Book, error) {
	if n := utf8.RuneCountInString(instrument); n < orderv1.InstrumentMinLength || n > orderv1.InstrumentMaxLength {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("instrument must be between %d and %d characters", orderv1.InstrumentMinLength, orderv1.InstrumentMaxLength),
			string(errors.OrderInvalidInstrument), "instrument")
	}

	orders, err := u.orderRepository.ListActive(ctx, instrument)
	if err != nil {
		return nil, err
	}

	resting := make([]matchingv1.RestingOrder, 0, len(orders))
	for _, o := range orders {
		resting = append(resting, o.ToResting())
	}

	book := orderbookv1.NewBook(instrument, resting)

	fields := []logger.Field{
		{Key: "action", Value: "get_order_book"},
		{Key: "instrument", Value: instrument},
		{Key: "bids", Value: len(book.Bids)},
		{Key: "asks", Value: len(book.Asks)},
	}
	if bid, ok := book.BestBid(); ok {
		fields = append(fields, logger.Field{Key: "best_bid", Value: bid.Price.String()})
	}
	if ask, ok := book.BestAsk(); ok {
		fields = append(fields, logger.Field{Key: "best_ask", Value: ask.Price.String()})
	}
	u.logger.DebugContext(ctx, "Projected order book", fields...)

	return book, nil
}
