package trade

import (
	"context"

	"github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/logger"
	tradeDomain "github.com/dset/Cloud-Market/services/venue/internal/domain/trade"
	"github.com/dset/Cloud-Market/services/venue/internal/infrastructure/postgresql/trade"
)

type usecase struct {
	tradeRepository trade.TradeRepository
	logger          logger.Interface
}

var _ tradeDomain.Usecase = (*usecase)(nil)

// NewUsecase creates a new trade usecase.
func NewUsecase(tradeRepository trade.TradeRepository, logger logger.Interface) *usecase {
	return &usecase{
		tradeRepository: tradeRepository,
		logger:          logger,
	}
}

// GetTrade gets a trade the requester took part in on either side.
func (u *usecase) GetTrade(ctx context.Context, tradeID, requester string) (*trade.Trade, error) {
	t, err := u.tradeRepository.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if !t.InvolvesOwner(requester) {
		u.logger.DebugContext(ctx, "Trade requested by a non-participant",
			logger.Field{Key: "action", Value: "get_trade"},
			logger.Field{Key: "trade_id", Value: tradeID},
		)
		return nil, errors.NewErrorDetails("trade "+tradeID+" does not involve the requester",
			string(errors.GeneralUnauthorizedError), "id")
	}

	return t, nil
}
