package trade

import (
	"context"

	"github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/logger"
	"github.com/dset/Cloud-Market/pkg/postgresql"
)

const table = "trades"

// repository is the repository for the trade.
type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// StoreBatch inserts trades with a single multi-row statement. The orders
// they reference must already exist in the same transaction.
func (r *repository) StoreBatch(ctx context.Context, trades []*Trade) error {
	if len(trades) == 0 {
		return nil
	}

	builder := postgresql.NewInsertBuilder().
		Into(table).
		Columns("id", "instrument", "volume", "price", "taker_order_id", "maker_order_id", "taker_owner", "maker_owner")

	for _, t := range trades {
		builder = builder.Values(
			t.ID,
			t.Instrument,
			t.Volume,
			t.Price,
			t.TakerOrderID,
			t.MakerOrderID,
			t.TakerOwner,
			t.MakerOwner,
		)
	}

	query, args := builder.Build()

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.DebugContext(ctx, "Inserted batch of trades",
		logger.Field{Key: "action", Value: "store_trades"},
		logger.Field{Key: "rows", Value: cmd.RowsAffected()},
	)

	return nil
}

// GetByID gets a trade by ID.
func (r *repository) GetByID(ctx context.Context, id string) (*Trade, error) {
	query, args := postgresql.NewSelectBuilder().
		Select("id", "instrument", "volume", "price", "taker_order_id", "maker_order_id", "taker_owner", "maker_owner", "create_time").
		From(table).
		Where("id = ?", id).
		Build()

	trade := &Trade{}
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&trade.ID,
		&trade.Instrument,
		&trade.Volume,
		&trade.Price,
		&trade.TakerOrderID,
		&trade.MakerOrderID,
		&trade.TakerOwner,
		&trade.MakerOwner,
		&trade.CreateTime,
	)
	if err != nil {
		if postgresql.IsNoRows(err) {
			return nil, errors.NewErrorDetails("trade "+id+" not found", string(errors.GeneralNotFoundError), "id")
		}
		return nil, errors.TracerFromError(err)
	}

	return trade, nil
}
