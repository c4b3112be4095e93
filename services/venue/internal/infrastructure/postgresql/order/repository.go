package order

import (
	"context"

	"github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/logger"
	"github.com/dset/Cloud-Market/pkg/postgresql"
	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
)

const table = "orders"

var columns = []string{
	"id",
	"owner",
	"instrument",
	"side",
	"price",
	"total_volume",
	"active_volume",
	"filled_volume",
	"cancelled_volume",
	"related_trades",
	"create_time",
}

// repository is the repository for the order.
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

// Store inserts a new order and fills in its creation time.
func (r *repository) Store(ctx context.Context, order *Order) error {
	query, args := postgresql.NewInsertBuilder().
		Into(table).
		Columns("id", "owner", "instrument", "side", "price", "total_volume", "active_volume", "filled_volume", "related_trades").
		Values(
			order.ID,
			order.Owner,
			order.Instrument,
			string(order.Side),
			order.Price,
			order.TotalVolume,
			order.ActiveVolume,
			order.FilledVolume,
			order.RelatedTrades,
		).
		Returning("create_time").
		Build()

	if err := r.db.QueryRow(ctx, query, args...).Scan(&order.CreateTime); err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.DebugContext(ctx, "Inserted order",
		logger.Field{Key: "action", Value: "store_order"},
		logger.Field{Key: "order_id", Value: order.ID},
	)

	return nil
}

// GetByID gets an order by ID.
func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	query, args := postgresql.NewSelectBuilder().
		Select(columns...).
		From(table).
		Where("id = ?", id).
		Build()

	return r.getOne(ctx, id, query, args)
}

// GetByIDForUpdate gets an order by ID and locks its row until the
// surrounding transaction ends.
func (r *repository) GetByIDForUpdate(ctx context.Context, id string) (*Order, error) {
	query, args := postgresql.NewSelectBuilder().
		Select(columns...).
		From(table).
		Where("id = ?", id).
		ForUpdate().
		Build()

	return r.getOne(ctx, id, query, args)
}

func (r *repository) getOne(ctx context.Context, id, query string, args []any) (*Order, error) {
	order := &Order{}
	err := r.db.QueryRow(ctx, query, args...).Scan(scanTargets(order)...)
	if err != nil {
		if postgresql.IsNoRows(err) {
			return nil, errors.NewErrorDetails("order "+id+" not found", string(errors.GeneralNotFoundError), "id")
		}
		return nil, errors.TracerFromError(err)
	}

	return order, nil
}

// ListByOwner lists the owner's orders, oldest first.
func (r *repository) ListByOwner(ctx context.Context, owner string) ([]*Order, error) {
	query, args := postgresql.NewSelectBuilder().
		Select(columns...).
		From(table).
		Where("owner = ?", owner).
		OrderBy("create_time").
		OrderBy("id").
		Build()

	return r.list(ctx, query, args)
}

// ListCandidates lists the resting orders that cross filter's limit price,
// best price first, then oldest first.
func (r *repository) ListCandidates(ctx context.Context, filter CandidateFilter) ([]*Order, error) {
	builder := postgresql.NewSelectBuilder().
		Select(columns...).
		From(table).
		Where("instrument = ?", filter.Instrument).
		Where("side = ?", string(filter.TakerSide.Opposite())).
		Where("active_volume > 0")

	if filter.TakerSide == matchingv1.Buy {
		builder = builder.Where("price <= ?", filter.LimitPrice).OrderBy("price")
	} else {
		builder = builder.Where("price >= ?", filter.LimitPrice).OrderBy("price", true)
	}

	query, args := builder.
		OrderBy("create_time").
		OrderBy("id").
		Build()

	return r.list(ctx, query, args)
}

// ListActive lists every order of the instrument that still has active volume.
func (r *repository) ListActive(ctx context.Context, instrument string) ([]*Order, error) {
	query, args := postgresql.NewSelectBuilder().
		Select(columns...).
		From(table).
		Where("instrument = ?", instrument).
		Where("active_volume > 0").
		OrderBy("create_time").
		OrderBy("id").
		Build()

	return r.list(ctx, query, args)
}

func (r *repository) list(ctx context.Context, query string, args []any) ([]*Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		order := &Order{}
		if err := rows.Scan(scanTargets(order)...); err != nil {
			return nil, errors.TracerFromError(err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return orders, nil
}

// ApplyFill moves update.Fill from active to filled volume and records the
// trade. The row must still hold at least the fill; otherwise another
// transaction consumed it first and a transaction conflict is returned.
func (r *repository) ApplyFill(ctx context.Context, update matchingv1.OrderUpdate) error {
	query, args := postgresql.NewUpdateBuilder().
		Table(table).
		SetExpr("active_volume = active_volume - ?", update.Fill).
		SetExpr("filled_volume = filled_volume + ?", update.Fill).
		SetExpr("related_trades = array_append(related_trades, ?)", update.TradeID).
		Where("id = ?", update.OrderID).
		Where("active_volume >= ?", update.Fill).
		Build()

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.TracerFromError(err)
	}

	if cmd.RowsAffected() == 0 {
		return errors.NewErrorDetails("order "+update.OrderID+" no longer holds the matched volume",
			string(errors.TransactionConflictError), "active_volume")
	}

	return nil
}

// Cancel withdraws the remaining active volume of an order. Filled volume
// is left untouched.
func (r *repository) Cancel(ctx context.Context, id string) error {
	query, args := postgresql.NewUpdateBuilder().
		Table(table).
		SetExpr("cancelled_volume = cancelled_volume + active_volume").
		Set("active_volume", 0).
		Where("id = ?", id).
		Build()

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.TracerFromError(err)
	}

	if cmd.RowsAffected() == 0 {
		return errors.NewErrorDetails("order "+id+" not found", string(errors.GeneralNotFoundError), "id")
	}

	r.logger.InfoContext(ctx, "Cancelled order",
		logger.Field{Key: "action", Value: "cancel_order"},
		logger.Field{Key: "order_id", Value: id},
	)

	return nil
}

func scanTargets(order *Order) []any {
	return []any{
		&order.ID,
		&order.Owner,
		&order.Instrument,
		&order.Side,
		&order.Price,
		&order.TotalVolume,
		&order.ActiveVolume,
		&order.FilledVolume,
		&order.CancelledVolume,
		&order.RelatedTrades,
		&order.CreateTime,
	}
}
