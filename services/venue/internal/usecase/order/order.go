package order

import (
	"context"

	"github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/logger"
	"github.com/dset/Cloud-Market/pkg/postgresql"
	booknotifierv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/book-notifier/v1"
	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
	orderDomain "github.com/dset/Cloud-Market/services/venue/internal/domain/order"
	orderv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/order/v1"
	tradepublisherv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/trade-publisher/v1"
	"github.com/dset/Cloud-Market/services/venue/internal/infrastructure/postgresql/order"
	"github.com/dset/Cloud-Market/services/venue/internal/infrastructure/postgresql/trade"
)

// Dependencies are the collaborators of the order usecase. Publisher,
// Notifier and Idempotency are optional.
type Dependencies struct {
	OrderRepository order.OrderRepository
	TradeRepository trade.TradeRepository
	Transaction     postgresql.Transaction
	Publisher       tradepublisherv1.TradePublisher
	Notifier        booknotifierv1.BookNotifier
	Idempotency     orderDomain.IdempotencyStore
	Logger          logger.Interface
}

type usecase struct {
	orderRepository order.OrderRepository
	tradeRepository trade.TradeRepository
	tx              postgresql.Transaction
	publisher       tradepublisherv1.TradePublisher
	notifier        booknotifierv1.BookNotifier
	idempotency     orderDomain.IdempotencyStore
	logger          logger.Interface

	retrier *retrier
	opts    *Options
}

var _ orderDomain.Usecase = (*usecase)(nil)

// NewUsecase creates a new order usecase with the default options.
func NewUsecase(deps Dependencies) *usecase {
	return NewUsecaseWithOptions(deps, DefaultOptions())
}

// NewUsecaseWithOptions creates a new order usecase.
func NewUsecaseWithOptions(deps Dependencies, opts *Options) *usecase {
	opts = opts.withDefaults()

	return &usecase{
		orderRepository: deps.OrderRepository,
		tradeRepository: deps.TradeRepository,
		tx:              deps.Transaction,
		publisher:       deps.Publisher,
		notifier:        deps.Notifier,
		idempotency:     deps.Idempotency,
		logger:          deps.Logger,
		retrier:         newRetrier(opts, deps.Logger),
		opts:            opts,
	}
}

// SubmitOrder validates req, matches it against the book and persists the
// outcome in one serializable transaction, rerunning the whole read-match-
// write cycle when a concurrent submission wins a race. It returns the id
// of the new order.
func (u *usecase) SubmitOrder(ctx context.Context, req orderv1.SubmitOrderRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	if req.IdempotencyKey != "" && u.idempotency != nil {
		return u.submitIdempotent(ctx, req)
	}

	return u.submit(ctx, req)
}

func (u *usecase) submitIdempotent(ctx context.Context, req orderv1.SubmitOrderRequest) (string, error) {
	orderID, err := u.idempotency.Lookup(ctx, req.Owner, req.IdempotencyKey)
	if err != nil {
		return "", err
	}
	if orderID != "" {
		u.logger.InfoContext(ctx, "Replayed order submission",
			logger.Field{Key: "action", Value: "submit_order"},
			logger.Field{Key: "order_id", Value: orderID},
		)
		return orderID, nil
	}

	reserved, err := u.idempotency.Reserve(ctx, req.Owner, req.IdempotencyKey)
	if err != nil {
		return "", err
	}
	if !reserved {
		return "", errors.NewErrorDetails("a submission with this idempotency key is in progress",
			string(errors.GeneralConflictError), "idempotency_key")
	}

	orderID, err = u.submit(ctx, req)
	if err != nil {
		if relErr := u.idempotency.Release(context.WithoutCancel(ctx), req.Owner, req.IdempotencyKey); relErr != nil {
			u.logger.ErrorContext(ctx, relErr, logger.Field{Key: "action", Value: "release_idempotency_key"})
		}
		return "", err
	}

	if err := u.idempotency.Complete(context.WithoutCancel(ctx), req.Owner, req.IdempotencyKey, orderID); err != nil {
		u.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "complete_idempotency_key"},
			logger.Field{Key: "order_id", Value: orderID},
		)
	}

	return orderID, nil
}

func (u *usecase) submit(ctx context.Context, req orderv1.SubmitOrderRequest) (string, error) {
	intent := req.Intent(u.opts.NewID())

	var result matchingv1.Result
	err := u.retrier.do(ctx, "submit_order", func(ctx context.Context) error {
		return postgresql.RunInTx(ctx, u.tx, postgresql.SerializableTxOptions(), func(ctx context.Context) error {
			var err error
			result, err = u.matchAndStore(ctx, intent, req.SelfTradePrevention)
			return err
		})
	})
	if err != nil {
		return "", err
	}

	u.logger.InfoContext(ctx, "Order submitted",
		logger.Field{Key: "action", Value: "submit_order"},
		logger.Field{Key: "order_id", Value: intent.OrderID},
		logger.Field{Key: "instrument", Value: intent.Instrument},
		logger.Field{Key: "trades", Value: len(result.Trades)},
	)

	sideCtx, cancel := u.sideEffectContext(ctx)
	defer cancel()
	u.afterSubmit(sideCtx, intent, result)

	return intent.OrderID, nil
}

// matchAndStore runs one attempt of a submission inside the transaction
// carried by ctx.
func (u *usecase) matchAndStore(ctx context.Context, intent matchingv1.Intent, selfTradePrevention bool) (matchingv1.Result, error) {
	candidates, err := u.orderRepository.ListCandidates(ctx, order.NewCandidateFilter(intent))
	if err != nil {
		return matchingv1.Result{}, err
	}

	resting := make([]matchingv1.RestingOrder, 0, len(candidates))
	for _, c := range candidates {
		resting = append(resting, c.ToResting())
	}

	result := matchingv1.Match(intent, resting, matchingv1.Options{
		SelfTradePrevention: selfTradePrevention,
		NewTradeID:          u.opts.NewID,
	})

	if err := u.orderRepository.Store(ctx, order.NewOrderFromDraft(result.Order)); err != nil {
		return matchingv1.Result{}, err
	}

	if len(result.Trades) > 0 {
		trades := make([]*trade.Trade, 0, len(result.Trades))
		for _, t := range result.Trades {
			trades = append(trades, trade.NewTradeFromDraft(t))
		}
		if err := u.tradeRepository.StoreBatch(ctx, trades); err != nil {
			return matchingv1.Result{}, err
		}
	}

	for _, update := range result.Updates {
		if err := u.orderRepository.ApplyFill(ctx, update); err != nil {
			return matchingv1.Result{}, err
		}
	}

	return result, nil
}

// sideEffectContext detaches ctx from the caller's cancellation and bounds
// it by SideEffectTimeout.
func (u *usecase) sideEffectContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), u.opts.SideEffectTimeout)
}

// afterSubmit announces a committed submission. Failures are logged only;
// the store already holds the outcome.
func (u *usecase) afterSubmit(ctx context.Context, intent matchingv1.Intent, result matchingv1.Result) {
	now := u.opts.Now()

	if u.publisher != nil && len(result.Trades) > 0 {
		events := make([]*tradepublisherv1.TradeEvent, 0, len(result.Trades))
		for _, t := range result.Trades {
			events = append(events, tradepublisherv1.CreateFromTrade(t, intent.Side, now))
		}
		if err := u.publisher.PublishTrades(ctx, events); err != nil {
			u.logger.WarnContext(ctx, "Failed to publish trades",
				logger.Field{Key: "action", Value: "publish_trades"},
				logger.Field{Key: "order_id", Value: intent.OrderID},
				logger.Field{Key: "error", Value: err.Error()},
			)
		}
	}

	u.notify(ctx, booknotifierv1.NewBookChanged(intent.Instrument, booknotifierv1.ReasonSubmit, intent.OrderID, len(result.Trades), now))
}

func (u *usecase) notify(ctx context.Context, change *booknotifierv1.BookChanged) {
	if u.notifier == nil {
		return
	}
	if err := u.notifier.NotifyBookChanged(ctx, change); err != nil {
		u.logger.WarnContext(ctx, "Failed to notify book change",
			logger.Field{Key: "action", Value: "notify_book"},
			logger.Field{Key: "order_id", Value: change.OrderID},
			logger.Field{Key: "error", Value: err.Error()},
		)
	}
}

// CancelOrder withdraws the remaining active volume of the requester's
// order. Filled volume is kept. Cancelling an order with nothing left
// active succeeds without changes.
func (u *usecase) CancelOrder(ctx context.Context, orderID, requester string) error {
	var cancelled *order.Order

	err := u.retrier.do(ctx, "cancel_order", func(ctx context.Context) error {
		cancelled = nil
		return postgresql.RunInTx(ctx, u.tx, postgresql.SerializableTxOptions(), func(ctx context.Context) error {
			o, err := u.orderRepository.GetByIDForUpdate(ctx, orderID)
			if err != nil {
				return err
			}
			if o.Owner != requester {
				return unauthorized("order", orderID)
			}
			if !o.IsActive() {
				return nil
			}
			if err := u.orderRepository.Cancel(ctx, orderID); err != nil {
				return err
			}
			cancelled = o
			return nil
		})
	})
	if err != nil {
		return err
	}

	if cancelled == nil {
		return nil
	}

	u.logger.InfoContext(ctx, "Order cancelled",
		logger.Field{Key: "action", Value: "cancel_order"},
		logger.Field{Key: "order_id", Value: orderID},
		logger.Field{Key: "withdrawn", Value: cancelled.ActiveVolume.String()},
	)

	sideCtx, cancel := u.sideEffectContext(ctx)
	defer cancel()
	u.notify(sideCtx, booknotifierv1.NewBookChanged(cancelled.Instrument, booknotifierv1.ReasonCancel, orderID, 0, u.opts.Now()))

	return nil
}

// GetOrder gets the requester's order.
func (u *usecase) GetOrder(ctx context.Context, orderID, requester string) (*order.Order, error) {
	o, err := u.orderRepository.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Owner != requester {
		return nil, unauthorized("order", orderID)
	}
	return o, nil
}

// ListOrders lists the owner's orders, oldest first.
func (u *usecase) ListOrders(ctx context.Context, owner string) ([]*order.Order, error) {
	return u.orderRepository.ListByOwner(ctx, owner)
}

func unauthorized(object, id string) error {
	return errors.NewErrorDetails(object+" "+id+" does not belong to the requester",
		string(errors.GeneralUnauthorizedError), "id")
}
