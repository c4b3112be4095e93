package order

import (
	"context"

	orderv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/order/v1"
	orderInfra "github.com/dset/Cloud-Market/services/venue/internal/infrastructure/postgresql/order"
)

//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=mock

// Usecase is the usecase for the order.
type Usecase interface {
	CancelOrder(ctx context.Context, orderID, requester string) error
	GetOrder(ctx context.Context, orderID, requester string) (*orderInfra.Order, error)
	ListOrders(ctx context.Context, owner string) ([]*orderInfra.Order, error)
	SubmitOrder(ctx context.Context, req orderv1.SubmitOrderRequest) (string, error)
}

// IdempotencyStore remembers which order a submission key produced.
type IdempotencyStore interface {
	// Lookup returns the order id recorded for the key, or "" when the key
	// is unknown or its submission has not completed yet.
	Lookup(ctx context.Context, owner, key string) (string, error)
	// Reserve claims the key for a new submission. It returns false when
	// another submission holds it.
	Reserve(ctx context.Context, owner, key string) (bool, error)
	// Complete records the order id produced under a reserved key.
	Complete(ctx context.Context, owner, key, orderID string) error
	// Release frees a reserved key after a failed submission.
	Release(ctx context.Context, owner, key string) error
}
