package order

import (
	"context"

	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// OrderRepository is the repository for the order. Every method joins the
// transaction carried by ctx when there is one.
type OrderRepository interface {
	ApplyFill(ctx context.Context, update matchingv1.OrderUpdate) error
	Cancel(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Order, error)
	ListActive(ctx context.Context, instrument string) ([]*Order, error)
	ListByOwner(ctx context.Context, owner string) ([]*Order, error)
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]*Order, error)
	Store(ctx context.Context, order *Order) error
}
