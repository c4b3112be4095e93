package bootstrap

import (
	"github.com/dset/Cloud-Market/pkg/postgresql"
	booknotifierv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/book-notifier/v1"
	orderDomain "github.com/dset/Cloud-Market/services/venue/internal/domain/order"
	tradepublisherv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/trade-publisher/v1"
	tradepublisher "github.com/dset/Cloud-Market/services/venue/internal/infrastructure/kafka/trade-publisher"
	"github.com/dset/Cloud-Market/services/venue/internal/infrastructure/redis/idempotency"
	"github.com/dset/Cloud-Market/services/venue/internal/infrastructure/redis/notifier"
)

// Infrastructure holds the transaction manager and the optional side channels.
type Infrastructure struct {
	Transaction    postgresql.Transaction
	TradePublisher tradepublisherv1.TradePublisher
	BookNotifier   booknotifierv1.BookNotifier
	Idempotency    orderDomain.IdempotencyStore
}

// registerInfrastructure registers the infrastructure. Absent collaborators
// leave their interface nil.
func (b *Bootstrap) registerInfrastructure() {
	b.Infrastructure.Transaction = postgresql.NewTransaction(b.Postgres)

	if b.TradeWriter != nil {
		b.Infrastructure.TradePublisher = tradepublisher.NewPublisher(b.TradeWriter, b.Logger)
	}

	if b.Redis != nil {
		b.Infrastructure.BookNotifier = notifier.NewNotifier(b.Redis, b.Config.Coordinator.BookChannel)
		b.Infrastructure.Idempotency = idempotency.NewStore(b.Redis, b.Config.Coordinator.IdempotencyTTL)
	}
}
