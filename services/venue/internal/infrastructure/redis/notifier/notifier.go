package notifier

import (
	"context"

	"github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/redis"
	booknotifierv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/book-notifier/v1"
)

// Notifier publishes order book changes on a Redis channel per instrument.
type Notifier struct {
	client  redis.Client
	channel string
}

var _ booknotifierv1.BookNotifier = (*Notifier)(nil)

// NewNotifier creates a notifier publishing on "<channel>:<instrument>".
func NewNotifier(client redis.Client, channel string) *Notifier {
	return &Notifier{
		client:  client,
		channel: channel,
	}
}

// Channel returns the channel carrying instrument's changes.
func (n *Notifier) Channel(instrument string) string {
	return n.channel + ":" + instrument
}

// NotifyBookChanged publishes change. Having no subscribers is not an error.
func (n *Notifier) NotifyBookChanged(ctx context.Context, change *booknotifierv1.BookChanged) error {
	if _, err := n.client.Publish(ctx, n.Channel(change.Instrument), booknotifierv1.ToBytes(change)); err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}
