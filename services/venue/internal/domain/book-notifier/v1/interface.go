package booknotifierv1

import "context"

// BookNotifier announces that an instrument's order book changed.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=booknotifierv1_mock
type BookNotifier interface {
	NotifyBookChanged(ctx context.Context, change *BookChanged) error
}
