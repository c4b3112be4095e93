package booknotifierv1

import (
	"encoding/json"
	"time"
)

// Reasons a book changed.
const (
	ReasonSubmit = "submit"
	ReasonCancel = "cancel"
)

// BookChanged is published after a commit that touched the book.
type BookChanged struct {
	Instrument string `json:"instrument"`
	Reason     string `json:"reason"`
	OrderID    string `json:"order_id"`
	Trades     int    `json:"trades"`
	ChangedAt  int64  `json:"changed_at"`
}

// NewBookChanged creates the notification for orderID.
func NewBookChanged(instrument, reason, orderID string, trades int, at time.Time) *BookChanged {
	return &BookChanged{
		Instrument: instrument,
		Reason:     reason,
		OrderID:    orderID,
		Trades:     trades,
		ChangedAt:  at.UnixMilli(),
	}
}

// ToBytes converts the notification to a byte array.
func ToBytes(change *BookChanged) []byte {
	data, err := json.Marshal(change)
	if err != nil {
		return nil
	}
	return data
}
