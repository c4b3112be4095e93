package tradepublisherv1

import (
	"encoding/json"
	"time"

	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
	"github.com/shopspring/decimal"
)

// TradeEvent is the message emitted for every committed trade.
type TradeEvent struct {
	TradeID      string          `json:"trade_id"`
	Instrument   string          `json:"instrument"`
	Volume       decimal.Decimal `json:"volume"`
	Price        decimal.Decimal `json:"price"`
	TakerOrderID string          `json:"taker_order_id"`
	MakerOrderID string          `json:"maker_order_id"`
	TakerSide    matchingv1.Side `json:"taker_side"`
	ExecutedAt   int64           `json:"executed_at"`
}

// CreateFromTrade builds the event for a trade executed at executedAt.
func CreateFromTrade(trade matchingv1.TradeDraft, takerSide matchingv1.Side, executedAt time.Time) *TradeEvent {
	return &TradeEvent{
		TradeID:      trade.ID,
		Instrument:   trade.Instrument,
		Volume:       trade.Volume,
		Price:        trade.Price,
		TakerOrderID: trade.TakerOrderID,
		MakerOrderID: trade.MakerOrderID,
		TakerSide:    takerSide,
		ExecutedAt:   executedAt.UnixMilli(),
	}
}

// Key partitions events by instrument so one instrument's trades stay ordered.
func (e *TradeEvent) Key() []byte {
	return []byte(e.Instrument)
}

// ToBytes converts the trade event to a byte array.
func ToBytes(event *TradeEvent) []byte {
	data, err := json.Marshal(event)
	if err != nil {
		return nil
	}
	return data
}

// FromBytes converts a byte array to a trade event.
func FromBytes(data []byte) *TradeEvent {
	var event TradeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	return &event
}
