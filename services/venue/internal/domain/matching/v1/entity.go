package matchingv1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side string

const (
	// Buy is a bid: the owner wants to acquire volume at or below Price.
	Buy Side = "BUY"
	// Sell is an ask: the owner wants to dispose of volume at or above Price.
	Sell Side = "SELL"
)

// IsValid reports whether s is BUY or SELL.
func (s Side) IsValid() bool {
	return s == Buy || s == Sell
}

// Opposite returns the side an order of side s trades against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Intent is a validated, not yet persisted order submission.
type Intent struct {
	OrderID    string
	Owner      string
	Instrument string
	Side       Side
	Volume     decimal.Decimal
	Price      decimal.Decimal
}

// RestingOrder is an order already in the book that an Intent may trade against.
type RestingOrder struct {
	ID           string
	Owner        string
	Instrument   string
	Side         Side
	Price        decimal.Decimal
	ActiveVolume decimal.Decimal
	CreateTime   time.Time
}

// OrderDraft is the incoming order as it must be stored after matching.
type OrderDraft struct {
	ID            string
	Owner         string
	Instrument    string
	Side          Side
	Price         decimal.Decimal
	TotalVolume   decimal.Decimal
	ActiveVolume  decimal.Decimal
	FilledVolume  decimal.Decimal
	RelatedTrades []string
}

// TradeDraft is one execution between the incoming (taker) order and a resting (maker) order.
type TradeDraft struct {
	ID           string
	Instrument   string
	Volume       decimal.Decimal
	Price        decimal.Decimal
	TakerOrderID string
	MakerOrderID string
	TakerOwner   string
	MakerOwner   string
}

// RelatedOrders returns the incoming and resting order ids, in that order.
func (t TradeDraft) RelatedOrders() []string {
	return []string{t.TakerOrderID, t.MakerOrderID}
}

// Owners returns the incoming and resting order owners, in that order.
func (t TradeDraft) Owners() []string {
	return []string{t.TakerOwner, t.MakerOwner}
}

// OrderUpdate is the change to apply to a resting order: active volume
// decreases by Fill, filled volume increases by Fill and TradeID is appended
// to its related trades.
type OrderUpdate struct {
	OrderID string
	Fill    decimal.Decimal
	TradeID string
}

// Options tune a single Match call.
type Options struct {
	// SelfTradePrevention skips resting orders owned by the incoming order's owner.
	SelfTradePrevention bool
	// NewTradeID returns a fresh trade id. When nil, ids are derived from the
	// incoming order id and the trade's position.
	NewTradeID func() string
}

// Result is everything a submission must write, atomically.
type Result struct {
	Order   OrderDraft
	Trades  []TradeDraft
	Updates []OrderUpdate
}

// Resting reports whether the incoming order keeps unmatched volume in the book.
func (r Result) Resting() bool {
	return r.Order.ActiveVolume.IsPositive()
}
