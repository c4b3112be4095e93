package trade

import (
	"time"

	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
	"github.com/shopspring/decimal"
)

// Trade is a row of the trades table. Trades are never updated.
type Trade struct {
	ID           string
	Instrument   string
	Volume       decimal.Decimal
	Price        decimal.Decimal
	TakerOrderID string
	MakerOrderID string
	TakerOwner   string
	MakerOwner   string
	CreateTime   time.Time
}

// NewTradeFromDraft builds the row for a trade the matching engine produced.
func NewTradeFromDraft(draft matchingv1.TradeDraft) *Trade {
	return &Trade{
		ID:           draft.ID,
		Instrument:   draft.Instrument,
		Volume:       draft.Volume,
		Price:        draft.Price,
		TakerOrderID: draft.TakerOrderID,
		MakerOrderID: draft.MakerOrderID,
		TakerOwner:   draft.TakerOwner,
		MakerOwner:   draft.MakerOwner,
	}
}

// RelatedOrders returns the incoming order id followed by the resting order id.
func (t *Trade) RelatedOrders() []string {
	return []string{t.TakerOrderID, t.MakerOrderID}
}

// Owners returns the incoming owner followed by the resting owner.
func (t *Trade) Owners() []string {
	return []string{t.TakerOwner, t.MakerOwner}
}

// InvolvesOwner reports whether owner is on either side of the trade.
func (t *Trade) InvolvesOwner(owner string) bool {
	return t.TakerOwner == owner || t.MakerOwner == owner
}
