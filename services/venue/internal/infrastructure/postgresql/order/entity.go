package order

import (
	"time"

	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
	"github.com/shopspring/decimal"
)

// Order is a row of the orders table.
type Order struct {
	ID              string
	Owner           string
	Instrument      string
	Side            matchingv1.Side
	Price           decimal.Decimal
	TotalVolume     decimal.Decimal
	ActiveVolume    decimal.Decimal
	FilledVolume    decimal.Decimal
	CancelledVolume decimal.Decimal
	RelatedTrades   []string
	CreateTime      time.Time
}

// NewOrderFromDraft builds the row for an order the matching engine produced.
// CreateTime is filled in by Store.
func NewOrderFromDraft(draft matchingv1.OrderDraft) *Order {
	relatedTrades := draft.RelatedTrades
	if relatedTrades == nil {
		relatedTrades = []string{}
	}

	return &Order{
		ID:              draft.ID,
		Owner:           draft.Owner,
		Instrument:      draft.Instrument,
		Side:            draft.Side,
		Price:           draft.Price,
		TotalVolume:     draft.TotalVolume,
		ActiveVolume:    draft.ActiveVolume,
		FilledVolume:    draft.FilledVolume,
		CancelledVolume: decimal.Zero,
		RelatedTrades:   relatedTrades,
	}
}

// IsActive reports whether the order still has volume in the book.
func (o *Order) IsActive() bool {
	return o.ActiveVolume.IsPositive()
}

// ToResting converts the row into a matching candidate.
func (o *Order) ToResting() matchingv1.RestingOrder {
	return matchingv1.RestingOrder{
		ID:           o.ID,
		Owner:        o.Owner,
		Instrument:   o.Instrument,
		Side:         o.Side,
		Price:        o.Price,
		ActiveVolume: o.ActiveVolume,
		CreateTime:   o.CreateTime,
	}
}

// CandidateFilter selects the resting orders an incoming order may cross.
type CandidateFilter struct {
	Instrument string
	// TakerSide is the side of the incoming order; candidates are on the opposite side.
	TakerSide matchingv1.Side
	// LimitPrice is the incoming order's limit. Only crossing prices are returned.
	LimitPrice decimal.Decimal
}

// NewCandidateFilter derives the filter for intent.
func NewCandidateFilter(intent matchingv1.Intent) CandidateFilter {
	return CandidateFilter{
		Instrument: intent.Instrument,
		TakerSide:  intent.Side,
		LimitPrice: intent.Price,
	}
}
