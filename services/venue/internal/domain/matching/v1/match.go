package matchingv1

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Match crosses intent against candidates and returns the order, trades and
// resting-order updates the submission produces. It performs no I/O and does
// not modify candidates.
//
// Candidates are consumed in price priority (lowest ask first for a BUY,
// highest bid first for a SELL), then by creation time and id. Each trade
// executes at the resting order's price. Matching stops at the first
// candidate whose price no longer crosses the intent's limit, or once the
// intent's volume is exhausted.
func Match(intent Intent, candidates []RestingOrder, opts Options) Result {
	book := eligible(intent, candidates)
	sort.SliceStable(book, func(i, j int) bool {
		return before(intent.Side, book[i], book[j])
	})

	newTradeID := opts.NewTradeID
	if newTradeID == nil {
		seq := 0
		newTradeID = func() string {
			seq++
			return fmt.Sprintf("%s-%d", intent.OrderID, seq)
		}
	}

	var (
		remaining = intent.Volume
		trades    []TradeDraft
		updates   []OrderUpdate
		tradeIDs  = []string{}
	)

	for _, resting := range book {
		if !remaining.IsPositive() {
			break
		}
		if !crosses(intent.Side, intent.Price, resting.Price) {
			break
		}
		if opts.SelfTradePrevention && resting.Owner == intent.Owner {
			continue
		}

		fill := decimal.Min(remaining, resting.ActiveVolume)
		tradeID := newTradeID()

		trades = append(trades, TradeDraft{
			ID:           tradeID,
			Instrument:   intent.Instrument,
			Volume:       fill,
			Price:        resting.Price,
			TakerOrderID: intent.OrderID,
			MakerOrderID: resting.ID,
			TakerOwner:   intent.Owner,
			MakerOwner:   resting.Owner,
		})
		updates = append(updates, OrderUpdate{
			OrderID: resting.ID,
			Fill:    fill,
			TradeID: tradeID,
		})
		tradeIDs = append(tradeIDs, tradeID)

		remaining = remaining.Sub(fill)
	}

	return Result{
		Order: OrderDraft{
			ID:            intent.OrderID,
			Owner:         intent.Owner,
			Instrument:    intent.Instrument,
			Side:          intent.Side,
			Price:         intent.Price,
			TotalVolume:   intent.Volume,
			ActiveVolume:  remaining,
			FilledVolume:  intent.Volume.Sub(remaining),
			RelatedTrades: tradeIDs,
		},
		Trades:  trades,
		Updates: updates,
	}
}

// eligible copies the candidates that can trade with intent at all.
func eligible(intent Intent, candidates []RestingOrder) []RestingOrder {
	opposite := intent.Side.Opposite()

	book := make([]RestingOrder, 0, len(candidates))
	for _, c := range candidates {
		if c.Side != "" && c.Side != opposite {
			continue
		}
		if c.Instrument != "" && c.Instrument != intent.Instrument {
			continue
		}
		if !c.ActiveVolume.IsPositive() {
			continue
		}
		book = append(book, c)
	}
	return book
}

// crosses reports whether a resting order at restingPrice is acceptable to
// an incoming order on side with the given limit.
func crosses(side Side, limit, restingPrice decimal.Decimal) bool {
	if side == Buy {
		return restingPrice.LessThanOrEqual(limit)
	}
	return restingPrice.GreaterThanOrEqual(limit)
}

// before orders resting orders for an incoming order on side.
func before(side Side, a, b RestingOrder) bool {
	if !a.Price.Equal(b.Price) {
		if side == Buy {
			return a.Price.LessThan(b.Price)
		}
		return a.Price.GreaterThan(b.Price)
	}
	if !a.CreateTime.Equal(b.CreateTime) {
		return a.CreateTime.Before(b.CreateTime)
	}
	return a.ID < b.ID
}
