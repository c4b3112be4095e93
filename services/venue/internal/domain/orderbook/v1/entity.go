package orderbookv1

import (
	"sort"

	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
	"github.com/shopspring/decimal"
)

// Entry is one resting order as seen in the book. Orders at the same price
// are listed separately.
type Entry struct {
	OrderID    string
	Instrument string
	Side       matchingv1.Side
	Price      decimal.Decimal
	Volume     decimal.Decimal
}

// Book is the resting liquidity of one instrument.
type Book struct {
	Instrument string
	// Bids are sorted by descending price.
	Bids []Entry
	// Asks are sorted by ascending price.
	Asks []Entry
}

// NewBook partitions resting orders by side and sorts each side by price.
// Entries are expected in time priority; that order is kept within a price.
func NewBook(instrument string, resting []matchingv1.RestingOrder) *Book {
	book := &Book{
		Instrument: instrument,
		Bids:       []Entry{},
		Asks:       []Entry{},
	}

	for _, o := range resting {
		if !o.ActiveVolume.IsPositive() {
			continue
		}
		entry := Entry{
			OrderID:    o.ID,
			Instrument: instrument,
			Side:       o.Side,
			Price:      o.Price,
			Volume:     o.ActiveVolume,
		}
		switch o.Side {
		case matchingv1.Buy:
			book.Bids = append(book.Bids, entry)
		case matchingv1.Sell:
			book.Asks = append(book.Asks, entry)
		}
	}

	sort.SliceStable(book.Bids, func(i, j int) bool {
		return book.Bids[i].Price.GreaterThan(book.Bids[j].Price)
	})
	sort.SliceStable(book.Asks, func(i, j int) bool {
		return book.Asks[i].Price.LessThan(book.Asks[j].Price)
	})

	return book
}

// BestBid returns the highest bid, if any.
func (b *Book) BestBid() (Entry, bool) {
	if len(b.Bids) == 0 {
		return Entry{}, false
	}
	return b.Bids[0], true
}

// BestAsk returns the lowest ask, if any.
func (b *Book) BestAsk() (Entry, bool) {
	if len(b.Asks) == 0 {
		return Entry{}, false
	}
	return b.Asks[0], true
}
