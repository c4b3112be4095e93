package rest

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dset/Cloud-Market/pkg/errors"
	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
	orderv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/order/v1"
	orderbookv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/orderbook/v1"
	"github.com/dset/Cloud-Market/services/venue/internal/infrastructure/postgresql/order"
	"github.com/dset/Cloud-Market/services/venue/internal/infrastructure/postgresql/trade"
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Instrument string          `json:"instrument" validate:"required|ValidateInstrument"`
	Side       string          `json:"side" validate:"required|ValidateSide"`
	Volume     decimal.Decimal `json:"volume" validate:"ValidateVolume"`
	Price      decimal.Decimal `json:"price" validate:"ValidatePrice"`
}

// Messages is read by gookit/validate.
func (r CreateOrderRequest) Messages() map[string]string {
	return validate.MS{
		"required":           "{field} is required",
		"ValidateInstrument": fmt.Sprintf("instrument must be between %d and %d characters", orderv1.InstrumentMinLength, orderv1.InstrumentMaxLength),
		"ValidateSide":       fmt.Sprintf("side must be %s or %s", matchingv1.Buy, matchingv1.Sell),
		"ValidateVolume":     fmt.Sprintf("volume must be greater than 0 and at most %s", orderv1.MaxVolume),
		"ValidatePrice":      fmt.Sprintf("price must be greater than 0 and at most %s", orderv1.MaxPrice),
	}
}

func (r CreateOrderRequest) ValidateInstrument(val string) bool {
	n := utf8.RuneCountInString(val)
	return n >= orderv1.InstrumentMinLength && n <= orderv1.InstrumentMaxLength
}

func (r CreateOrderRequest) ValidateSide(val string) bool {
	return matchingv1.Side(val).IsValid()
}

func (r CreateOrderRequest) ValidateVolume(val decimal.Decimal) bool {
	return val.IsPositive() && val.LessThanOrEqual(orderv1.MaxVolume)
}

func (r CreateOrderRequest) ValidatePrice(val decimal.Decimal) bool {
	return val.IsPositive() && val.LessThanOrEqual(orderv1.MaxPrice)
}

// ToSubmitOrderRequest builds the usecase input for owner.
func (r CreateOrderRequest) ToSubmitOrderRequest(owner, idempotencyKey string, selfTradePrevention bool) orderv1.SubmitOrderRequest {
	return orderv1.SubmitOrderRequest{
		Owner:               owner,
		Instrument:          r.Instrument,
		Side:                matchingv1.Side(r.Side),
		Volume:              r.Volume,
		Price:               r.Price,
		SelfTradePrevention: selfTradePrevention,
		IdempotencyKey:      idempotencyKey,
	}
}

var fieldCodes = map[string]errors.ErrorCode{
	"instrument": errors.OrderInvalidInstrument,
	"side":       errors.OrderInvalidSide,
	"volume":     errors.OrderInvalidVolume,
	"price":      errors.OrderInvalidPrice,
}

// validateStruct runs the gookit/validate rules of payload and collects one
// ErrorDetails per offending field.
func validateStruct(payload any) error {
	v := validate.Struct(payload)
	v.StopOnError = false
	if v.Validate() {
		return nil
	}

	all := v.Errors.All()
	base := errors.NewBaseError()
	for _, field := range slices.Sorted(maps.Keys(all)) {
		name := strings.ToLower(field)
		code, ok := fieldCodes[name]
		if !ok {
			code = errors.GeneralBadRequestError
		}

		messages := all[field]
		for _, rule := range slices.Sorted(maps.Keys(messages)) {
			base.AddErrorDetails(errors.NewErrorDetails(messages[rule], string(code), name))
			break
		}
	}

	if !base.HasDetails() {
		return badRequest("invalid request body", "")
	}
	return base
}

// CreateOrderResponse is the body of a successful POST /orders.
type CreateOrderResponse struct {
	ID string `json:"id"`
}

// OrderResponse is the JSON form of an order. Create time is in Unix
// milliseconds.
type OrderResponse struct {
	ID              string      `json:"id"`
	Instrument      string      `json:"instrument"`
	Side            string      `json:"side"`
	TotalVolume     json.Number `json:"total_volume"`
	ActiveVolume    json.Number `json:"active_volume"`
	FilledVolume    json.Number `json:"filled_volume"`
	CancelledVolume json.Number `json:"cancelled_volume"`
	Price           json.Number `json:"price"`
	RelatedTrades   []string    `json:"related_trades"`
	CreateTime      int64       `json:"create_time"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// NewOrderResponse converts a stored order.
func NewOrderResponse(o *order.Order) OrderResponse {
	related := o.RelatedTrades
	if related == nil {
		related = []string{}
	}

	return OrderResponse{
		ID:              o.ID,
		Instrument:      o.Instrument,
		Side:            string(o.Side),
		TotalVolume:     number(o.TotalVolume),
		ActiveVolume:    number(o.ActiveVolume),
		FilledVolume:    number(o.FilledVolume),
		CancelledVolume: number(o.CancelledVolume),
		Price:           number(o.Price),
		RelatedTrades:   related,
		CreateTime:      o.CreateTime.UnixMilli(),
	}
}

// NewOrderResponses converts a list of stored orders, keeping their order.
func NewOrderResponses(orders []*order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}

// TradeResponse is the JSON form of a trade. Related orders list the
// incoming order first.
type TradeResponse struct {
	ID            string      `json:"id"`
	Instrument    string      `json:"instrument"`
	Volume        json.Number `json:"volume"`
	Price         json.Number `json:"price"`
	RelatedOrders []string    `json:"related_orders"`
	CreateTime    int64       `json:"create_time"`
}

// NewTradeResponse converts a stored trade.
func NewTradeResponse(t *trade.Trade) TradeResponse {
	return TradeResponse{
		ID:            t.ID,
		Instrument:    t.Instrument,
		Volume:        number(t.Volume),
		Price:         number(t.Price),
		RelatedOrders: t.RelatedOrders(),
		CreateTime:    t.CreateTime.UnixMilli(),
	}
}

// BookEntryResponse is one resting order in the book.
type BookEntryResponse struct {
	Instrument string      `json:"instrument"`
	Side       string      `json:"side"`
	Volume     json.Number `json:"volume"`
	Price      json.Number `json:"price"`
}

// OrderBookResponse is the body of GET /orderbooks/{instrument}.
type OrderBookResponse struct {
	Buy  []BookEntryResponse `json:"BUY"`
	Sell []BookEntryResponse `json:"SELL"`
}

// NewOrderBookResponse converts a book projection.
func NewOrderBookResponse(book *orderbookv1.Book) OrderBookResponse {
	return OrderBookResponse{
		Buy:  newBookEntries(book.Bids),
		Sell: newBookEntries(book.Asks),
	}
}

func newBookEntries(entries []orderbookv1.Entry) []BookEntryResponse {
	out := make([]BookEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, BookEntryResponse{
			Instrument: e.Instrument,
			Side:       string(e.Side),
			Volume:     number(e.Volume),
			Price:      number(e.Price),
		})
	}
	return out
}
