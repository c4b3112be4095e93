package orderv1

import (
	"fmt"
	"unicode/utf8"

	"github.com/dset/Cloud-Market/pkg/errors"
	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
	"github.com/shopspring/decimal"
)

// Accepted bounds for a submission.
const (
	InstrumentMinLength = 1
	InstrumentMaxLength = 200
)

var (
	// MaxVolume is the largest volume a single order may carry.
	MaxVolume = decimal.New(1, 9)
	// MaxPrice is the largest limit price a single order may carry.
	MaxPrice = decimal.New(1, 6)
)

// SubmitOrderRequest is a limit order submission on behalf of Owner.
type SubmitOrderRequest struct {
	Owner               string
	Instrument          string
	Side                matchingv1.Side
	Volume              decimal.Decimal
	Price               decimal.Decimal
	SelfTradePrevention bool
	// IdempotencyKey, when set, makes resubmissions with the same key return
	// the order created by the first one.
	IdempotencyKey string
}

// Validate checks every field and reports all violations at once.
func (r SubmitOrderRequest) Validate() error {
	base := errors.NewBaseError()

	if n := utf8.RuneCountInString(r.Instrument); n < InstrumentMinLength || n > InstrumentMaxLength {
		base.AddErrorDetails(errors.NewErrorDetails(
			fmt.Sprintf("instrument must be between %d and %d characters", InstrumentMinLength, InstrumentMaxLength),
			string(errors.OrderInvalidInstrument), "instrument"))
	}

	if !r.Side.IsValid() {
		base.AddErrorDetails(errors.NewErrorDetails(
			fmt.Sprintf("side must be %s or %s", matchingv1.Buy, matchingv1.Sell),
			string(errors.OrderInvalidSide), "side"))
	}

	if !r.Volume.IsPositive() || r.Volume.GreaterThan(MaxVolume) {
		base.AddErrorDetails(errors.NewErrorDetails(
			fmt.Sprintf("volume must be greater than 0 and at most %s", MaxVolume),
			string(errors.OrderInvalidVolume), "volume"))
	}

	if !r.Price.IsPositive() || r.Price.GreaterThan(MaxPrice) {
		base.AddErrorDetails(errors.NewErrorDetails(
			fmt.Sprintf("price must be greater than 0 and at most %s", MaxPrice),
			string(errors.OrderInvalidPrice), "price"))
	}

	if base.HasDetails() {
		return base
	}
	return nil
}

// Intent converts the request into the matching engine's input.
func (r SubmitOrderRequest) Intent(orderID string) matchingv1.Intent {
	return matchingv1.Intent{
		OrderID:    orderID,
		Owner:      r.Owner,
		Instrument: r.Instrument,
		Side:       r.Side,
		Volume:     r.Volume,
		Price:      r.Price,
	}
}

// IsValidationError reports whether err was produced by Validate.
func IsValidationError(err error) bool {
	for _, code := range []errors.ErrorCode{
		errors.OrderInvalidInstrument,
		errors.OrderInvalidSide,
		errors.OrderInvalidVolume,
		errors.OrderInvalidPrice,
		errors.GeneralBadRequestError,
	} {
		if errors.ErrorCodeEquals(err, code) {
			return true
		}
	}
	return false
}
