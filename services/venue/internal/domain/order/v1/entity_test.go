package orderv1

import (
	"strings"
	"testing"

	"github.com/dset/Cloud-Market/pkg/errors"
	matchingv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/matching/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() SubmitOrderRequest {
	return SubmitOrderRequest{
		Owner:      "alice",
		Instrument: "BTC-USD",
		Side:       matchingv1.Buy,
		Volume:     decimal.NewFromInt(1000),
		Price:      decimal.NewFromInt(10),
	}
}

func TestSubmitOrderRequest_Validate(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(r *SubmitOrderRequest)
		expected []string
	}{
		{
			name:   "valid",
			mutate: func(r *SubmitOrderRequest) {},
		},
		{
			name:   "bounds are inclusive",
			mutate: func(r *SubmitOrderRequest) { r.Volume = MaxVolume; r.Price = MaxPrice; r.Instrument = strings.Repeat("x", 200) },
		},
		{
			name:     "empty instrument",
			mutate:   func(r *SubmitOrderRequest) { r.Instrument = "" },
			expected: []string{string(errors.OrderInvalidInstrument)},
		},
		{
			name:     "instrument too long",
			mutate:   func(r *SubmitOrderRequest) { r.Instrument = strings.Repeat("x", 201) },
			expected: []string{string(errors.OrderInvalidInstrument)},
		},
		{
			name:     "lowercase side",
			mutate:   func(r *SubmitOrderRequest) { r.Side = "buy" },
			expected: []string{string(errors.OrderInvalidSide)},
		},
		{
			name:     "zero volume",
			mutate:   func(r *SubmitOrderRequest) { r.Volume = decimal.Zero },
			expected: []string{string(errors.OrderInvalidVolume)},
		},
		{
			name:     "volume above limit",
			mutate:   func(r *SubmitOrderRequest) { r.Volume = MaxVolume.Add(decimal.New(1, -2)) },
			expected: []string{string(errors.OrderInvalidVolume)},
		},
		{
			name:     "negative price",
			mutate:   func(r *SubmitOrderRequest) { r.Price = decimal.NewFromInt(-1) },
			expected: []string{string(errors.OrderInvalidPrice)},
		},
		{
			name: "every field invalid",
			mutate: func(r *SubmitOrderRequest) {
				r.Instrument = ""
				r.Side = ""
				r.Volume = decimal.Zero
				r.Price = decimal.Zero
			},
			expected: []string{
				string(errors.OrderInvalidInstrument),
				string(errors.OrderInvalidSide),
				string(errors.OrderInvalidVolume),
				string(errors.OrderInvalidPrice),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			err := req.Validate()
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			base, ok := errors.AsBaseError(err)
			require.True(t, ok)
			assert.Equal(t, tc.expected, base.Codes())
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestSubmitOrderRequest_Intent(t *testing.T) {
	intent := validRequest().Intent("o1")

	assert.Equal(t, "o1", intent.OrderID)
	assert.Equal(t, "alice", intent.Owner)
	assert.Equal(t, matchingv1.Buy, intent.Side)
	assert.True(t, decimal.NewFromInt(1000).Equal(intent.Volume))
}

func TestIsValidationError(t *testing.T) {
	assert.False(t, IsValidationError(errors.NewErrorDetails("missing", string(errors.GeneralNotFoundError), "id")))
	assert.True(t, IsValidationError(errors.TracerFromError(errors.NewErrorDetails("bad", string(errors.GeneralBadRequestError), "body"))))
}
