package rest

import (
	"errors"
	"net/http"
	"testing"

	pkgErrors "github.com/dset/Cloud-Market/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	validation := pkgErrors.NewBaseError(
		pkgErrors.NewErrorDetails("side must be BUY or SELL", string(pkgErrors.OrderInvalidSide), "side"),
	)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: validation, want: http.StatusBadRequest},
		{name: "bad request", err: badRequest("invalid request body", "body"), want: http.StatusBadRequest},
		{name: "unauthorized", err: unauthorized("missing bearer token"), want: http.StatusUnauthorized},
		{name: "not found", err: pkgErrors.NewErrorDetails("missing", string(pkgErrors.GeneralNotFoundError), "id"), want: http.StatusNotFound},
		{name: "in-flight idempotency key", err: pkgErrors.NewErrorDetails("busy", string(pkgErrors.GeneralConflictError), "idempotency_key"), want: http.StatusConflict},
		{name: "retries exhausted", err: pkgErrors.TracerFromError(pkgErrors.NewErrorDetails("busy", string(pkgErrors.TransactionRetryExhausted), "")), want: http.StatusServiceUnavailable},
		{name: "store failure", err: pkgErrors.TracerFromError(&pgconn.PgError{Code: "08006"}), want: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}

	assert.Equal(t, []string{"order_invalid_side"}, codesOf(validation))
	assert.Equal(t, []string{"general_not_found_error"}, codesOf(pkgErrors.NewErrorDetails("missing", string(pkgErrors.GeneralNotFoundError), "id")))
}
