package errors

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralUnauthorizedError represents a generic unauthorized error.
	GeneralUnauthorizedError ErrorCode = "general_unauthorized_error"
	// GeneralConflictError represents a request that collides with another one still in flight.
	GeneralConflictError ErrorCode = "general_conflict_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// TransactionConflictError is raised when a store transaction lost a race and must be retried.
	TransactionConflictError ErrorCode = "transaction_conflict_error"
	// TransactionRetryExhausted is raised when a transaction kept conflicting past the retry budget.
	TransactionRetryExhausted ErrorCode = "transaction_retry_exhausted"

	// OrderInvalidInstrument represents an instrument outside the accepted length.
	OrderInvalidInstrument ErrorCode = "order_invalid_instrument"
	// OrderInvalidSide represents a side other than BUY or SELL.
	OrderInvalidSide ErrorCode = "order_invalid_side"
	// OrderInvalidVolume represents a non-positive or oversized volume.
	OrderInvalidVolume ErrorCode = "order_invalid_volume"
	// OrderInvalidPrice represents a non-positive or oversized price.
	OrderInvalidPrice ErrorCode = "order_invalid_price"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisSetNXError represents an error when setting a value in Redis with SetNX.
	RedisSetNXError ErrorCode = "redis_setnx_error"
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"

	// KafkaPublishError represents an error when writing messages to Kafka.
	KafkaPublishError ErrorCode = "kafka_publish_error"
)

// BaseError is an `error` type containing an array of ErrorDetails.
// Validation collects one ErrorDetails per offending field into it.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// HasDetails reports whether at least one ErrorDetails was collected.
func (b *BaseError) HasDetails() bool {
	return len(b.details) > 0
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(err.Code)
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("; object: ")
		if err.Object != nil {
			buff.WriteString(reflect.TypeOf(err.Object).String())
		}
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}

// UpdateCode update all code on ErrorDetails with given code
func (b *BaseError) UpdateCode(code string) {
	for _, d := range b.GetDetails() {
		d.Code = code
	}
}

// IsAllCodeEqual check if all ErrorDetails code is equal with given code
func (b *BaseError) IsAllCodeEqual(code string) bool {
	if len(b.details) == 0 {
		return false
	}

	for _, d := range b.GetDetails() {
		if d.Code != code {
			return false
		}
	}
	return true
}

// IsAnyCodeEqual check if any ErrorDetails code is equal with given code
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.GetDetails() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Codes returns the codes of every ErrorDetails in insertion order.
func (b *BaseError) Codes() []string {
	codes := make([]string, 0, len(b.details))
	for _, d := range b.details {
		codes = append(codes, d.Code)
	}
	return codes
}

// AsBaseError finds the first BaseError in err's chain.
func AsBaseError(err error) (*BaseError, bool) {
	var base *BaseError
	if stderrors.As(err, &base) {
		return base, true
	}
	return nil, false
}
