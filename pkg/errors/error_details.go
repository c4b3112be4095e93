package errors

import stderrors "errors"

// ErrorDetails represents detailed information about an error.
type ErrorDetails struct {
	// Message (required) is the user-defined error message.
	// E.g. "order not found".
	Message string

	// Code (required) is one of the ErrorCode values.
	// E.g. "general_not_found_error".
	Code string

	// Field (optional) is the related field the error occurred on, if any.
	Field string

	// Object (optional) is the related object the error occured on, if any.
	Object interface{}
}

// NewErrorDetails creates a new ErrorDetails struct with the given parameters.
func NewErrorDetails(message, code, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// NewErrorDetailsWithObject creates a new ErrorDetails struct with an associated object.
func NewErrorDetailsWithObject(message, code, field string, object interface{}) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
		Object:  object,
	}
}

// Error() is used to implement the Golang `error` interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals checks whether a given `error` carries a specific code
// anywhere in its chain, including wrapped tracers and BaseError details.
func ErrorCodeEquals(err error, code ErrorCode) bool {
	var details *ErrorDetails
	if stderrors.As(err, &details) {
		return details.Code == string(code)
	}

	if base, ok := AsBaseError(err); ok {
		return base.IsAnyCodeEqual(string(code))
	}

	return false
}

// CodeOf returns the code of the first ErrorDetails in err's chain.
// Errors without details are reported as GeneralInternalServerError.
func CodeOf(err error) ErrorCode {
	var details *ErrorDetails
	if stderrors.As(err, &details) {
		return ErrorCode(details.Code)
	}

	if base, ok := AsBaseError(err); ok && base.HasDetails() {
		return ErrorCode(base.GetDetails()[0].Code)
	}

	return GeneralInternalServerError
}
