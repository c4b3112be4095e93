package rest

import (
	stderrors "errors"

	"github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/logger"
	orderv1 "github.com/dset/Cloud-Market/services/venue/internal/domain/order/v1"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}

// StatusOf maps an error onto its HTTP status.
func StatusOf(err error) int {
	switch {
	case orderv1.IsValidationError(err):
		return fiber.StatusBadRequest
	case errors.ErrorCodeEquals(err, errors.GeneralUnauthorizedError):
		return fiber.StatusUnauthorized
	case errors.ErrorCodeEquals(err, errors.GeneralNotFoundError):
		return fiber.StatusNotFound
	case errors.ErrorCodeEquals(err, errors.GeneralConflictError):
		return fiber.StatusConflict
	case errors.ErrorCodeEquals(err, errors.TransactionRetryExhausted):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func codesOf(err error) []string {
	if base, ok := errors.AsBaseError(err); ok && base.HasDetails() {
		return base.Codes()
	}
	return []string{string(errors.CodeOf(err))}
}

// ErrorHandler renders handler errors as ErrorResponse. Server side failures
// are logged and their details withheld from the client.
func ErrorHandler(log logger.Interface) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if stderrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Errors:  []string{string(codeOfStatus(fiberErr.Code))},
				Message: fiberErr.Message,
			})
		}

		status := StatusOf(err)
		if status >= fiber.StatusInternalServerError {
			log.ErrorContext(c.UserContext(), err,
				logger.Field{Key: "action", Value: "http_request"},
				logger.Field{Key: "method", Value: c.Method()},
				logger.Field{Key: "path", Value: c.Path()},
			)
		}

		body := ErrorResponse{
			Errors:  codesOf(err),
			Message: err.Error(),
		}
		if status == fiber.StatusInternalServerError {
			body.Errors = []string{string(errors.GeneralInternalServerError)}
			body.Message = "internal server error"
		}

		return c.Status(status).JSON(body)
	}
}

func codeOfStatus(status int) errors.ErrorCode {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return errors.GeneralBadRequestError
	case fiber.StatusUnauthorized:
		return errors.GeneralUnauthorizedError
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return errors.GeneralNotFoundError
	default:
		return errors.GeneralInternalServerError
	}
}

func badRequest(message, field string) error {
	return errors.NewErrorDetails(message, string(errors.GeneralBadRequestError), field)
}

func unauthorized(message string) error {
	return errors.NewErrorDetails(message, string(errors.GeneralUnauthorizedError), "authorization")
}
