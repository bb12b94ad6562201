package presenters

import (
	"errors"
	"sync/atomic"

	"foodgram/domain"
	"foodgram/internal/utils/logger"

	"github.com/gofiber/fiber/v2"
)

// internalError replaces the cause of any 5xx answer. Driver and runtime
// messages go to the log only.
const internalError = "internal server error"

var errorLog atomic.Pointer[logger.Logger]

func init() {
	errorLog.Store(logger.Nop())
}

// SetLogger sets where server-side failures are recorded.
func SetLogger(log *logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	errorLog.Store(log)
}

type (
	Response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    any    `json:"data,omitempty"`
		Error   string `json:"error,omitempty"`
		Errors  any    `json:"errors,omitempty"`
	}
)

func SuccessResponse(c *fiber.Ctx, data any, status int, message string) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	res := Response{
		Success: false,
		Message: message,
	}
	if err != nil && status >= fiber.StatusInternalServerError {
		errorLog.Load().Error(message,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"error", err,
		)
		res.Error = internalError
	} else if err != nil {
		res.Error = err.Error()
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			res.Errors = verr.Fields
		}
	}
	return c.Status(status).JSON(res)
}

// ServiceError answers with the status matching the kind of err.
func ServiceError(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusFromError(err), message, err)
}

func StatusFromError(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrPermission):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// FiberErrorHandler renders errors that escape handlers (unknown routes,
// body limit, recovered panics) in the same envelope as everything else.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	return ErrorResponse(c, status, domain.MessageFailedProcessRequest, err)
}
