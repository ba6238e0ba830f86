package envelope

import (
	"context"
	"errors"

	"github.com/containerd/errdefs"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	CodeOK           = 0
	CodeValidation   = 40001
	CodeNotFound     = 40400
	CodeConflict     = 40900
	CodeInternal     = 50000
	CodeExternalTool = 50200
	CodeTimeout      = 50400
)

const messageOK = "success"

// Response wraps every API payload.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK writes data with code 0. An empty message defaults to "success".
func OK(c *fiber.Ctx, message string, data any) error {
	if message == "" {
		message = messageOK
	}

	return c.JSON(Response{Code: CodeOK, Message: message, Data: data})
}

// NewErrorHandler renders errors as envelopes. Status and code follow the
// errdefs kind of the error.
func NewErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code := Classify(err)

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err))
		} else {
			logger.Debug("request rejected",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err))
		}

		return c.Status(status).JSON(Response{Code: code, Message: err.Error()})
	}
}

// Classify returns the HTTP status and envelope code of err.
func Classify(err error) (int, int) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, codeForStatus(fiberErr.Code)
	}

	switch {
	case errdefs.IsInvalidArgument(err):
		return fiber.StatusBadRequest, CodeValidation
	case errdefs.IsNotFound(err):
		return fiber.StatusNotFound, CodeNotFound
	case errdefs.IsConflict(err), errdefs.IsAlreadyExists(err),
		errdefs.IsFailedPrecondition(err), errdefs.IsAborted(err):
		return fiber.StatusConflict, CodeConflict
	case errdefs.IsUnavailable(err):
		return fiber.StatusBadGateway, CodeExternalTool
	case errors.Is(err, context.DeadlineExceeded), errdefs.IsDeadlineExceeded(err):
		return fiber.StatusGatewayTimeout, CodeTimeout
	default:
		return fiber.StatusInternalServerError, CodeInternal
	}
}

func codeForStatus(status int) int {
	switch status {
	case fiber.StatusBadRequest:
		return CodeValidation
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusConflict:
		return CodeConflict
	case fiber.StatusBadGateway:
		return CodeExternalTool
	case fiber.StatusGatewayTimeout:
		return CodeTimeout
	case fiber.StatusInternalServerError:
		return CodeInternal
	default:
		return status * 100 //nolint:mnd //status based code
	}
}
