package server

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-repository-bun"

	"github.com/rootlinehq/rootline/auth"
)

// ErrorHandler is the fiber error boundary. Rich errors are mapped onto
// status codes by category; anything unrecognized becomes an opaque 500 so
// internals never leak to clients.
func ErrorHandler(logger auth.Logger, debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if err == nil {
			return nil
		}

		var verr validation.Errors
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":      "validation failed",
				"validation": formatValidationErrors(verr),
			})
		}

		// repository not-found errors carry their own type; map them before
		// the generic branch so missing records answer 404, not 500
		if repository.IsRecordNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "not found",
			})
		}

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			status := statusFromError(richErr)

			if debug {
				logger.Debug("request error: %s %s", richErr.Message, print.MaybePrettyJSON(richErr.Metadata))
			}

			if status >= fiber.StatusInternalServerError {
				logger.Error("internal error: %v", err)
				return c.Status(status).JSON(fiber.Map{
					"error": "internal server error",
				})
			}

			return c.Status(status).JSON(fiber.Map{
				"error": richErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiberErr.Message,
			})
		}

		logger.Error("unhandled error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

func statusFromError(err *goerrors.Error) int {
	switch err.Code {
	case goerrors.CodeBadRequest:
		return fiber.StatusBadRequest
	case goerrors.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case goerrors.CodeForbidden:
		return fiber.StatusForbidden
	case goerrors.CodeNotFound:
		return fiber.StatusNotFound
	}

	switch err.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput, goerrors.CategoryConflict:
		return fiber.StatusBadRequest
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return fiber.StatusForbidden
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	}

	return fiber.StatusInternalServerError
}

func formatValidationErrors(verr validation.Errors) map[string]string {
	out := make(map[string]string, len(verr))
	for field, ferr := range verr {
		if ferr != nil {
			out[field] = ferr.Error()
		}
	}
	return out
}
