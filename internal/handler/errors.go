package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/voucherhub/voucher-platform/internal/service"
)

// notFoundErrors map to 404; every other business error is a 400 except the
// cross-tenant rejection, which is a 403.
var notFoundErrors = []error{
	service.ErrCampaignNotFound,
	service.ErrDiscountNotFound,
	service.ErrQuestionNotFound,
}

// businessStatus maps a service sentinel to its HTTP status and user-facing
// message. Reports false for infrastructure errors so callers log them and
// answer 500.
func businessStatus(err error) (int, string, bool) {
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			return fiber.StatusNotFound, sentinel.Error(), true
		}
	}
	if errors.Is(err, service.ErrForbidden) {
		return fiber.StatusForbidden, service.ErrForbidden.Error(), true
	}
	if service.IsBusinessError(err) {
		return fiber.StatusBadRequest, err.Error(), true
	}
	return 0, "", false
}

// formatValidationError converts validator errors into a single user-facing
// message for the first failing field.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be whitespace only"
			case "max":
				return "invalid request: " + field + " exceeds maximum length"
			case "min":
				return "invalid request: " + field + " has too few items"
			case "oneof":
				return "invalid request: " + field + " has an unsupported value"
			case "gtfield":
				return "invalid request: " + field + " must be after " + fe.Param()
			case "gt", "gte":
				return "invalid request: " + field + " is out of range"
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}
