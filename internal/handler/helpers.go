package handler

import (
	"errors"

	"go-marketplace-api/internal/model"
	"go-marketplace-api/internal/service"
	"go-marketplace-api/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helpers to pull user info from JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func getUserUUID(c *fiber.Ctx) uuid.UUID {
	id, err := uuid.Parse(getUserID(c))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// respondError maps service errors onto HTTP responses. Validation and
// attribute errors carry their full diagnostic lists through to the client.
func respondError(c *fiber.Ctx, err error) error {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return c.Status(422).JSON(fiber.Map{"error": "Validation failed", "errors": vErrs})
	}

	var aErr *service.AttributeError
	if errors.As(err, &aErr) {
		return c.Status(422).JSON(fiber.Map{"error": "Attribute validation failed", "errors": aErr.Errors})
	}

	switch {
	case errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, model.ErrNoPreviousVersion):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrNotProductOwner):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrSectionHasCategories),
		errors.Is(err, service.ErrCategoryHasProducts),
		errors.Is(err, service.ErrCategorySectionMismatch),
		errors.Is(err, service.ErrApprovedProductDelete),
		errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, service.ErrSectionInactive),
		errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrInvalidTransition):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, model.ErrRejectionReasonRequired),
		errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptySlug):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})

	default:
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
