package handler

import (
	"go-marketplace-api/internal/model"
	"go-marketplace-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ModerationHandler struct {
	service service.ModerationService
}

func NewModerationHandler(s service.ModerationService) *ModerationHandler {
	return &ModerationHandler{service: s}
}

// GetProducts lists products in the review queue by status.
// GET /api/v1/admin/products?status=pending
func (h *ModerationHandler) GetProducts(c *fiber.Ctx) error {
	status := model.ProductStatus(c.Query("status", string(model.StatusPending)))
	switch status {
	case model.StatusPending, model.StatusApproved, model.StatusRejected:
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Invalid status filter"})
	}

	products, err := h.service.GetProductsByStatus(status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// ApproveProduct publishes a pending listing. Attribute validation runs
// again inside the service against the current section schema.
// POST /api/v1/admin/products/:productId/approve
func (h *ModerationHandler) ApproveProduct(c *fiber.Ctx) error {
	var req struct {
		AdminNotes string `json:"admin_notes"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.ApproveProduct(c.Params("productId"), getUserUUID(c), req.AdminNotes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product approved", "data": product})
}

// RejectProduct turns down a pending listing; the reason is mandatory and
// shown to the seller.
// POST /api/v1/admin/products/:productId/reject
func (h *ModerationHandler) RejectProduct(c *fiber.Ctx) error {
	var req struct {
		RejectionReason string `json:"rejection_reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.RejectProduct(c.Params("productId"), getUserUUID(c), req.RejectionReason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product rejected", "data": product})
}

// GetProductChanges shows what an edit changed against the last approved
// version.
// GET /api/v1/admin/products/:productId/changes
func (h *ModerationHandler) GetProductChanges(c *fiber.Ctx) error {
	changes, err := h.service.GetProductChanges(c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"changes": changes})
}

// GetModerationLog lists recent moderation actions.
// GET /api/v1/admin/moderation-log?limit=
func (h *ModerationHandler) GetModerationLog(c *fiber.Ctx) error {
	records, err := h.service.GetModerationLog(c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(records)
}
