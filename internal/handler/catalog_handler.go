package handler

import (
	"go-marketplace-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// GetSections lists sections for storefront navigation.
// GET /api/v1/sections
func (h *CatalogHandler) GetSections(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)
	sections, err := h.service.GetSections(includeInactive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sections)
}

// GetSection returns one section with its attribute schema.
// GET /api/v1/sections/:slug
func (h *CatalogHandler) GetSection(c *fiber.Ctx) error {
	section, err := h.service.GetSectionBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(section)
}

// GetCategories lists categories, optionally scoped to a section.
// GET /api/v1/sections/:slug/categories and GET /api/v1/categories
func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)
	categories, err := h.service.GetCategories(c.Params("slug"), includeInactive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// CreateSection handles admin section creation.
// POST /api/v1/admin/sections
func (h *CatalogHandler) CreateSection(c *fiber.Ctx) error {
	var req service.CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	section, err := h.service.CreateSection(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Section created", "data": section})
}

// UpdateSection handles admin section edits, including schema edits.
// PUT /api/v1/admin/sections/:id
func (h *CatalogHandler) UpdateSection(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid section ID"})
	}

	var req service.UpdateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	section, err := h.service.UpdateSection(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Section updated", "data": section})
}

// DeleteSection refuses to remove a section that still has categories.
// DELETE /api/v1/admin/sections/:id
func (h *CatalogHandler) DeleteSection(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid section ID"})
	}

	if err := h.service.DeleteSection(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Section deleted"})
}

// CreateCategory handles admin category creation.
// POST /api/v1/admin/categories
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req service.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	category, err := h.service.CreateCategory(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}

// UpdateCategory handles admin category edits.
// PUT /api/v1/admin/categories/:id
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	var req service.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	category, err := h.service.UpdateCategory(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": category})
}

// DeleteCategory refuses to remove a category that still has products.
// DELETE /api/v1/admin/categories/:id
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	if err := h.service.DeleteCategory(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
