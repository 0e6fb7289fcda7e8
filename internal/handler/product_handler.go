package handler

import (
	"go-marketplace-api/internal/repository"
	"go-marketplace-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GetProducts is the buyer-facing listing: approved + active products only.
// GET /api/v1/products?section_id=&category_id=
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	var filter repository.ListingFilter
	if sid := c.Query("section_id"); sid != "" {
		id, err := parseUUID(sid)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid section_id"})
		}
		filter.SectionID = &id
	}
	if cid := c.Query("category_id"); cid != "" {
		id, err := parseUUID(cid)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid category_id"})
		}
		filter.CategoryID = &id
	}

	products, err := h.service.ListVisibleProducts(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GetProduct returns a single listing with its attribute bag. Listings that
// are not buyer-visible are hidden from everyone but their seller and admins.
// GET /api/v1/products/:productId
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, attrs, err := h.service.GetProduct(c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}

	if !product.VisibleToBuyers() {
		role, _ := c.Locals("user_role").(string)
		isOwner := getUserID(c) == product.SellerID.String()
		if role != "admin" && !isOwner {
			return c.Status(404).JSON(fiber.Map{"error": service.ErrProductNotFound.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"product":    product,
		"attributes": attrs.Attributes,
		"quantity":   product.DisplayQuantity(),
	})
}

// GetBulkPrice quotes the unit price for a quantity using the tier table.
// GET /api/v1/products/:productId/price?qty=
func (h *ProductHandler) GetBulkPrice(c *fiber.Ctx) error {
	qty := c.QueryInt("qty", 1)
	price, err := h.service.GetBulkPrice(c.Params("productId"), qty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"quantity": qty, "unit_price": price})
}

// CreateProduct handles a seller's new listing submission.
// POST /api/v1/seller/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.CreateProduct(&req, getUserUUID(c), getUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product submitted for review", "data": product})
}

// UpdateProduct drives the edit state machine: editing a live listing pulls
// it back to pending; editing a rejected one resubmits it.
// PUT /api/v1/seller/products/:productId
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.UpdateProduct(c.Params("productId"), &req, getUserUUID(c), getUserName(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DeleteProduct removes a non-approved listing.
// DELETE /api/v1/seller/products/:productId
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("productId"), getUserUUID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GetSellerProducts lists the authenticated seller's own products in every
// status.
// GET /api/v1/seller/products
func (h *ProductHandler) GetSellerProducts(c *fiber.Ctx) error {
	products, err := h.service.GetSellerProducts(getUserUUID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// DecrementStock is called by the order subsystem when a sale completes.
// POST /api/v1/internal/products/:productId/stock/decrement
func (h *ProductHandler) DecrementStock(c *fiber.Ctx) error {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.service.DecrementStock(c.Params("productId"), req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock decremented", "data": product})
}
