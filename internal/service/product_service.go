package service

import (
	"errors"
	"fmt"
	"strings"

	"go-marketplace-api/internal/model"
	"go-marketplace-api/internal/repository"
	"go-marketplace-api/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Error definitions
var (
	ErrProductNotFound         = errors.New("product not found")
	ErrNotProductOwner         = errors.New("product belongs to another seller")
	ErrCategorySectionMismatch = errors.New("category does not belong to the given section")
	ErrApprovedProductDelete   = errors.New("approved listing cannot be deleted; deactivate or resubmit it instead")
	ErrSectionInactive         = errors.New("section is not accepting listings")
)

// AttributeError reports attribute-bag violations against the owning
// section's current schema. Carried as a typed error so handlers can return
// the full diagnostic list.
type AttributeError struct {
	Errors []string
}

func (e *AttributeError) Error() string {
	return "attribute validation failed: " + strings.Join(e.Errors, "; ")
}

type ProductService interface {
	CreateProduct(req *CreateProductRequest, sellerID uuid.UUID, sellerName string) (*model.Product, error)
	UpdateProduct(productID string, req *UpdateProductRequest, sellerID uuid.UUID, sellerName string) (*model.Product, error)
	DeleteProduct(productID string, sellerID uuid.UUID) error
	GetProduct(productID string) (*model.Product, *model.ProductAttribute, error)
	GetSellerProducts(sellerID uuid.UUID) ([]model.Product, error)
	ListVisibleProducts(filter repository.ListingFilter) ([]model.Product, error)
	GetBulkPrice(productID string, quantity int) (decimal.Decimal, error)
	DecrementStock(productID string, quantity int) (*model.Product, error)
}

type CreateProductRequest struct {
	SectionID  uuid.UUID `json:"section_id" validate:"uuid_required"`
	CategoryID uuid.UUID `json:"category_id" validate:"uuid_required"`

	ProductName          string              `json:"product_name"`
	Description          string              `json:"description"`
	Price                decimal.Decimal     `json:"price"`
	BulkPricing          model.BulkPricing   `json:"bulk_pricing"`
	Images               model.StringArray   `json:"images"`
	InventoryType        model.InventoryType `json:"inventory_type"`
	Quantity             int                 `json:"quantity"`
	DeliveryType         string              `json:"delivery_type"`
	CustomDeliveryTime   string              `json:"custom_delivery_time"`
	ReplacementAvailable bool                `json:"replacement_available"`
	ReplacementDuration  string              `json:"replacement_duration"`
	Attributes           model.AttributeBag  `json:"attributes"`
	IsActive             *bool               `json:"is_active"`
}

type UpdateProductRequest struct {
	ProductName          string              `json:"product_name"`
	Description          string              `json:"description"`
	Price                decimal.Decimal     `json:"price"`
	BulkPricing          model.BulkPricing   `json:"bulk_pricing"`
	Images               model.StringArray   `json:"images"`
	InventoryType        model.InventoryType `json:"inventory_type"`
	Quantity             int                 `json:"quantity"`
	DeliveryType         string              `json:"delivery_type"`
	CustomDeliveryTime   string              `json:"custom_delivery_time"`
	ReplacementAvailable bool                `json:"replacement_available"`
	ReplacementDuration  string              `json:"replacement_duration"`
	Attributes           model.AttributeBag  `json:"attributes"`
	IsActive             *bool               `json:"is_active"`
}

type productService struct {
	productRepo  repository.ProductRepository
	sectionRepo  repository.SectionRepository
	categoryRepo repository.CategoryRepository
	wsHub        *ws.Hub
}

func NewProductService(
	productRepo repository.ProductRepository,
	sectionRepo repository.SectionRepository,
	categoryRepo repository.CategoryRepository,
	hub *ws.Hub,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		sectionRepo:  sectionRepo,
		categoryRepo: categoryRepo,
		wsHub:        hub,
	}
}

func (s *productService) CreateProduct(req *CreateProductRequest, sellerID uuid.UUID, sellerName string) (*model.Product, error) {
	// 1. Resolve and cross-check references
	section, err := s.sectionRepo.FindByID(req.SectionID)
	if err != nil {
		return nil, ErrSectionNotFound
	}
	if !section.IsActive {
		return nil, ErrSectionInactive
	}
	category, err := s.categoryRepo.FindByID(req.CategoryID)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	if category.SectionID != section.ID {
		return nil, ErrCategorySectionMismatch
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	// 2. Build the listing; new submissions always start pending
	product := &model.Product{
		ProductID:            model.NewPublicID("PROD"),
		SellerID:             sellerID,
		SectionID:            section.ID,
		CategoryID:           category.ID,
		ProductName:          req.ProductName,
		Description:          req.Description,
		Price:                req.Price,
		BulkPricing:          req.BulkPricing,
		Images:               req.Images,
		InventoryType:        req.InventoryType,
		Quantity:             req.Quantity,
		DeliveryType:         req.DeliveryType,
		CustomDeliveryTime:   req.CustomDeliveryTime,
		ReplacementAvailable: req.ReplacementAvailable,
		ReplacementDuration:  req.ReplacementDuration,
		Status:               model.StatusPending,
		IsActive:             isActive,
		IsEdited:             false,
		PreviousVersion:      nil,
	}
	product.CreatedBy = sellerID.String()
	product.UpdatedBy = sellerID.String()

	// 3. Full payload validation, every violation reported in one pass
	if errs := product.ValidatePayload(); errs != nil {
		return nil, errs
	}

	// 4. Attribute bag against the section's current schema
	if result := model.ValidateAttributes(req.Attributes, section.AttributeSchema); !result.Valid {
		return nil, &AttributeError{Errors: result.Errors}
	}

	attrs := &model.ProductAttribute{Attributes: req.Attributes}
	attrs.CreatedBy = sellerID.String()
	attrs.UpdatedBy = sellerID.String()

	if err := s.productRepo.Create(product, attrs); err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:   "catalog_update",
		Action: "product_submitted",
		Payload: map[string]interface{}{
			"product_id": product.ProductID,
			"name":       product.ProductName,
			"section":    section.Slug,
		},
		Message: fmt.Sprintf("%s submitted '%s' for review", sellerName, product.ProductName),
	})

	return product, nil
}

func (s *productService) UpdateProduct(productID string, req *UpdateProductRequest, sellerID uuid.UUID, sellerName string) (*model.Product, error) {
	var wasApproved bool

	updated, err := s.productRepo.UpdateLocked(productID, func(p *model.Product, attrs *model.ProductAttribute) error {
		if p.SellerID != sellerID {
			return ErrNotProductOwner
		}

		section, serr := s.sectionRepo.FindByID(p.SectionID)
		if serr != nil {
			return ErrSectionNotFound
		}

		wasApproved = p.Status == model.StatusApproved

		edit := model.ProductEdit{
			ProductName:          req.ProductName,
			Description:          req.Description,
			Price:                req.Price,
			BulkPricing:          req.BulkPricing,
			Images:               req.Images,
			InventoryType:        req.InventoryType,
			Quantity:             req.Quantity,
			DeliveryType:         req.DeliveryType,
			CustomDeliveryTime:   req.CustomDeliveryTime,
			ReplacementAvailable: req.ReplacementAvailable,
			ReplacementDuration:  req.ReplacementDuration,
		}
		p.ApplyEdit(edit, attrs.Attributes)

		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}
		p.UpdatedBy = sellerID.String()

		if errs := p.ValidatePayload(); errs != nil {
			return errs
		}
		if result := model.ValidateAttributes(req.Attributes, section.AttributeSchema); !result.Valid {
			return &AttributeError{Errors: result.Errors}
		}

		attrs.Attributes = req.Attributes
		attrs.UpdatedBy = sellerID.String()
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	action := "product_resubmitted"
	if wasApproved {
		action = "product_edited"
	}
	s.wsHub.Publish(ws.Event{
		Type:   "catalog_update",
		Action: action,
		Payload: map[string]interface{}{
			"product_id": updated.ProductID,
			"name":       updated.ProductName,
			"is_edited":  updated.IsEdited,
		},
		Message: fmt.Sprintf("%s updated '%s'; listing is pending review", sellerName, updated.ProductName),
	})

	return updated, nil
}

func (s *productService) DeleteProduct(productID string, sellerID uuid.UUID) error {
	product, err := s.productRepo.FindByProductID(productID)
	if err != nil {
		return ErrProductNotFound
	}
	if product.SellerID != sellerID {
		return ErrNotProductOwner
	}
	// A live listing must be deactivated or resubmitted, never deleted
	if product.Status == model.StatusApproved {
		return ErrApprovedProductDelete
	}

	return s.productRepo.Delete(product.ID, sellerID.String())
}

func (s *productService) GetProduct(productID string) (*model.Product, *model.ProductAttribute, error) {
	product, err := s.productRepo.FindByProductID(productID)
	if err != nil {
		return nil, nil, ErrProductNotFound
	}
	attrs, err := s.productRepo.FindAttributes(product.ID)
	if err != nil {
		return nil, nil, err
	}
	return product, attrs, nil
}

func (s *productService) GetSellerProducts(sellerID uuid.UUID) ([]model.Product, error) {
	return s.productRepo.FindBySeller(sellerID)
}

func (s *productService) ListVisibleProducts(filter repository.ListingFilter) ([]model.Product, error) {
	return s.productRepo.ListVisible(filter)
}

func (s *productService) GetBulkPrice(productID string, quantity int) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, model.ErrInvalidQuantity
	}
	product, err := s.productRepo.FindByProductID(productID)
	if err != nil {
		return decimal.Zero, ErrProductNotFound
	}
	return product.GetBulkPrice(quantity), nil
}

func (s *productService) DecrementStock(productID string, quantity int) (*model.Product, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.DecrementStock(productID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:   "stock_update",
		Action: "stock_decremented",
		Payload: map[string]interface{}{
			"product_id": product.ProductID,
			"quantity":   product.DisplayQuantity(),
			"sold_count": product.SoldCount,
		},
	})

	return product, nil
}
