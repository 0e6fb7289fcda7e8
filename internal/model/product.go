package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go-marketplace-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	StatusPending  ProductStatus = "pending"
	StatusApproved ProductStatus = "approved"
	StatusRejected ProductStatus = "rejected"
)

type InventoryType string

const (
	InventoryUnlimited InventoryType = "unlimited"
	InventoryLimited   InventoryType = "limited"
)

// UnlimitedStockDisplay is the sentinel quantity shown for unlimited
// inventory listings. Stock logic ignores Quantity entirely in that mode.
const UnlimitedStockDisplay = 999999

// State machine and stock errors
var (
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrInvalidTransition       = errors.New("status transition not permitted")
	ErrInsufficientStock       = errors.New("insufficient stock remaining")
	ErrInvalidQuantity         = errors.New("quantity must be greater than zero")
	ErrNoPreviousVersion       = errors.New("product has no previous version to diff")
)

// BulkTier is one quantity range with a discounted unit price. A nil MaxQty
// means the tier is unbounded above.
type BulkTier struct {
	MinQty int             `json:"min_qty"`
	MaxQty *int            `json:"max_qty"`
	Price  decimal.Decimal `json:"price"`
}

// BulkPricing is an ordered sequence of tiers. Order matters: price lookup
// takes the first matching tier as declared. Stored as JSONB.
type BulkPricing []BulkTier

func (b BulkPricing) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(b)
	return string(raw), err
}

func (b *BulkPricing) Scan(value interface{}) error {
	return scanJSON(value, b)
}

// Validate reports every invalid tier: MinQty >= 1, Price > 0, and MaxQty
// strictly greater than MinQty when bounded.
func (b BulkPricing) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors
	for i, tier := range b {
		field := fmt.Sprintf("bulk_pricing[%d]", i)
		if tier.MinQty < 1 {
			errs = append(errs, validator.FieldError{Field: field, Message: "min_qty must be at least 1"})
		}
		if tier.MaxQty != nil && *tier.MaxQty <= tier.MinQty {
			errs = append(errs, validator.FieldError{Field: field, Message: "max_qty must be greater than min_qty"})
		}
		if !tier.Price.IsPositive() {
			errs = append(errs, validator.FieldError{Field: field, Message: "price must be greater than 0"})
		}
	}
	return errs
}

// StringArray is a JSONB-backed slice of strings (image URLs/paths).
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(a)
	return string(raw), err
}

func (a *StringArray) Scan(value interface{}) error {
	return scanJSON(value, a)
}

// Product is a seller's listing. Visibility to buyers requires
// Status == approved AND IsActive == true; the edit state machine below
// pulls an approved listing back to pending whenever the seller changes it.
type Product struct {
	BaseModel
	ProductID string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"product_id"`
	SellerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"seller_id" validate:"uuid_required"`

	SectionID  uuid.UUID `gorm:"type:uuid;not null;index:idx_products_listing" json:"section_id" validate:"uuid_required"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index:idx_products_listing" json:"category_id" validate:"uuid_required"`
	Section    *Section  `gorm:"foreignKey:SectionID" json:"section,omitempty" validate:"-"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`

	ProductName string          `gorm:"type:varchar(200);not null" json:"product_name" validate:"required,min=3,max=200"`
	Description string          `gorm:"type:varchar(5000);not null" json:"description" validate:"required,min=20,max=5000"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	BulkPricing BulkPricing     `gorm:"type:jsonb" json:"bulk_pricing"`
	Images      StringArray     `gorm:"type:jsonb" json:"images"`

	InventoryType InventoryType `gorm:"type:varchar(10);not null;default:'unlimited'" json:"inventory_type" validate:"required,oneof=unlimited limited"`
	Quantity      int           `gorm:"default:0" json:"quantity" validate:"gte=0"`
	SoldCount     int           `gorm:"default:0" json:"sold_count"`

	DeliveryType       string `gorm:"type:varchar(10);not null;default:'instant'" json:"delivery_type" validate:"required,oneof=instant 1-6h 12h 24h custom"`
	CustomDeliveryTime string `gorm:"type:varchar(100)" json:"custom_delivery_time"`

	ReplacementAvailable bool   `gorm:"default:false" json:"replacement_available"`
	ReplacementDuration  string `gorm:"type:varchar(100)" json:"replacement_duration"`

	// Derived from reviews (review pipeline out of scope here)
	Rating      float64 `gorm:"type:decimal(3,2);default:0" json:"rating" validate:"gte=0,lte=5"`
	ReviewCount int     `gorm:"default:0" json:"review_count" validate:"gte=0"`

	// Lifecycle state
	Status          ProductStatus    `gorm:"type:varchar(10);not null;default:'pending';index:idx_products_listing" json:"status"`
	RejectionReason string           `gorm:"type:text" json:"rejection_reason,omitempty"`
	IsActive        bool             `gorm:"default:true;index:idx_products_listing" json:"is_active"`
	IsEdited        bool             `gorm:"default:false" json:"is_edited"`
	PreviousVersion *ProductSnapshot `gorm:"type:jsonb" json:"previous_version,omitempty"`
}

// TableName specifies the table name for GORM
func (Product) TableName() string {
	return "products"
}

// VisibleToBuyers reports whether the listing appears in buyer-facing
// queries. Independent of IsActive, an edited listing stays hidden until
// re-approved because its status reverts to pending.
func (p *Product) VisibleToBuyers() bool {
	return p.Status == StatusApproved && p.IsActive
}

// DisplayQuantity returns the buyer-facing stock figure.
func (p *Product) DisplayQuantity() int {
	if p.InventoryType == InventoryUnlimited {
		return UnlimitedStockDisplay
	}
	return p.Quantity
}

// GetBulkPrice returns the unit price for the given quantity: the first tier
// in declared order whose [MinQty, MaxQty] range contains the quantity, or
// the base price when no tier matches.
func (p *Product) GetBulkPrice(quantity int) decimal.Decimal {
	for _, tier := range p.BulkPricing {
		if quantity >= tier.MinQty && (tier.MaxQty == nil || quantity <= *tier.MaxQty) {
			return tier.Price
		}
	}
	return p.Price
}

// ValidatePayload checks the full entity payload in one pass and returns
// every violation: tag constraints, price positivity, bulk tier rules, and
// the custom-delivery cross-field rule.
func (p *Product) ValidatePayload() validator.ValidationErrors {
	errs := validator.ValidateStruct(p)
	if !p.Price.IsPositive() {
		errs = append(errs, validator.FieldError{Field: "price", Message: "must be greater than 0"})
	}
	if p.DeliveryType == "custom" && strings.TrimSpace(p.CustomDeliveryTime) == "" {
		errs = append(errs, validator.FieldError{Field: "custom_delivery_time", Message: "is required for custom delivery"})
	}
	errs = append(errs, p.BulkPricing.Validate()...)
	return errs
}

// ProductEdit carries the seller-mutable fields of an update.
type ProductEdit struct {
	ProductName          string          `json:"product_name"`
	Description          string          `json:"description"`
	Price                decimal.Decimal `json:"price"`
	BulkPricing          BulkPricing     `json:"bulk_pricing"`
	Images               StringArray     `json:"images"`
	InventoryType        InventoryType   `json:"inventory_type"`
	Quantity             int             `json:"quantity"`
	DeliveryType         string          `json:"delivery_type"`
	CustomDeliveryTime   string          `json:"custom_delivery_time"`
	ReplacementAvailable bool            `json:"replacement_available"`
	ReplacementDuration  string          `json:"replacement_duration"`
	Attributes           AttributeBag    `json:"attributes"`
}

// ApplyEdit applies a seller edit and runs the edit-tracking transition:
//
//	approved -> pending with IsEdited=true and a pre-edit snapshot,
//	rejected -> pending as a fresh resubmission (IsEdited=false, reason cleared),
//	pending  -> fields change, flags untouched.
//
// currentAttrs is the attribute bag as stored before this edit; it is part
// of the snapshot so admins can diff attribute changes too.
func (p *Product) ApplyEdit(edit ProductEdit, currentAttrs AttributeBag) {
	switch p.Status {
	case StatusApproved:
		snap := p.Snapshot(currentAttrs)
		p.PreviousVersion = &snap
		p.Status = StatusPending
		p.IsEdited = true
	case StatusRejected:
		p.Status = StatusPending
		p.IsEdited = false
		p.RejectionReason = ""
	}

	p.ProductName = edit.ProductName
	p.Description = edit.Description
	p.Price = edit.Price
	p.BulkPricing = edit.BulkPricing
	p.Images = edit.Images
	p.InventoryType = edit.InventoryType
	p.Quantity = edit.Quantity
	p.DeliveryType = edit.DeliveryType
	p.CustomDeliveryTime = edit.CustomDeliveryTime
	p.ReplacementAvailable = edit.ReplacementAvailable
	p.ReplacementDuration = edit.ReplacementDuration
}

// Approve transitions pending -> approved. The caller must have re-run
// attribute validation against the section's current schema first; approval
// is conditional on it passing. PreviousVersion is retained for audit.
func (p *Product) Approve() error {
	if p.Status != StatusPending {
		return ErrInvalidTransition
	}
	p.Status = StatusApproved
	p.IsEdited = false
	p.RejectionReason = ""
	return nil
}

// Reject transitions pending -> rejected with a mandatory human-readable
// reason. IsEdited is left as-is: after an edit-then-reject it stays true,
// signalling the rejection followed an edit of a live listing.
func (p *Product) Reject(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrRejectionReasonRequired
	}
	if p.Status != StatusPending {
		return ErrInvalidTransition
	}
	p.Status = StatusRejected
	p.RejectionReason = reason
	return nil
}

// DecrementStock applies a sale of qty units. For limited inventory the
// quantity guard must hold or nothing changes; for unlimited inventory the
// stored quantity is ignored. SoldCount grows on every success.
func (p *Product) DecrementStock(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if p.InventoryType == InventoryLimited {
		if p.Quantity < qty {
			return ErrInsufficientStock
		}
		p.Quantity -= qty
	}
	p.SoldCount += qty
	return nil
}
