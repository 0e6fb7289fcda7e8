package model

import "github.com/google/uuid"

// ProductAttribute is the per-product attribute bag, one-to-one with the
// product. Validity is schema-relative: the bag is checked against the
// owning section's attribute schema at edit time and again at approval
// time, never cached.
type ProductAttribute struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`

	Attributes AttributeBag `gorm:"type:jsonb" json:"attributes"`
}

// TableName specifies the table name for GORM
func (ProductAttribute) TableName() string {
	return "product_attributes"
}
