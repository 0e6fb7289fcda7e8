package model

import "github.com/google/uuid"

// Category groups products under exactly one section. Slugs are globally
// unique, not just unique within the parent section.
type Category struct {
	BaseModel
	SectionID uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id" validate:"uuid_required"`
	Section   *Section  `gorm:"foreignKey:SectionID" json:"section,omitempty" validate:"-"`

	Name        string `gorm:"type:varchar(50);not null" json:"name" validate:"required,min=2,max=50"`
	Slug        string `gorm:"type:varchar(60);uniqueIndex;not null" json:"slug"`
	Icon        string `gorm:"type:varchar(10)" json:"icon" validate:"max=10"`
	Description string `gorm:"type:varchar(500)" json:"description" validate:"max=500"`
	Order       int    `gorm:"column:display_order;default:0" json:"order" validate:"gte=0"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	// Computed on demand: approved + active products in this category.
	// Never stored.
	ProductCount int64 `gorm:"-" json:"product_count,omitempty"`
}

// TableName specifies the table name for GORM
func (Category) TableName() string {
	return "categories"
}
