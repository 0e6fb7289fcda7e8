package model

// Section is a top-level marketplace grouping (e.g. "Email Accounts"). It
// owns the attribute schema that every product listed beneath it is
// validated against.
type Section struct {
	BaseModel
	SectionID   string `gorm:"type:varchar(20);uniqueIndex;not null" json:"section_id"`
	Name        string `gorm:"type:varchar(50);not null" json:"name" validate:"required,min=2,max=50"`
	Slug        string `gorm:"type:varchar(60);uniqueIndex;not null" json:"slug"`
	Icon        string `gorm:"type:varchar(10)" json:"icon" validate:"max=10"`
	Description string `gorm:"type:varchar(500)" json:"description" validate:"max=500"`
	Order       int    `gorm:"column:display_order;default:0;index:idx_sections_order" json:"order" validate:"gte=0"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	AttributeSchema AttributeSchema `gorm:"type:jsonb" json:"attribute_schema"`

	// Relations
	Categories []Category `gorm:"foreignKey:SectionID" json:"categories,omitempty"`
}

const DefaultIcon = "\U0001F4E6" // 📦

// TableName specifies the table name for GORM
func (Section) TableName() string {
	return "sections"
}
