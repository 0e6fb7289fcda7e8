package model

import "github.com/google/uuid"

type ModerationAction string

const (
	ModerationApprove ModerationAction = "APPROVE"
	ModerationReject  ModerationAction = "REJECT"
)

// ModerationRecord is an append-only audit entry for admin moderation
// actions. Reason is shown to the seller on rejection; AdminNotes stays
// internal on approval.
type ModerationRecord struct {
	BaseModel
	ProductID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product    *Product         `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	Action     ModerationAction `gorm:"type:varchar(10);not null" json:"action" validate:"required,oneof=APPROVE REJECT"`
	Reason     string           `gorm:"type:text" json:"reason,omitempty"`
	AdminNotes string           `gorm:"type:text" json:"-"`
	AdminID    uuid.UUID        `gorm:"type:uuid;not null" json:"admin_id"`

	// True when the moderated submission was an edit of a previously
	// approved listing rather than a fresh one.
	WasEdited bool `gorm:"default:false" json:"was_edited"`
}

// TableName specifies the table name for GORM
func (ModerationRecord) TableName() string {
	return "moderation_records"
}
