package repository

import (
	"go-marketplace-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModerationRepository interface {
	Create(record *model.ModerationRecord) error
	FindByProduct(productID uuid.UUID) ([]model.ModerationRecord, error)
	FindRecent(limit int) ([]model.ModerationRecord, error)
}

type moderationRepo struct {
	db *gorm.DB
}

func NewModerationRepo(db *gorm.DB) ModerationRepository {
	return &moderationRepo{db}
}

func (r *moderationRepo) Create(record *model.ModerationRecord) error {
	return r.db.Create(record).Error
}

func (r *moderationRepo) FindByProduct(productID uuid.UUID) ([]model.ModerationRecord, error) {
	var records []model.ModerationRecord
	err := r.db.Where("product_id = ?", productID).Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *moderationRepo) FindRecent(limit int) ([]model.ModerationRecord, error) {
	var records []model.ModerationRecord
	err := r.db.Preload("Product").Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}
