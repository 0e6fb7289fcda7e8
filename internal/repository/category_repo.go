package repository

import (
	"go-marketplace-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll(includeInactive bool) ([]model.Category, error)
	FindBySection(sectionID uuid.UUID, includeInactive bool) ([]model.Category, error)
	FindByID(id uuid.UUID) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	Update(category *model.Category) error
	Delete(id uuid.UUID, deletedBy string) error
	CountProducts(categoryID uuid.UUID) (int64, error)
	CountVisibleProducts(categoryID uuid.UUID) (int64, error)
	Count() (int64, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepo) FindAll(includeInactive bool) ([]model.Category, error) {
	var categories []model.Category
	query := r.db.Preload("Section").Order("display_order ASC, name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindBySection(sectionID uuid.UUID, includeInactive bool) ([]model.Category, error) {
	var categories []model.Category
	query := r.db.Where("section_id = ?", sectionID).Order("display_order ASC, name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) FindByID(id uuid.UUID) (*model.Category, error) {
	var category model.Category
	err := r.db.First(&category, "id = ?", id).Error
	return &category, err
}

func (r *categoryRepo) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.Preload("Section").First(&category, "slug = ?", slug).Error
	return &category, err
}

func (r *categoryRepo) Update(category *model.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.Category{}).
		Where("id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Category{}, "id = ?", id).Error
}

// CountProducts counts every product referencing the category, any status.
// Used by the delete guard.
func (r *categoryRepo) CountProducts(categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// CountVisibleProducts counts approved + active products only. This is the
// buyer-facing product_count shown on category tiles.
func (r *categoryRepo) CountVisibleProducts(categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("category_id = ? AND status = ? AND is_active = ?", categoryID, model.StatusApproved, true).
		Count(&count).Error
	return count, err
}

func (r *categoryRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Count(&count).Error
	return count, err
}
