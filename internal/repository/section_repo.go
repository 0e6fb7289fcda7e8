package repository

import (
	"go-marketplace-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SectionRepository interface {
	Create(section *model.Section) error
	FindAll(includeInactive bool) ([]model.Section, error)
	FindByID(id uuid.UUID) (*model.Section, error)
	FindBySlug(slug string) (*model.Section, error)
	Update(section *model.Section) error
	Delete(id uuid.UUID, deletedBy string) error
	CountCategories(sectionID uuid.UUID) (int64, error)
	Count() (int64, error)
}

type sectionRepo struct {
	db *gorm.DB
}

func NewSectionRepo(db *gorm.DB) SectionRepository {
	return &sectionRepo{db}
}

func (r *sectionRepo) Create(section *model.Section) error {
	return r.db.Create(section).Error
}

func (r *sectionRepo) FindAll(includeInactive bool) ([]model.Section, error) {
	var sections []model.Section
	query := r.db.Order("display_order ASC, name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&sections).Error
	return sections, err
}

func (r *sectionRepo) FindByID(id uuid.UUID) (*model.Section, error) {
	var section model.Section
	err := r.db.First(&section, "id = ?", id).Error
	return &section, err
}

func (r *sectionRepo) FindBySlug(slug string) (*model.Section, error) {
	var section model.Section
	err := r.db.First(&section, "slug = ?", slug).Error
	return &section, err
}

func (r *sectionRepo) Update(section *model.Section) error {
	return r.db.Save(section).Error
}

func (r *sectionRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.Section{}).
		Where("id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Section{}, "id = ?", id).Error
}

func (r *sectionRepo) CountCategories(sectionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Where("section_id = ?", sectionID).Count(&count).Error
	return count, err
}

func (r *sectionRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Section{}).Count(&count).Error
	return count, err
}
