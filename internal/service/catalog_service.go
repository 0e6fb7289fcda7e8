package service

import (
	"errors"

	"go-marketplace-api/internal/model"
	"go-marketplace-api/internal/repository"
	"go-marketplace-api/pkg/slug"
	"go-marketplace-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Error definitions
var (
	ErrSectionNotFound      = errors.New("section not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrSectionHasCategories = errors.New("section has categories and cannot be deleted")
	ErrCategoryHasProducts  = errors.New("category has products and cannot be deleted")
	ErrSlugTaken            = errors.New("slug already in use")
	ErrEmptySlug            = errors.New("name does not produce a valid slug")
)

type CatalogService interface {
	CreateSection(req *CreateSectionRequest, adminID string) (*model.Section, error)
	UpdateSection(id uuid.UUID, req *UpdateSectionRequest, adminID string) (*model.Section, error)
	DeleteSection(id uuid.UUID, adminID string) error
	GetSections(includeInactive bool) ([]model.Section, error)
	GetSectionBySlug(slug string) (*model.Section, error)

	CreateCategory(req *CreateCategoryRequest, adminID string) (*model.Category, error)
	UpdateCategory(id uuid.UUID, req *UpdateCategoryRequest, adminID string) (*model.Category, error)
	DeleteCategory(id uuid.UUID, adminID string) error
	GetCategories(sectionSlug string, includeInactive bool) ([]model.Category, error)
}

type CreateSectionRequest struct {
	Name            string                `json:"name" validate:"required,min=2,max=50"`
	Slug            string                `json:"slug"`
	Icon            string                `json:"icon" validate:"max=10"`
	Description     string                `json:"description" validate:"max=500"`
	Order           int                   `json:"order" validate:"gte=0"`
	IsActive        *bool                 `json:"is_active"`
	AttributeSchema model.AttributeSchema `json:"attribute_schema"`
}

type UpdateSectionRequest struct {
	Name            *string                `json:"name"`
	Icon            *string                `json:"icon"`
	Description     *string                `json:"description"`
	Order           *int                   `json:"order"`
	IsActive        *bool                  `json:"is_active"`
	AttributeSchema *model.AttributeSchema `json:"attribute_schema"`
}

type CreateCategoryRequest struct {
	SectionID   uuid.UUID `json:"section_id" validate:"uuid_required"`
	Name        string    `json:"name" validate:"required,min=2,max=50"`
	Slug        string    `json:"slug"`
	Icon        string    `json:"icon" validate:"max=10"`
	Description string    `json:"description" validate:"max=500"`
	Order       int       `json:"order" validate:"gte=0"`
	IsActive    *bool     `json:"is_active"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Icon        *string `json:"icon"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"is_active"`
}

type catalogService struct {
	sectionRepo  repository.SectionRepository
	categoryRepo repository.CategoryRepository
}

func NewCatalogService(sectionRepo repository.SectionRepository, categoryRepo repository.CategoryRepository) CatalogService {
	return &catalogService{
		sectionRepo:  sectionRepo,
		categoryRepo: categoryRepo,
	}
}

// deriveSlug resolves the slug for a new entity: an explicitly supplied slug
// wins, otherwise it is derived from the name. Derivation happens exactly
// once at creation; renames never re-derive (URL stability).
func deriveSlug(explicit, name string) (string, error) {
	s := explicit
	if s == "" {
		s = slug.Make(name)
	} else {
		s = slug.Make(s)
	}
	if s == "" {
		return "", ErrEmptySlug
	}
	return s, nil
}

func (s *catalogService) CreateSection(req *CreateSectionRequest, adminID string) (*model.Section, error) {
	if errs := validator.ValidateStruct(req); errs != nil {
		return nil, errs
	}
	if errs := req.AttributeSchema.Validate(); errs != nil {
		return nil, errs
	}

	slugValue, err := deriveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}
	if existing, _ := s.sectionRepo.FindBySlug(slugValue); existing != nil && existing.ID != uuid.Nil {
		return nil, ErrSlugTaken
	}

	icon := req.Icon
	if icon == "" {
		icon = model.DefaultIcon
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	schema := req.AttributeSchema
	if schema == nil {
		schema = model.AttributeSchema{}
	}

	section := &model.Section{
		SectionID:       model.NewPublicID("SEC"),
		Name:            req.Name,
		Slug:            slugValue,
		Icon:            icon,
		Description:     req.Description,
		Order:           req.Order,
		IsActive:        isActive,
		AttributeSchema: schema,
	}
	section.CreatedBy = adminID
	section.UpdatedBy = adminID

	if err := s.sectionRepo.Create(section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *catalogService) UpdateSection(id uuid.UUID, req *UpdateSectionRequest, adminID string) (*model.Section, error) {
	section, err := s.sectionRepo.FindByID(id)
	if err != nil {
		return nil, ErrSectionNotFound
	}

	// Slug is intentionally not touched on rename
	if req.Name != nil {
		section.Name = *req.Name
	}
	if req.Icon != nil {
		section.Icon = *req.Icon
	}
	if req.Description != nil {
		section.Description = *req.Description
	}
	if req.Order != nil {
		section.Order = *req.Order
	}
	if req.IsActive != nil {
		section.IsActive = *req.IsActive
	}
	if req.AttributeSchema != nil {
		if errs := req.AttributeSchema.Validate(); errs != nil {
			return nil, errs
		}
		// Schema edits take effect immediately: every later validation call
		// reads the stored schema, nothing is cached
		section.AttributeSchema = *req.AttributeSchema
	}
	section.UpdatedBy = adminID

	if errs := validator.ValidateStruct(section); errs != nil {
		return nil, errs
	}

	if err := s.sectionRepo.Update(section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *catalogService) DeleteSection(id uuid.UUID, adminID string) error {
	if _, err := s.sectionRepo.FindByID(id); err != nil {
		return ErrSectionNotFound
	}

	count, err := s.sectionRepo.CountCategories(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSectionHasCategories
	}

	return s.sectionRepo.Delete(id, adminID)
}

func (s *catalogService) GetSections(includeInactive bool) ([]model.Section, error) {
	return s.sectionRepo.FindAll(includeInactive)
}

func (s *catalogService) GetSectionBySlug(slugValue string) (*model.Section, error) {
	section, err := s.sectionRepo.FindBySlug(slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return section, nil
}

func (s *catalogService) CreateCategory(req *CreateCategoryRequest, adminID string) (*model.Category, error) {
	if errs := validator.ValidateStruct(req); errs != nil {
		return nil, errs
	}

	if _, err := s.sectionRepo.FindByID(req.SectionID); err != nil {
		return nil, ErrSectionNotFound
	}

	slugValue, err := deriveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}
	// Category slugs are globally unique, not just unique within the section
	if existing, _ := s.categoryRepo.FindBySlug(slugValue); existing != nil && existing.ID != uuid.Nil {
		return nil, ErrSlugTaken
	}

	icon := req.Icon
	if icon == "" {
		icon = model.DefaultIcon
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	category := &model.Category{
		SectionID:   req.SectionID,
		Name:        req.Name,
		Slug:        slugValue,
		Icon:        icon,
		Description: req.Description,
		Order:       req.Order,
		IsActive:    isActive,
	}
	category.CreatedBy = adminID
	category.UpdatedBy = adminID

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(id uuid.UUID, req *UpdateCategoryRequest, adminID string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Order != nil {
		category.Order = *req.Order
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedBy = adminID

	if errs := validator.ValidateStruct(category); errs != nil {
		return nil, errs
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(id uuid.UUID, adminID string) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		return ErrCategoryNotFound
	}

	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryHasProducts
	}

	return s.categoryRepo.Delete(id, adminID)
}

func (s *catalogService) GetCategories(sectionSlug string, includeInactive bool) ([]model.Category, error) {
	var categories []model.Category
	var err error

	if sectionSlug != "" {
		section, ferr := s.sectionRepo.FindBySlug(sectionSlug)
		if ferr != nil {
			return nil, ErrSectionNotFound
		}
		categories, err = s.categoryRepo.FindBySection(section.ID, includeInactive)
	} else {
		categories, err = s.categoryRepo.FindAll(includeInactive)
	}
	if err != nil {
		return nil, err
	}

	// Fill the derived, never-stored product count
	for i := range categories {
		count, cerr := s.categoryRepo.CountVisibleProducts(categories[i].ID)
		if cerr != nil {
			return nil, cerr
		}
		categories[i].ProductCount = count
	}
	return categories, nil
}
