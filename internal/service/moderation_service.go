package service

import (
	"errors"
	"fmt"
	"log"

	"go-marketplace-api/internal/model"
	"go-marketplace-api/internal/repository"
	"go-marketplace-api/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModerationService interface {
	ApproveProduct(productID string, adminID uuid.UUID, adminNotes string) (*model.Product, error)
	RejectProduct(productID string, adminID uuid.UUID, reason string) (*model.Product, error)
	GetProductChanges(productID string) ([]model.FieldChange, error)
	GetProductsByStatus(status model.ProductStatus) ([]model.Product, error)
	GetModerationLog(limit int) ([]model.ModerationRecord, error)
}

type moderationService struct {
	productRepo    repository.ProductRepository
	sectionRepo    repository.SectionRepository
	moderationRepo repository.ModerationRepository
	wsHub          *ws.Hub
}

func NewModerationService(
	productRepo repository.ProductRepository,
	sectionRepo repository.SectionRepository,
	moderationRepo repository.ModerationRepository,
	hub *ws.Hub,
) ModerationService {
	return &moderationService{
		productRepo:    productRepo,
		sectionRepo:    sectionRepo,
		moderationRepo: moderationRepo,
		wsHub:          hub,
	}
}

// ApproveProduct runs the conditional pending -> approved transition. The
// attribute bag is re-validated against the section's schema as it stands
// right now, not as it stood at edit time; a failing bag aborts the whole
// approval with no partial state change.
func (s *moderationService) ApproveProduct(productID string, adminID uuid.UUID, adminNotes string) (*model.Product, error) {
	var wasEdited bool

	updated, err := s.productRepo.UpdateLocked(productID, func(p *model.Product, attrs *model.ProductAttribute) error {
		section, serr := s.sectionRepo.FindByID(p.SectionID)
		if serr != nil {
			return ErrSectionNotFound
		}

		if result := model.ValidateAttributes(attrs.Attributes, section.AttributeSchema); !result.Valid {
			return &AttributeError{Errors: result.Errors}
		}

		wasEdited = p.IsEdited
		if err := p.Approve(); err != nil {
			return err
		}
		p.UpdatedBy = adminID.String()
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	record := &model.ModerationRecord{
		ProductID:  updated.ID,
		Action:     model.ModerationApprove,
		AdminNotes: adminNotes,
		AdminID:    adminID,
		WasEdited:  wasEdited,
	}
	record.CreatedBy = adminID.String()
	if err := s.moderationRepo.Create(record); err != nil {
		// The transition is already committed; the decision must not look
		// failed to the admin because the audit write was lost
		log.Printf("Warning: failed to record approval of %s: %v", updated.ProductID, err)
	}

	s.wsHub.Publish(ws.Event{
		Type:   "moderation_update",
		Action: "product_approved",
		Payload: map[string]interface{}{
			"product_id": updated.ProductID,
			"name":       updated.ProductName,
			"was_edited": wasEdited,
		},
		Message: fmt.Sprintf("'%s' is now live", updated.ProductName),
	})

	return updated, nil
}

func (s *moderationService) RejectProduct(productID string, adminID uuid.UUID, reason string) (*model.Product, error) {
	updated, err := s.productRepo.UpdateLocked(productID, func(p *model.Product, attrs *model.ProductAttribute) error {
		if err := p.Reject(reason); err != nil {
			return err
		}
		p.UpdatedBy = adminID.String()
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	record := &model.ModerationRecord{
		ProductID: updated.ID,
		Action:    model.ModerationReject,
		Reason:    updated.RejectionReason,
		AdminID:   adminID,
		WasEdited: updated.IsEdited,
	}
	record.CreatedBy = adminID.String()
	if err := s.moderationRepo.Create(record); err != nil {
		// Same as approval: the rejection stands even without its audit row
		log.Printf("Warning: failed to record rejection of %s: %v", updated.ProductID, err)
	}

	s.wsHub.Publish(ws.Event{
		Type:   "moderation_update",
		Action: "product_rejected",
		Payload: map[string]interface{}{
			"product_id": updated.ProductID,
			"name":       updated.ProductName,
			"reason":     updated.RejectionReason,
		},
		Message: fmt.Sprintf("'%s' was rejected", updated.ProductName),
	})

	return updated, nil
}

// GetProductChanges diffs the retained pre-edit snapshot against the current
// submission for the admin "view changes" screen.
func (s *moderationService) GetProductChanges(productID string) ([]model.FieldChange, error) {
	product, err := s.productRepo.FindByProductID(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	attrs, err := s.productRepo.FindAttributes(product.ID)
	if err != nil {
		return nil, err
	}
	return product.Changes(attrs.Attributes)
}

func (s *moderationService) GetProductsByStatus(status model.ProductStatus) ([]model.Product, error) {
	return s.productRepo.FindByStatus(status)
}

func (s *moderationService) GetModerationLog(limit int) ([]model.ModerationRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.moderationRepo.FindRecent(limit)
}
