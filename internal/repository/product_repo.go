package repository

import (
	"go-marketplace-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListingFilter narrows buyer-facing product queries.
type ListingFilter struct {
	SectionID  *uuid.UUID
	CategoryID *uuid.UUID
}

type ProductRepository interface {
	// Create persists the product and its attribute bag in one transaction.
	Create(product *model.Product, attrs *model.ProductAttribute) error
	FindByProductID(productID string) (*model.Product, error)
	FindAttributes(id uuid.UUID) (*model.ProductAttribute, error)
	FindBySeller(sellerID uuid.UUID) ([]model.Product, error)
	FindByStatus(status model.ProductStatus) ([]model.Product, error)
	ListVisible(filter ListingFilter) ([]model.Product, error)
	// UpdateLocked loads the product and its attribute bag under a row lock,
	// applies fn, and persists both as one unit. The read of current status,
	// the transition decision, and the write commit atomically.
	UpdateLocked(productID string, fn func(p *model.Product, attrs *model.ProductAttribute) error) (*model.Product, error)
	Delete(id uuid.UUID, deletedBy string) error
	// DecrementStock applies a quantity-guarded conditional update so two
	// concurrent sales can never both drain the same last unit.
	DecrementStock(productID string, qty int) (*model.Product, error)
	CountByStatus(status model.ProductStatus) (int64, error)
	SumSoldCount() (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// lockForUpdate adds SELECT ... FOR UPDATE to the statement so the
// read-decide-write of a status transition serializes on the product row.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

func (r *productRepo) Create(product *model.Product, attrs *model.ProductAttribute) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		attrs.ProductID = product.ID
		return tx.Create(attrs).Error
	})
}

func (r *productRepo) FindByProductID(productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Section").Preload("Category").First(&product, "product_id = ?", productID).Error
	return &product, err
}

func (r *productRepo) FindAttributes(id uuid.UUID) (*model.ProductAttribute, error) {
	var attrs model.ProductAttribute
	err := r.db.First(&attrs, "product_id = ?", id).Error
	return &attrs, err
}

func (r *productRepo) FindBySeller(sellerID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Section").Preload("Category").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindByStatus(status model.ProductStatus) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Section").Preload("Category").
		Where("status = ?", status).
		Order("updated_at ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListVisible(filter ListingFilter) ([]model.Product, error) {
	var products []model.Product
	query := r.db.Preload("Section").Preload("Category").
		Where("status = ? AND is_active = ?", model.StatusApproved, true)
	if filter.SectionID != nil {
		query = query.Where("section_id = ?", *filter.SectionID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	err := query.Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) UpdateLocked(productID string, fn func(p *model.Product, attrs *model.ProductAttribute) error) (*model.Product, error) {
	var updated *model.Product

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		// Pessimistic lock: concurrent edits and admin actions serialize here
		if err := lockForUpdate(tx).
			First(&product, "product_id = ?", productID).Error; err != nil {
			return err
		}

		var attrs model.ProductAttribute
		if err := tx.First(&attrs, "product_id = ?", product.ID).Error; err != nil {
			return err
		}

		if err := fn(&product, &attrs); err != nil {
			return err
		}

		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		if err := tx.Save(&attrs).Error; err != nil {
			return err
		}

		updated = &product
		return nil
	})

	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *productRepo) Delete(id uuid.UUID, deletedBy string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).
			Where("id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Product{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ProductAttribute{}, "product_id = ?", id).Error
	})
}

func (r *productRepo) DecrementStock(productID string, qty int) (*model.Product, error) {
	var product model.Product

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "product_id = ?", productID).Error; err != nil {
			return err
		}

		if product.InventoryType == model.InventoryLimited {
			// Conditional update with a quantity guard: the WHERE predicate is
			// the compare-and-set, RowsAffected tells us whether we won.
			res := tx.Model(&model.Product{}).
				Where("id = ? AND quantity >= ?", product.ID, qty).
				Updates(map[string]interface{}{
					"quantity":   gorm.Expr("quantity - ?", qty),
					"sold_count": gorm.Expr("sold_count + ?", qty),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return model.ErrInsufficientStock
			}
		} else {
			if err := tx.Model(&model.Product{}).
				Where("id = ?", product.ID).
				Update("sold_count", gorm.Expr("sold_count + ?", qty)).Error; err != nil {
				return err
			}
		}

		return tx.First(&product, "id = ?", product.ID).Error
	})

	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) CountByStatus(status model.ProductStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *productRepo) SumSoldCount() (int64, error) {
	var total int64
	err := r.db.Model(&model.Product{}).Select("COALESCE(SUM(sold_count), 0)").Scan(&total).Error
	return total, err
}
