package service

import (
	"go-marketplace-api/internal/model"
	"go-marketplace-api/internal/repository"
)

// MarketplaceStats is the admin dashboard overview.
type MarketplaceStats struct {
	PendingProducts  int64 `json:"pending_products"`
	ApprovedProducts int64 `json:"approved_products"`
	RejectedProducts int64 `json:"rejected_products"`
	TotalSold        int64 `json:"total_sold"`
	Sections         int64 `json:"sections"`
	Categories       int64 `json:"categories"`
}

type DashboardService interface {
	GetMarketplaceStats() (*MarketplaceStats, error)
}

type dashboardService struct {
	productRepo  repository.ProductRepository
	sectionRepo  repository.SectionRepository
	categoryRepo repository.CategoryRepository
}

func NewDashboardService(
	productRepo repository.ProductRepository,
	sectionRepo repository.SectionRepository,
	categoryRepo repository.CategoryRepository,
) DashboardService {
	return &dashboardService{
		productRepo:  productRepo,
		sectionRepo:  sectionRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *dashboardService) GetMarketplaceStats() (*MarketplaceStats, error) {
	stats := &MarketplaceStats{}

	var err error
	if stats.PendingProducts, err = s.productRepo.CountByStatus(model.StatusPending); err != nil {
		return nil, err
	}
	if stats.ApprovedProducts, err = s.productRepo.CountByStatus(model.StatusApproved); err != nil {
		return nil, err
	}
	if stats.RejectedProducts, err = s.productRepo.CountByStatus(model.StatusRejected); err != nil {
		return nil, err
	}
	if stats.TotalSold, err = s.productRepo.SumSoldCount(); err != nil {
		return nil, err
	}
	if stats.Sections, err = s.sectionRepo.Count(); err != nil {
		return nil, err
	}
	if stats.Categories, err = s.categoryRepo.Count(); err != nil {
		return nil, err
	}

	return stats, nil
}
