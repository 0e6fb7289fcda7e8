package service

import (
	"sync"

	"go-marketplace-api/internal/model"
	"go-marketplace-api/internal/repository"
	"go-marketplace-api/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes implementing the repository interfaces, in the style of a
// hand-written mock repo. The product fake serializes UpdateLocked and
// DecrementStock with a mutex, mirroring the row lock / guarded UPDATE the
// real repository relies on.

type fakeSectionRepo struct {
	mu       sync.Mutex
	sections map[uuid.UUID]*model.Section
}

func newFakeSectionRepo() *fakeSectionRepo {
	return &fakeSectionRepo{sections: map[uuid.UUID]*model.Section{}}
}

func (r *fakeSectionRepo) Create(s *model.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sections[s.ID] = &cp
	return nil
}

func (r *fakeSectionRepo) FindAll(includeInactive bool) ([]model.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Section
	for _, s := range r.sections {
		if includeInactive || s.IsActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSectionRepo) FindByID(id uuid.UUID) (*model.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sections[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSectionRepo) FindBySlug(slug string) (*model.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sections {
		if s.Slug == slug {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSectionRepo) Update(s *model.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sections[s.ID] = &cp
	return nil
}

func (r *fakeSectionRepo) Delete(id uuid.UUID, deletedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sections, id)
	return nil
}

func (r *fakeSectionRepo) CountCategories(sectionID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeSectionRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sections)), nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*model.Category
	// products per category, split into total and buyer-visible
	productCounts map[uuid.UUID]int64
	visibleCounts map[uuid.UUID]int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		categories:    map[uuid.UUID]*model.Category{},
		productCounts: map[uuid.UUID]int64{},
		visibleCounts: map[uuid.UUID]int64{},
	}
}

func (r *fakeCategoryRepo) Create(c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) FindAll(includeInactive bool) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Category
	for _, c := range r.categories {
		if includeInactive || c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) FindBySection(sectionID uuid.UUID, includeInactive bool) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Category
	for _, c := range r.categories {
		if c.SectionID == sectionID && (includeInactive || c.IsActive) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) FindByID(id uuid.UUID) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) FindBySlug(slug string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCategoryRepo) Update(c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(id uuid.UUID, deletedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) CountProducts(categoryID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.productCounts[categoryID], nil
}

func (r *fakeCategoryRepo) CountVisibleProducts(categoryID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visibleCounts[categoryID], nil
}

func (r *fakeCategoryRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.categories)), nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*model.Product             // by public ProductID
	attrs    map[uuid.UUID]*model.ProductAttribute // by internal product ID
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: map[string]*model.Product{},
		attrs:    map[uuid.UUID]*model.ProductAttribute{},
	}
}

func (r *fakeProductRepo) Create(p *model.Product, a *model.ProductAttribute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	a.ProductID = p.ID
	pc, ac := *p, *a
	r.products[p.ProductID] = &pc
	r.attrs[p.ID] = &ac
	return nil
}

func (r *fakeProductRepo) FindByProductID(productID string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) FindAttributes(id uuid.UUID) (*model.ProductAttribute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attrs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeProductRepo) FindBySeller(sellerID uuid.UUID) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.SellerID == sellerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindByStatus(status model.ProductStatus) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListVisible(filter repository.ListingFilter) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if !p.VisibleToBuyers() {
			continue
		}
		if filter.SectionID != nil && p.SectionID != *filter.SectionID {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) UpdateLocked(productID string, fn func(p *model.Product, attrs *model.ProductAttribute) error) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a := r.attrs[p.ID]

	// Work on copies so a failing fn leaves stored state untouched,
	// matching transaction rollback
	pc, ac := *p, *a
	if err := fn(&pc, &ac); err != nil {
		return nil, err
	}
	r.products[productID] = &pc
	r.attrs[pc.ID] = &ac
	out := pc
	return &out, nil
}

func (r *fakeProductRepo) Delete(id uuid.UUID, deletedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for pid, p := range r.products {
		if p.ID == id {
			delete(r.products, pid)
		}
	}
	delete(r.attrs, id)
	return nil
}

func (r *fakeProductRepo) DecrementStock(productID string, qty int) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// Same guard the SQL conditional update enforces
	if p.InventoryType == model.InventoryLimited {
		if p.Quantity < qty {
			return nil, model.ErrInsufficientStock
		}
		p.Quantity -= qty
	}
	p.SoldCount += qty
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) CountByStatus(status model.ProductStatus) (int64, error) {
	products, _ := r.FindByStatus(status)
	return int64(len(products)), nil
}

func (r *fakeProductRepo) SumSoldCount() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, p := range r.products {
		total += int64(p.SoldCount)
	}
	return total, nil
}

type fakeModerationRepo struct {
	mu      sync.Mutex
	records []model.ModerationRecord
}

func newFakeModerationRepo() *fakeModerationRepo {
	return &fakeModerationRepo{}
}

func (r *fakeModerationRepo) Create(rec *model.ModerationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakeModerationRepo) FindByProduct(productID uuid.UUID) ([]model.ModerationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ModerationRecord
	for _, rec := range r.records {
		if rec.ProductID == productID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeModerationRepo) FindRecent(limit int) ([]model.ModerationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) < limit {
		limit = len(r.records)
	}
	out := make([]model.ModerationRecord, limit)
	copy(out, r.records[len(r.records)-limit:])
	return out, nil
}

// testHub returns a running hub so service broadcasts drain instead of
// blocking test goroutines.
func testHub() *ws.Hub {
	hub := ws.NewHub()
	go hub.Run()
	return hub
}
