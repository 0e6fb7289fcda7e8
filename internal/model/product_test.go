package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func baseProduct() *Product {
	return &Product{
		ProductID:     "PROD-00000001",
		ProductName:   "Aged Gmail Account",
		Description:   "Aged account with recovery email, created 2019 or earlier.",
		Price:         decimal.NewFromFloat(10.00),
		InventoryType: InventoryLimited,
		Quantity:      5,
		DeliveryType:  "instant",
		Status:        StatusPending,
		IsActive:      true,
	}
}

func TestBulkPricingValidate(t *testing.T) {
	testCases := []struct {
		name      string
		tiers     BulkPricing
		wantCount int
	}{
		{
			name:      "max below min rejected",
			tiers:     BulkPricing{{MinQty: 10, MaxQty: intPtr(5), Price: decimal.NewFromInt(8)}},
			wantCount: 1,
		},
		{
			name:      "unbounded upper tier is valid",
			tiers:     BulkPricing{{MinQty: 10, MaxQty: nil, Price: decimal.NewFromInt(8)}},
			wantCount: 0,
		},
		{
			name:      "max equal to min rejected",
			tiers:     BulkPricing{{MinQty: 10, MaxQty: intPtr(10), Price: decimal.NewFromInt(8)}},
			wantCount: 1,
		},
		{
			name:      "zero min and non-positive price both reported",
			tiers:     BulkPricing{{MinQty: 0, MaxQty: intPtr(5), Price: decimal.Zero}},
			wantCount: 2,
		},
		{
			name:      "empty tier list is valid",
			tiers:     BulkPricing{},
			wantCount: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, tc.tiers.Validate(), tc.wantCount)
		})
	}
}

func TestGetBulkPrice(t *testing.T) {
	p := baseProduct()
	p.Price = decimal.NewFromFloat(12.00)
	p.BulkPricing = BulkPricing{
		{MinQty: 1, MaxQty: intPtr(9), Price: decimal.NewFromFloat(10.0)},
		{MinQty: 10, MaxQty: nil, Price: decimal.NewFromFloat(8.0)},
	}

	assert.True(t, p.GetBulkPrice(5).Equal(decimal.NewFromFloat(10.0)))
	assert.True(t, p.GetBulkPrice(20).Equal(decimal.NewFromFloat(8.0)))
	assert.True(t, p.GetBulkPrice(1000).Equal(decimal.NewFromFloat(8.0)))
	assert.True(t, p.GetBulkPrice(9).Equal(decimal.NewFromFloat(10.0)), "upper bound is inclusive")
	assert.True(t, p.GetBulkPrice(10).Equal(decimal.NewFromFloat(8.0)), "lower bound is inclusive")
}

func TestGetBulkPriceFirstMatchWins(t *testing.T) {
	p := baseProduct()
	p.BulkPricing = BulkPricing{
		{MinQty: 1, MaxQty: nil, Price: decimal.NewFromFloat(9.0)},
		{MinQty: 10, MaxQty: nil, Price: decimal.NewFromFloat(7.0)},
	}

	// Declared order decides: the first tier already covers qty 50
	assert.True(t, p.GetBulkPrice(50).Equal(decimal.NewFromFloat(9.0)))
}

func TestGetBulkPriceFallsBackToBasePrice(t *testing.T) {
	p := baseProduct()
	p.Price = decimal.NewFromFloat(12.00)
	p.BulkPricing = BulkPricing{{MinQty: 10, MaxQty: nil, Price: decimal.NewFromFloat(8.0)}}

	assert.True(t, p.GetBulkPrice(3).Equal(decimal.NewFromFloat(12.00)), "no tier matches")

	p.BulkPricing = nil
	assert.True(t, p.GetBulkPrice(100).Equal(decimal.NewFromFloat(12.00)), "no tiers at all")
}

func TestApplyEditWhileApproved(t *testing.T) {
	p := baseProduct()
	p.Status = StatusApproved
	oldPrice := p.Price

	edit := ProductEdit{
		ProductName:   p.ProductName,
		Description:   p.Description,
		Price:         decimal.NewFromFloat(15.00),
		InventoryType: p.InventoryType,
		Quantity:      p.Quantity,
		DeliveryType:  p.DeliveryType,
	}
	p.ApplyEdit(edit, AttributeBag{"quality": "PVA"})

	assert.Equal(t, StatusPending, p.Status)
	assert.True(t, p.IsEdited)
	assert.NotNil(t, p.PreviousVersion)
	assert.True(t, p.PreviousVersion.Price.Equal(oldPrice), "snapshot holds the pre-edit price")
	assert.True(t, p.Price.Equal(decimal.NewFromFloat(15.00)))
	assert.Equal(t, AttributeBag{"quality": "PVA"}, p.PreviousVersion.Attributes)
	assert.False(t, p.VisibleToBuyers(), "edited listing is hidden until re-approved")
}

func TestApplyEditWhileRejectedIsResubmission(t *testing.T) {
	p := baseProduct()
	p.Status = StatusRejected
	p.RejectionReason = "description too thin"

	p.ApplyEdit(ProductEdit{
		ProductName:   p.ProductName,
		Description:   "A much longer description that satisfies every reviewer complaint.",
		Price:         p.Price,
		InventoryType: p.InventoryType,
		Quantity:      p.Quantity,
		DeliveryType:  p.DeliveryType,
	}, nil)

	assert.Equal(t, StatusPending, p.Status)
	assert.False(t, p.IsEdited, "resubmission is not an edit of a live listing")
	assert.Empty(t, p.RejectionReason)
	assert.Nil(t, p.PreviousVersion)
}

func TestApplyEditWhilePendingMovesNoFlags(t *testing.T) {
	p := baseProduct()

	p.ApplyEdit(ProductEdit{
		ProductName:   "Renamed While Pending",
		Description:   p.Description,
		Price:         p.Price,
		InventoryType: p.InventoryType,
		Quantity:      p.Quantity,
		DeliveryType:  p.DeliveryType,
	}, nil)

	assert.Equal(t, StatusPending, p.Status)
	assert.False(t, p.IsEdited)
	assert.Nil(t, p.PreviousVersion)
	assert.Equal(t, "Renamed While Pending", p.ProductName)
}

func TestApproveFromPending(t *testing.T) {
	p := baseProduct()
	p.IsEdited = true
	p.RejectionReason = "stale"

	assert.NoError(t, p.Approve())
	assert.Equal(t, StatusApproved, p.Status)
	assert.False(t, p.IsEdited)
	assert.Empty(t, p.RejectionReason)
}

func TestApproveRetainsPreviousVersionForAudit(t *testing.T) {
	p := baseProduct()
	p.Status = StatusApproved
	p.ApplyEdit(ProductEdit{
		ProductName:   p.ProductName,
		Description:   p.Description,
		Price:         decimal.NewFromFloat(20),
		InventoryType: p.InventoryType,
		Quantity:      p.Quantity,
		DeliveryType:  p.DeliveryType,
	}, nil)

	assert.NoError(t, p.Approve())
	assert.NotNil(t, p.PreviousVersion)
}

func TestApproveRequiresPending(t *testing.T) {
	p := baseProduct()
	p.Status = StatusApproved
	assert.ErrorIs(t, p.Approve(), ErrInvalidTransition)

	p.Status = StatusRejected
	assert.ErrorIs(t, p.Approve(), ErrInvalidTransition)
}

func TestRejectRequiresReason(t *testing.T) {
	p := baseProduct()

	assert.ErrorIs(t, p.Reject(""), ErrRejectionReasonRequired)
	assert.ErrorIs(t, p.Reject("   \t "), ErrRejectionReasonRequired)
	assert.Equal(t, StatusPending, p.Status, "no state change on refused rejection")
	assert.Empty(t, p.RejectionReason)
}

func TestRejectKeepsIsEditedSet(t *testing.T) {
	p := baseProduct()
	p.IsEdited = true

	assert.NoError(t, p.Reject("violates listing policy"))
	assert.Equal(t, StatusRejected, p.Status)
	assert.Equal(t, "violates listing policy", p.RejectionReason)
	assert.True(t, p.IsEdited, "rejection after an edit keeps the edit marker")
}

func TestDecrementStockLimited(t *testing.T) {
	p := baseProduct()
	p.Quantity = 5

	assert.NoError(t, p.DecrementStock(3))
	assert.Equal(t, 2, p.Quantity)
	assert.Equal(t, 3, p.SoldCount)

	assert.ErrorIs(t, p.DecrementStock(3), ErrInsufficientStock)
	assert.Equal(t, 2, p.Quantity, "failed decrement leaves stock untouched")
	assert.Equal(t, 3, p.SoldCount)
}

func TestDecrementStockUnlimited(t *testing.T) {
	p := baseProduct()
	p.InventoryType = InventoryUnlimited
	p.Quantity = 0

	assert.NoError(t, p.DecrementStock(100))
	assert.Equal(t, 0, p.Quantity, "quantity is ignored for unlimited inventory")
	assert.Equal(t, 100, p.SoldCount)
	assert.Equal(t, UnlimitedStockDisplay, p.DisplayQuantity())
}

func TestDecrementStockRejectsNonPositive(t *testing.T) {
	p := baseProduct()
	assert.ErrorIs(t, p.DecrementStock(0), ErrInvalidQuantity)
	assert.ErrorIs(t, p.DecrementStock(-1), ErrInvalidQuantity)
}

func TestVisibleToBuyers(t *testing.T) {
	p := baseProduct()
	p.Status = StatusApproved
	p.IsActive = true
	assert.True(t, p.VisibleToBuyers())

	p.IsActive = false
	assert.False(t, p.VisibleToBuyers())

	p.IsActive = true
	p.Status = StatusPending
	assert.False(t, p.VisibleToBuyers())
}

func TestValidatePayloadCollectsEveryViolation(t *testing.T) {
	p := &Product{
		SellerID:      uuid.New(),
		SectionID:     uuid.New(),
		CategoryID:    uuid.New(),
		ProductName:   "ab",         // too short
		Description:   "short",      // too short
		Price:         decimal.Zero, // not positive
		DeliveryType:  "custom",     // missing custom time
		InventoryType: InventoryLimited,
		BulkPricing:   BulkPricing{{MinQty: 5, MaxQty: intPtr(2), Price: decimal.NewFromInt(1)}},
	}

	errs := p.ValidatePayload()
	fields := make(map[string]bool)
	for _, fe := range errs {
		fields[fe.Field] = true
	}

	assert.True(t, fields["ProductName"])
	assert.True(t, fields["Description"])
	assert.True(t, fields["price"])
	assert.True(t, fields["custom_delivery_time"])
	assert.True(t, fields["bulk_pricing[0]"])
}
