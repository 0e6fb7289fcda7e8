package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func snapshotFixture() ProductSnapshot {
	return ProductSnapshot{
		ProductName:   "Aged Gmail Account",
		Description:   "Aged account with recovery email, created 2019 or earlier.",
		Price:         decimal.NewFromFloat(10.00),
		BulkPricing:   BulkPricing{{MinQty: 10, MaxQty: nil, Price: decimal.NewFromFloat(8.0)}},
		Images:        StringArray{"/img/one.png"},
		InventoryType: InventoryLimited,
		Quantity:      5,
		DeliveryType:  "instant",
		Attributes:    AttributeBag{"quality": "PVA"},
	}
}

func TestComputeChangesOnlyDiffers(t *testing.T) {
	prev := snapshotFixture()
	curr := snapshotFixture()
	curr.Price = decimal.NewFromFloat(12.50)
	curr.Quantity = 3

	changes := ComputeChanges(prev, curr)

	assert.Len(t, changes, 2)
	byField := map[string]FieldChange{}
	for _, ch := range changes {
		byField[ch.Field] = ch
	}
	assert.Contains(t, byField, "price")
	assert.Contains(t, byField, "quantity")
	assert.Equal(t, 5, byField["quantity"].Old)
	assert.Equal(t, 3, byField["quantity"].New)
}

func TestComputeChangesIdenticalSnapshots(t *testing.T) {
	assert.Empty(t, ComputeChanges(snapshotFixture(), snapshotFixture()))
}

func TestComputeChangesNumericPriceEquality(t *testing.T) {
	prev := snapshotFixture()
	curr := snapshotFixture()
	// Same value, different decimal representation
	prev.Price = decimal.New(100, -1) // 10.0
	curr.Price = decimal.New(10, 0)   // 10

	assert.Empty(t, ComputeChanges(prev, curr), "prices compare numerically, not by representation")
}

func TestComputeChangesBulkPricing(t *testing.T) {
	prev := snapshotFixture()
	curr := snapshotFixture()
	curr.BulkPricing = BulkPricing{{MinQty: 10, MaxQty: intPtr(50), Price: decimal.NewFromFloat(8.0)}}

	changes := ComputeChanges(prev, curr)
	assert.Len(t, changes, 1)
	assert.Equal(t, "bulk_pricing", changes[0].Field)
}

func TestComputeChangesAttributes(t *testing.T) {
	prev := snapshotFixture()
	curr := snapshotFixture()
	curr.Attributes = AttributeBag{"quality": "Non-PVA"}

	changes := ComputeChanges(prev, curr)
	assert.Len(t, changes, 1)
	assert.Equal(t, "attributes", changes[0].Field)
}

func TestProductChanges(t *testing.T) {
	p := baseProduct()
	p.Status = StatusApproved
	attrs := AttributeBag{"quality": "PVA"}

	edit := ProductEdit{
		ProductName:   "Aged Gmail Account (2018)",
		Description:   p.Description,
		Price:         decimal.NewFromFloat(14.00),
		InventoryType: p.InventoryType,
		Quantity:      p.Quantity,
		DeliveryType:  p.DeliveryType,
	}
	p.ApplyEdit(edit, attrs)

	changes, err := p.Changes(attrs)
	assert.NoError(t, err)
	assert.Len(t, changes, 2)
}

func TestProductChangesWithoutPreviousVersion(t *testing.T) {
	p := baseProduct()
	_, err := p.Changes(nil)
	assert.ErrorIs(t, err, ErrNoPreviousVersion)
}

func TestSnapshotSurvivesJSONRoundTrip(t *testing.T) {
	// PreviousVersion lives in a JSONB column; the diff must still work
	// after marshal/unmarshal
	orig := snapshotFixture()
	raw, err := json.Marshal(orig)
	assert.NoError(t, err)

	var restored ProductSnapshot
	assert.NoError(t, json.Unmarshal(raw, &restored))
	assert.Empty(t, ComputeChanges(orig, restored))
}
