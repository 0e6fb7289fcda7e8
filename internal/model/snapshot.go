package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ProductSnapshot freezes the seller-mutable fields of a product as they
// stood immediately before an edit reverted it from approved to pending.
// It is complete enough to compute a field-by-field diff for the admin
// "view changes" tooling. Stored as JSONB.
type ProductSnapshot struct {
	ProductName          string          `json:"product_name"`
	Description          string          `json:"description"`
	Price                decimal.Decimal `json:"price"`
	BulkPricing          BulkPricing     `json:"bulk_pricing"`
	Images               StringArray     `json:"images"`
	InventoryType        InventoryType   `json:"inventory_type"`
	Quantity             int             `json:"quantity"`
	DeliveryType         string          `json:"delivery_type"`
	CustomDeliveryTime   string          `json:"custom_delivery_time"`
	ReplacementAvailable bool            `json:"replacement_available"`
	ReplacementDuration  string          `json:"replacement_duration"`
	Attributes           AttributeBag    `json:"attributes"`
}

func (s ProductSnapshot) Value() (driver.Value, error) {
	raw, err := json.Marshal(s)
	return string(raw), err
}

func (s *ProductSnapshot) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// Snapshot captures the product's current mutable fields plus its attribute
// bag as stored right now.
func (p *Product) Snapshot(attrs AttributeBag) ProductSnapshot {
	return ProductSnapshot{
		ProductName:          p.ProductName,
		Description:          p.Description,
		Price:                p.Price,
		BulkPricing:          p.BulkPricing,
		Images:               p.Images,
		InventoryType:        p.InventoryType,
		Quantity:             p.Quantity,
		DeliveryType:         p.DeliveryType,
		CustomDeliveryTime:   p.CustomDeliveryTime,
		ReplacementAvailable: p.ReplacementAvailable,
		ReplacementDuration:  p.ReplacementDuration,
		Attributes:           attrs,
	}
}

// FieldChange is one entry of an admin diff: the field name plus its value
// before and after the edit under review.
type FieldChange struct {
	Field string      `json:"field"`
	Old   interface{} `json:"old"`
	New   interface{} `json:"new"`
}

// ComputeChanges diffs two snapshots field by field and returns only the
// fields that actually differ. Prices compare numerically, bulk pricing and
// attribute bags compare structurally.
func ComputeChanges(prev, curr ProductSnapshot) []FieldChange {
	changes := []FieldChange{}

	add := func(field string, oldVal, newVal interface{}) {
		changes = append(changes, FieldChange{Field: field, Old: oldVal, New: newVal})
	}

	if prev.ProductName != curr.ProductName {
		add("product_name", prev.ProductName, curr.ProductName)
	}
	if prev.Description != curr.Description {
		add("description", prev.Description, curr.Description)
	}
	if !prev.Price.Equal(curr.Price) {
		add("price", prev.Price, curr.Price)
	}
	if !bulkPricingEqual(prev.BulkPricing, curr.BulkPricing) {
		add("bulk_pricing", prev.BulkPricing, curr.BulkPricing)
	}
	if !stringsEqual(prev.Images, curr.Images) {
		add("images", prev.Images, curr.Images)
	}
	if prev.InventoryType != curr.InventoryType {
		add("inventory_type", prev.InventoryType, curr.InventoryType)
	}
	if prev.Quantity != curr.Quantity {
		add("quantity", prev.Quantity, curr.Quantity)
	}
	if prev.DeliveryType != curr.DeliveryType {
		add("delivery_type", prev.DeliveryType, curr.DeliveryType)
	}
	if prev.CustomDeliveryTime != curr.CustomDeliveryTime {
		add("custom_delivery_time", prev.CustomDeliveryTime, curr.CustomDeliveryTime)
	}
	if prev.ReplacementAvailable != curr.ReplacementAvailable {
		add("replacement_available", prev.ReplacementAvailable, curr.ReplacementAvailable)
	}
	if prev.ReplacementDuration != curr.ReplacementDuration {
		add("replacement_duration", prev.ReplacementDuration, curr.ReplacementDuration)
	}
	if !attributesEqual(prev.Attributes, curr.Attributes) {
		add("attributes", prev.Attributes, curr.Attributes)
	}

	return changes
}

// Changes diffs the retained previous version against the product's current
// state (including its current attribute bag).
func (p *Product) Changes(currentAttrs AttributeBag) ([]FieldChange, error) {
	if p.PreviousVersion == nil {
		return nil, ErrNoPreviousVersion
	}
	return ComputeChanges(*p.PreviousVersion, p.Snapshot(currentAttrs)), nil
}

func bulkPricingEqual(a, b BulkPricing) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].MinQty != b[i].MinQty || !a[i].Price.Equal(b[i].Price) {
			return false
		}
		switch {
		case a[i].MaxQty == nil && b[i].MaxQty == nil:
		case a[i].MaxQty == nil || b[i].MaxQty == nil:
			return false
		case *a[i].MaxQty != *b[i].MaxQty:
			return false
		}
	}
	return true
}

func stringsEqual(a, b StringArray) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// attributesEqual compares bags by their JSON form. Values arrive from JSON
// decoding on both sides, so the canonical encoding is a stable comparator
// across string/bool/number variants.
func attributesEqual(a, b AttributeBag) bool {
	if len(a) != len(b) {
		return false
	}
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}
