package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSchema() AttributeSchema {
	return AttributeSchema{
		"a": {Type: FieldString, Required: true},
		"b": {Type: FieldSelect, Options: []string{"x", "y"}},
		"c": {Type: FieldBoolean},
	}
}

func TestValidateAttributes(t *testing.T) {
	testCases := []struct {
		name       string
		attrs      AttributeBag
		schema     AttributeSchema
		wantValid  bool
		wantErrors []string
	}{
		{
			name:      "empty bag reports only the missing required field",
			attrs:     AttributeBag{},
			schema:    testSchema(),
			wantValid: false,
			wantErrors: []string{
				"Attribute 'a' is required",
			},
		},
		{
			name:      "bad enum and bad boolean reported together",
			attrs:     AttributeBag{"a": "v", "b": "z", "c": "not-bool"},
			schema:    testSchema(),
			wantValid: false,
			wantErrors: []string{
				"Invalid value for 'b'. Must be one of: x, y",
				"Attribute 'c' must be a boolean",
			},
		},
		{
			name:      "fully valid bag",
			attrs:     AttributeBag{"a": "v", "b": "x", "c": true},
			schema:    testSchema(),
			wantValid: true,
		},
		{
			name:      "optional fields may be absent",
			attrs:     AttributeBag{"a": "v"},
			schema:    testSchema(),
			wantValid: true,
		},
		{
			name:      "unknown keys are permitted and ignored",
			attrs:     AttributeBag{"a": "v", "extra": 42, "another": "anything"},
			schema:    testSchema(),
			wantValid: true,
		},
		{
			name:      "non-string value fails select membership",
			attrs:     AttributeBag{"a": "v", "b": 7},
			schema:    testSchema(),
			wantValid: false,
			wantErrors: []string{
				"Invalid value for 'b'. Must be one of: x, y",
			},
		},
		{
			name:      "select without options accepts anything",
			attrs:     AttributeBag{"tier": "whatever"},
			schema:    AttributeSchema{"tier": {Type: FieldSelect}},
			wantValid: true,
		},
		{
			name:      "required select missing reports required, not enum",
			attrs:     AttributeBag{},
			schema:    AttributeSchema{"b": {Type: FieldSelect, Required: true, Options: []string{"x"}}},
			wantValid: false,
			wantErrors: []string{
				"Attribute 'b' is required",
			},
		},
		{
			name:      "nil schema is trivially valid",
			attrs:     AttributeBag{"anything": false},
			schema:    nil,
			wantValid: true,
		},
		{
			name:      "empty schema is trivially valid",
			attrs:     AttributeBag{"anything": false},
			schema:    AttributeSchema{},
			wantValid: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ValidateAttributes(tc.attrs, tc.schema)
			assert.Equal(t, tc.wantValid, result.Valid)
			assert.Equal(t, tc.wantErrors, result.Errors)
		})
	}
}

func TestAttributeSchemaValidate(t *testing.T) {
	testCases := []struct {
		name       string
		schema     AttributeSchema
		wantFields []string
	}{
		{
			name:   "well-formed schema",
			schema: testSchema(),
		},
		{
			name:   "nil schema",
			schema: nil,
		},
		{
			name: "unknown type rejected",
			schema: AttributeSchema{
				"quality": {Type: "slect", Options: []string{"PVA"}},
			},
			wantFields: []string{"attribute_schema[quality]"},
		},
		{
			name: "select without options rejected at write time",
			schema: AttributeSchema{
				"tier": {Type: FieldSelect},
			},
			wantFields: []string{"attribute_schema[tier]"},
		},
		{
			name: "every malformed definition reported",
			schema: AttributeSchema{
				"a": {Type: "number"},
				"b": {Type: FieldSelect},
				"c": {Type: FieldBoolean},
			},
			wantFields: []string{"attribute_schema[a]", "attribute_schema[b]"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.schema.Validate()
			assert.Len(t, errs, len(tc.wantFields))
			for i, field := range tc.wantFields {
				assert.Equal(t, field, errs[i].Field)
			}
		})
	}
}

func TestValidateAttributesReportsAllViolations(t *testing.T) {
	// Not fail-fast: three broken fields, three errors
	schema := AttributeSchema{
		"a": {Type: FieldString, Required: true},
		"b": {Type: FieldSelect, Options: []string{"x", "y"}},
		"c": {Type: FieldBoolean},
	}
	result := ValidateAttributes(AttributeBag{"b": "z", "c": 1}, schema)

	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 3)
}
