package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go-marketplace-api/pkg/validator"
)

// FieldType is the kind of a section-defined attribute field.
type FieldType string

const (
	FieldSelect  FieldType = "select"
	FieldBoolean FieldType = "boolean"
	FieldString  FieldType = "string"
)

// FieldDef describes one typed field of a section's attribute schema,
// e.g. {type: "select", label: "Quality", required: true, options: [...]}.
// Options is only meaningful for select fields.
type FieldDef struct {
	Type     FieldType `json:"type" validate:"required,oneof=select boolean string"`
	Label    string    `json:"label,omitempty"`
	Required bool      `json:"required,omitempty"`
	Options  []string  `json:"options,omitempty"`
}

// AttributeSchema maps attribute key -> field definition. Stored as JSONB.
type AttributeSchema map[string]FieldDef

func (s AttributeSchema) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *AttributeSchema) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// Validate checks the shape of every field definition before the schema is
// stored: the type must be a known variant and a select field must declare
// its options. A typo'd type that slipped into storage would make
// ValidateAttributes treat the field as unconstrained, so this runs on
// section create and on every schema edit.
func (s AttributeSchema) Validate() validator.ValidationErrors {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs validator.ValidationErrors
	for _, key := range keys {
		def := s[key]
		field := fmt.Sprintf("attribute_schema[%s]", key)
		switch def.Type {
		case FieldSelect:
			if len(def.Options) == 0 {
				errs = append(errs, validator.FieldError{Field: field, Message: "select field must declare at least one option"})
			}
		case FieldBoolean, FieldString:
		default:
			errs = append(errs, validator.FieldError{Field: field, Message: "type must be one of: select, boolean, string"})
		}
	}
	return errs
}

// AttributeBag is a product's free-form attribute mapping. Values are
// strings, booleans, or numbers; the shape is governed entirely by the
// owning section's schema. Stored as JSONB.
type AttributeBag map[string]interface{}

func (b AttributeBag) Value() (driver.Value, error) {
	if b == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(b)
	return string(raw), err
}

func (b *AttributeBag) Scan(value interface{}) error {
	return scanJSON(value, b)
}

func scanJSON(value, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported type for JSONB scan")
	}
}

// AttributeValidation is the outcome of checking an attribute bag against a
// section schema. Every rule is evaluated and every violation reported; the
// admin UI needs the full list, not just the first failure.
type AttributeValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateAttributes checks attrs against schema. Rules per schema key:
// required presence, select membership, boolean runtime type. Keys present
// in attrs but absent from the schema are permitted and ignored (the schema
// is not closed). A nil or empty schema accepts any bag.
func ValidateAttributes(attrs AttributeBag, schema AttributeSchema) AttributeValidation {
	result := AttributeValidation{Valid: true}
	if len(schema) == 0 {
		return result
	}

	// Stable key order keeps diagnostics deterministic
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		config := schema[key]
		value, present := attrs[key]

		if config.Required && !present {
			result.Errors = append(result.Errors, fmt.Sprintf("Attribute '%s' is required", key))
			continue
		}
		if !present {
			continue
		}

		switch config.Type {
		case FieldSelect:
			if len(config.Options) == 0 {
				break
			}
			s, ok := value.(string)
			if !ok || !containsString(config.Options, s) {
				result.Errors = append(result.Errors, fmt.Sprintf(
					"Invalid value for '%s'. Must be one of: %s", key, strings.Join(config.Options, ", ")))
			}
		case FieldBoolean:
			if _, ok := value.(bool); !ok {
				result.Errors = append(result.Errors, fmt.Sprintf("Attribute '%s' must be a boolean", key))
			}
		case FieldString:
			// Free text, nothing beyond the required check
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func containsString(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
