package model

import (
	"strings"

	"github.com/google/uuid"
)

// NewPublicID builds a human-readable public identifier like "SEC-3F9A21BC"
// or "PROD-0D4E77A1". Uniqueness is backed by the unique index on the column;
// collisions on 8 hex chars are practically absent at marketplace scale.
func NewPublicID(prefix string) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "-" + strings.ToUpper(raw[:8])
}
