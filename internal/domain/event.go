package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FeatureClick is one immutable fact that a named feature was used by an
// account at a given time. Append-only; duplicates are distinct facts.
type FeatureClick struct {
	ClickID     uuid.UUID
	AccountID   uuid.UUID
	FeatureName string
	ClickedAt   time.Time
}

// ValidateFeatureName rejects empty feature names before the append.
func ValidateFeatureName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: feature_name is required", ErrInvalidInput)
	}
	return nil
}
