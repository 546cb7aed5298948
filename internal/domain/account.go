package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account is the registered identity that owns feature-click events.
// Demographics live on the account so aggregation queries can join against them.
type Account struct {
	AccountID    uuid.UUID
	Username     string
	PasswordHash string
	Age          int
	Gender       string
	CreatedAt    time.Time
}

// Genders is the closed set of accepted gender labels.
var Genders = []string{"Male", "Female", "Other"}

// ValidateGender rejects labels outside the closed set.
func ValidateGender(gender string) error {
	for _, g := range Genders {
		if gender == g {
			return nil
		}
	}
	return fmt.Errorf("%w: gender must be one of %s", ErrInvalidInput, strings.Join(Genders, ", "))
}

// ValidateAge requires a positive integer age.
func ValidateAge(age int) error {
	if age <= 0 {
		return fmt.Errorf("%w: age must be a positive integer", ErrInvalidInput)
	}
	return nil
}

// ValidateUsername requires a non-empty handle.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	return nil
}

// ValidatePasswordPresent requires a non-empty password. Strength policy is
// intentionally minimal; the stored form is always a salted bcrypt hash.
func ValidatePasswordPresent(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	return nil
}
