package domain

import (
	"fmt"
	"strings"
	"time"
)

// Profile is the account-facing view of a user. Email is read-only after
// sign-up; only the display name can be edited.
type Profile struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidateDisplayName checks an edited display name. Surrounding whitespace
// does not count toward the name.
func ValidateDisplayName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: display name is required", ErrValidation)
	}
	return nil
}
