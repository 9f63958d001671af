package user

import (
	"strings"

	"github.com/frahmantamala/peer-recognition/internal"
)

// UpdateUserCommand enumerates the profile fields a user may change. Only
// non-nil fields are applied; there is no generic field-name update path.
type UpdateUserCommand struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`

	// PasswordHash is derived by the service before the command reaches the
	// repository; it is never read from the request.
	PasswordHash *string `json:"-"`
}

func (cmd UpdateUserCommand) Validate() error {
	if cmd.FullName == nil && cmd.Email == nil && cmd.Password == nil {
		return internal.NewValidationError("no fields to update", internal.ErrCodeValidationFailed)
	}
	if cmd.FullName != nil && strings.TrimSpace(*cmd.FullName) == "" {
		return internal.NewValidationError("full_name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if cmd.Email != nil && !strings.Contains(*cmd.Email, "@") {
		return internal.NewValidationError("a valid email is required", internal.ErrCodeValidationFailed)
	}
	if cmd.Password != nil && len(*cmd.Password) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}
