package auth

import (
	"github.com/google/uuid"

	"pulseboard/internal/model"
)

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  string
	Demo  bool
}

// IsAdmin reports whether the caller carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}
