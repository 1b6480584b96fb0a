// Package models holds the records owned by the identity backend and the
// session-shaped views handed to clients.
package models

import (
	"fmt"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
)

type Role string

const (
	RolePatient    Role = "patient"
	RolePharmacist Role = "pharmacist"
	RoleAdmin      Role = "admin"
)

// ParseRole validates s against the known roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RolePatient, RolePharmacist, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", common.ErrInvalidField, s)
	}
}

// AccountStatus is the part of a record that both registration and profile
// creation default in the same way.
type AccountStatus struct {
	Role     Role `json:"role"`
	IsActive bool `json:"isActive"`
}

// DefaultAccountStatus returns the status assigned to every new credential
// and to every new profile that does not override it.
func DefaultAccountStatus() AccountStatus {
	return AccountStatus{Role: RolePatient, IsActive: true}
}
