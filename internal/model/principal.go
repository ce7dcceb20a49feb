package model

import "github.com/google/uuid"

type Role string

const (
	RoleClient     Role = "client"
	RoleAdmin      Role = "admin"
	RoleCrew       Role = "crew"
	RoleSales      Role = "sales"
	RoleManagement Role = "management"
)

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	UserID uuid.UUID
	Role   Role
	Name   string
}

func (p Principal) IsClient() bool     { return p.Role == RoleClient }
func (p Principal) IsAdmin() bool      { return p.Role == RoleAdmin }
func (p Principal) IsCrew() bool       { return p.Role == RoleCrew }
func (p Principal) IsSales() bool      { return p.Role == RoleSales }
func (p Principal) IsManagement() bool { return p.Role == RoleManagement }

// IsStaff reports whether the principal can see jobs they do not own.
func (p Principal) IsStaff() bool {
	return p.IsAdmin() || p.IsCrew() || p.IsSales() || p.IsManagement()
}
