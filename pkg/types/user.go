package types

import "time"

// Role represents the different user roles in the system
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleReceptionist Role = "receptionist"
	RoleWardBoy      Role = "ward_boy"
	RoleBillingStaff Role = "billing_staff"
)

// KnownRoles returns every role the portal is configured for
func KnownRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleDoctor,
		RoleNurse,
		RoleReceptionist,
		RoleWardBoy,
		RoleBillingStaff,
	}
}

// IsKnown reports whether the role is one of the configured roles
func (r Role) IsKnown() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RoleWardBoy, RoleBillingStaff:
		return true
	}
	return false
}

// Session represents an authenticated user for the lifetime of the portal session
type Session struct {
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	FullName      string    `json:"full_name"`
	Role          Role      `json:"role"`
	LinkedStaffID string    `json:"linked_staff_id,omitempty"`
	Token         string    `json:"-"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Expired reports whether the session token has passed its expiry
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(time.Now())
}

// Credentials represents user login credentials
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthToken represents the authentication response from the API server
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// StaffMember represents a clinical or operational staff record
type StaffMember struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	FullName   string `json:"full_name"`
	Role       Role   `json:"role"`
	Specialty  string `json:"specialty,omitempty"`
	Department string `json:"department,omitempty"`
	IsActive   bool   `json:"is_active"`
}

// StaffFilters represents filters for staff queries
type StaffFilters struct {
	Role     Role   `json:"role,omitempty"`
	Search   string `json:"search,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}
