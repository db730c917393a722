package models

import "time"

// User roles within an organization
const (
	UserRoleAdmin  = "admin"
	UserRoleMember = "member"
	UserRoleGuest  = "guest"
)

// Membership roles within a team
const (
	MembershipRoleOwner  = "owner"
	MembershipRoleMember = "member"
)

// Organization is the tenant root; every other entity is scoped to one.
type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"` // unique, also used for member email addresses
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Team groups users within an organization. Department drives content and
// distribution choices (engineering, product, marketing, sales, operations).
type Team struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	Department     string    `json:"department,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// User is a workspace member with a globally unique email.
type User struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"` // admin, member, guest
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TeamMembership links a user to a team. The pair (team_id, user_id) is
// unique and both sides must belong to the same organization.
type TeamMembership struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"team_id"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"` // owner, member
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
