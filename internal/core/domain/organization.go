package domain

import "time"

// Organization is the tenant boundary. Every ledger entity belongs to
// exactly one organization; cross-organization references are rejected at
// write time.
type Organization struct {
	OrganizationID string `json:"organizationID"` // Primary Key (UUID)
	Name           string `json:"name"`           // Unique
	IsActive       bool   `json:"isActive"`
	AuditFields
}

// MembershipRole defines the possible roles a user can have within an organization.
type MembershipRole string

const (
	RoleAdmin    MembershipRole = "ADMIN"
	RoleMember   MembershipRole = "MEMBER"
	RoleReadOnly MembershipRole = "READONLY"
)

// roleRank orders roles by privilege for authorization checks.
var roleRank = map[MembershipRole]int{
	RoleReadOnly: 1,
	RoleMember:   2,
	RoleAdmin:    3,
}

// Satisfies reports whether the role grants at least the privileges of required.
func (r MembershipRole) Satisfies(required MembershipRole) bool {
	return roleRank[r] >= roleRank[required]
}

// Membership represents the membership of a User in an Organization.
type Membership struct {
	UserID         string         `json:"userID"`
	OrganizationID string         `json:"organizationID"`
	Role           MembershipRole `json:"role"`
	JoinedAt       time.Time      `json:"joinedAt"`
}
