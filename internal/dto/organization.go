package dto

import (
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// CreateOrganizationRequest defines the data needed to create an organization.
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateOrganizationRequest defines the data allowed for updating an organization.
type UpdateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddMemberRequest defines the data needed to add a user to an organization.
type AddMemberRequest struct {
	UserID string                `json:"userID" binding:"required"`
	Role   domain.MembershipRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// OrganizationResponse defines the data returned for an organization.
type OrganizationResponse struct {
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	IsActive       bool   `json:"isActive"`
}

// ToOrganizationResponse converts a domain.Organization to OrganizationResponse DTO
func ToOrganizationResponse(org *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: org.OrganizationID,
		Name:           org.Name,
		IsActive:       org.IsActive,
	}
}

// ToListOrganizationResponse converts a slice of domain.Organization to response DTOs
func ToListOrganizationResponse(orgs []domain.Organization) []OrganizationResponse {
	res := make([]OrganizationResponse, len(orgs))
	for i, org := range orgs {
		res[i] = ToOrganizationResponse(&org)
	}
	return res
}

// MemberResponse defines the data returned for an organization member.
type MemberResponse struct {
	UserID string                `json:"userID"`
	Role   domain.MembershipRole `json:"role"`
}

// ToListMemberResponse converts memberships to response DTOs
func ToListMemberResponse(members []domain.Membership) []MemberResponse {
	res := make([]MemberResponse, len(members))
	for i, m := range members {
		res[i] = MemberResponse{UserID: m.UserID, Role: m.Role}
	}
	return res
}
