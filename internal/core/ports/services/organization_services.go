package services

import (
	"context"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// OrganizationReaderSvc defines read operations for organization data
type OrganizationReaderSvc interface {
	// GetOrganizationByID retrieves a specific organization by its ID.
	GetOrganizationByID(ctx context.Context, organizationID string, requestingUserID string) (*domain.Organization, error)

	// ListUserOrganizations retrieves the organizations a user belongs to.
	ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error)

	// ListOrganizationMembers retrieves the memberships of an organization.
	ListOrganizationMembers(ctx context.Context, organizationID string, requestingUserID string) ([]domain.Membership, error)
}

// OrganizationWriterSvc defines write operations for organization data
type OrganizationWriterSvc interface {
	// CreateOrganization persists a new organization with the creator as admin.
	CreateOrganization(ctx context.Context, name string, creatorUserID string) (*domain.Organization, error)

	// UpdateOrganization updates an organization's details.
	UpdateOrganization(ctx context.Context, organizationID string, name string, requestingUserID string) (*domain.Organization, error)

	// DeactivateOrganization marks an organization as inactive.
	DeactivateOrganization(ctx context.Context, organizationID string, requestingUserID string) error
}

// OrganizationMembershipSvc defines operations for managing organization membership
type OrganizationMembershipSvc interface {
	// AddMember adds a user to an organization with a specific role.
	AddMember(ctx context.Context, requestingUserID, targetUserID, organizationID string, role domain.MembershipRole) error

	// RemoveMember removes a user from an organization. Admin only.
	RemoveMember(ctx context.Context, requestingUserID, targetUserID, organizationID string) error
}

// OrganizationAuthorizerSvc defines operations for organization authorization
type OrganizationAuthorizerSvc interface {
	// AuthorizeUserAction checks if a user has required permissions for an organization.
	AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.MembershipRole) error
}

// OrganizationSvcFacade combines all organization-related service interfaces
type OrganizationSvcFacade interface {
	OrganizationReaderSvc
	OrganizationWriterSvc
	OrganizationMembershipSvc
	OrganizationAuthorizerSvc
}
