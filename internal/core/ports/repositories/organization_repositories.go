package repositories

import (
	"context"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// OrganizationReader defines read operations for organization data
type OrganizationReader interface {
	// FindOrganizationByID retrieves a specific organization by its unique identifier.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// ListOrganizationsByUser retrieves the organizations a user is a member of.
	ListOrganizationsByUser(ctx context.Context, userID string) ([]domain.Organization, error)
}

// OrganizationWriter defines write operations for organization data
type OrganizationWriter interface {
	// SaveOrganization persists a new organization.
	SaveOrganization(ctx context.Context, org domain.Organization) error

	// UpdateOrganization updates an existing organization's details.
	UpdateOrganization(ctx context.Context, org domain.Organization) error
}

// MembershipRepository defines operations for organization memberships
type MembershipRepository interface {
	// FindMembership retrieves the membership of a user in an organization, if any.
	FindMembership(ctx context.Context, userID string, organizationID string) (*domain.Membership, error)

	// SaveMembership persists a new membership.
	SaveMembership(ctx context.Context, membership domain.Membership) error

	// ListMembersByOrganization retrieves all memberships of an organization.
	ListMembersByOrganization(ctx context.Context, organizationID string) ([]domain.Membership, error)

	// RemoveMembership removes a user from an organization.
	RemoveMembership(ctx context.Context, userID string, organizationID string) error
}

// OrganizationRepositoryFacade combines all organization-related repository interfaces
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
	MembershipRepository
}
