package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
)

var ErrAlreadyMember = errors.New("user is already a member of the organization")

// organizationService manages organizations and their memberships. It also
// serves as the authorizer injected into the other services.
type organizationService struct {
	BaseService
	orgRepo portsrepo.OrganizationRepositoryFacade
}

// NewOrganizationService creates a new organization service.
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade) portssvc.OrganizationSvcFacade {
	return &organizationService{
		orgRepo: orgRepo,
	}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// AuthorizeUserAction checks if a user has required permissions for an organization.
func (s *organizationService) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.MembershipRole) error {
	membership, err := s.orgRepo.FindMembership(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrForbidden
		}
		s.LogError(ctx, err, "Failed to load membership for authorization",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return fmt.Errorf("failed to authorize user: %w", err)
	}

	if !membership.Role.Satisfies(requiredRole) {
		s.LogWarn(ctx, "User lacks required role for organization",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID),
			slog.String("role", string(membership.Role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.ErrForbidden
	}
	return nil
}

// GetOrganizationByID retrieves a specific organization by its ID.
func (s *organizationService) GetOrganizationByID(ctx context.Context, organizationID string, requestingUserID string) (*domain.Organization, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.orgRepo.FindOrganizationByID(ctx, organizationID)
}

// ListUserOrganizations retrieves the organizations a user belongs to.
func (s *organizationService) ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	orgs, err := s.orgRepo.ListOrganizationsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organizations for user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// ListOrganizationMembers retrieves the memberships of an organization.
func (s *organizationService) ListOrganizationMembers(ctx context.Context, organizationID string, requestingUserID string) ([]domain.Membership, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	members, err := s.orgRepo.ListMembersByOrganization(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organization members", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// CreateOrganization persists a new organization with the creator as admin.
func (s *organizationService) CreateOrganization(ctx context.Context, name string, creatorUserID string) (*domain.Organization, error) {
	now := time.Now().UTC()
	org := domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           name,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		s.LogError(ctx, err, "Failed to save organization", slog.String("name", name))
		return nil, fmt.Errorf("failed to save organization: %w", err)
	}

	membership := domain.Membership{
		UserID:         creatorUserID,
		OrganizationID: org.OrganizationID,
		Role:           domain.RoleAdmin,
		JoinedAt:       now,
	}
	if err := s.orgRepo.SaveMembership(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to save creator membership",
			slog.String("organization_id", org.OrganizationID))
		return nil, fmt.Errorf("failed to save creator membership: %w", err)
	}

	s.LogInfo(ctx, "Organization created",
		slog.String("organization_id", org.OrganizationID),
		slog.String("created_by", creatorUserID))
	return &org, nil
}

// UpdateOrganization updates an organization's details. Admin only.
func (s *organizationService) UpdateOrganization(ctx context.Context, organizationID string, name string, requestingUserID string) (*domain.Organization, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	org.Name = name
	org.LastUpdatedAt = time.Now().UTC()
	org.LastUpdatedBy = requestingUserID
	if err := s.orgRepo.UpdateOrganization(ctx, *org); err != nil {
		s.LogError(ctx, err, "Failed to update organization", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

// DeactivateOrganization marks an organization as inactive. Admin only.
func (s *organizationService) DeactivateOrganization(ctx context.Context, organizationID string, requestingUserID string) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return err
	}

	org.IsActive = false
	org.LastUpdatedAt = time.Now().UTC()
	org.LastUpdatedBy = requestingUserID
	if err := s.orgRepo.UpdateOrganization(ctx, *org); err != nil {
		s.LogError(ctx, err, "Failed to deactivate organization", slog.String("organization_id", organizationID))
		return fmt.Errorf("failed to deactivate organization: %w", err)
	}

	s.LogInfo(ctx, "Organization deactivated", slog.String("organization_id", organizationID))
	return nil
}

// AddMember adds a user to an organization with a specific role. Admin only.
func (s *organizationService) AddMember(ctx context.Context, requestingUserID, targetUserID, organizationID string, role domain.MembershipRole) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}

	existing, err := s.orgRepo.FindMembership(ctx, targetUserID, organizationID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check existing membership",
			slog.String("user_id", targetUserID),
			slog.String("organization_id", organizationID))
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return ErrAlreadyMember
	}

	membership := domain.Membership{
		UserID:         targetUserID,
		OrganizationID: organizationID,
		Role:           role,
		JoinedAt:       time.Now().UTC(),
	}
	if err := s.orgRepo.SaveMembership(ctx, membership); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return ErrAlreadyMember
		}
		s.LogError(ctx, err, "Failed to save membership",
			slog.String("user_id", targetUserID),
			slog.String("organization_id", organizationID))
		return fmt.Errorf("failed to save membership: %w", err)
	}

	s.LogInfo(ctx, "Member added to organization",
		slog.String("user_id", targetUserID),
		slog.String("organization_id", organizationID),
		slog.String("role", string(role)))
	return nil
}

// RemoveMember removes a user from an organization. Admin only.
func (s *organizationService) RemoveMember(ctx context.Context, requestingUserID, targetUserID, organizationID string) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.orgRepo.RemoveMembership(ctx, targetUserID, organizationID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to remove membership",
				slog.String("user_id", targetUserID),
				slog.String("organization_id", organizationID))
		}
		return err
	}

	s.LogInfo(ctx, "Member removed from organization",
		slog.String("user_id", targetUserID),
		slog.String("organization_id", organizationID))
	return nil
}
