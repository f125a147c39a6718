package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	portsrepo "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/repositories"
	"github.com/ledgerpro/ledgerpro_backend/internal/models"
	"github.com/ledgerpro/ledgerpro_backend/internal/utils/mapping"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organization and membership data.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

const organizationColumns = `organization_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	var m models.Organization
	err := row.Scan(
		&m.OrganizationID,
		&m.Name,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveOrganization persists a new organization.
func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	modelOrg := mapping.ToModelOrganization(org)
	query := `
		INSERT INTO organizations (organization_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelOrg.OrganizationID,
		modelOrg.Name,
		modelOrg.IsActive,
		modelOrg.CreatedAt,
		modelOrg.CreatedBy,
		modelOrg.LastUpdatedAt,
		modelOrg.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: organization %s already exists", apperrors.ErrDuplicate, org.OrganizationID)
		}
		return fmt.Errorf("failed to insert organization: %w", err)
	}
	return nil
}

// FindOrganizationByID retrieves an organization by its ID.
func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM organizations WHERE organization_id = $1;`, organizationColumns)
	modelOrg, err := scanOrganization(r.Pool.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find organization %s: %w", organizationID, err)
	}
	domainOrg := mapping.ToDomainOrganization(*modelOrg)
	return &domainOrg, nil
}

// ListOrganizationsByUser retrieves the organizations a user belongs to.
func (r *PgxOrganizationRepository) ListOrganizationsByUser(ctx context.Context, userID string) ([]domain.Organization, error) {
	query := `
		SELECT o.organization_id, o.name, o.is_active, o.created_at, o.created_by, o.last_updated_at, o.last_updated_by
		FROM organizations o
		JOIN organization_memberships m ON m.organization_id = o.organization_id
		WHERE m.user_id = $1
		ORDER BY o.name ASC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations for user %s: %w", userID, err)
	}
	defer rows.Close()

	var modelOrgs []models.Organization
	for rows.Next() {
		m, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization row: %w", err)
		}
		modelOrgs = append(modelOrgs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organization rows: %w", err)
	}
	return mapping.ToDomainOrganizationSlice(modelOrgs), nil
}

// UpdateOrganization updates an organization's name and active flag.
func (r *PgxOrganizationRepository) UpdateOrganization(ctx context.Context, org domain.Organization) error {
	modelOrg := mapping.ToModelOrganization(org)
	query := `
		UPDATE organizations
		SET name = $2,
			is_active = $3,
			last_updated_at = $4,
			last_updated_by = $5
		WHERE organization_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelOrg.OrganizationID,
		modelOrg.Name,
		modelOrg.IsActive,
		modelOrg.LastUpdatedAt,
		modelOrg.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update organization %s: %w", org.OrganizationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindMembership retrieves a user's membership in an organization.
func (r *PgxOrganizationRepository) FindMembership(ctx context.Context, userID string, organizationID string) (*domain.Membership, error) {
	query := `
		SELECT user_id, organization_id, role, joined_at
		FROM organization_memberships
		WHERE user_id = $1 AND organization_id = $2;
	`
	var m models.Membership
	err := r.Pool.QueryRow(ctx, query, userID, organizationID).Scan(
		&m.UserID,
		&m.OrganizationID,
		&m.Role,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	domainMembership := mapping.ToDomainMembership(m)
	return &domainMembership, nil
}

// SaveMembership persists a new membership.
func (r *PgxOrganizationRepository) SaveMembership(ctx context.Context, membership domain.Membership) error {
	modelMembership := mapping.ToModelMembership(membership)
	query := `
		INSERT INTO organization_memberships (user_id, organization_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelMembership.UserID,
		modelMembership.OrganizationID,
		modelMembership.Role,
		modelMembership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: user %s is already a member", apperrors.ErrDuplicate, membership.UserID)
		}
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	return nil
}

// ListMembersByOrganization retrieves all memberships of an organization.
func (r *PgxOrganizationRepository) ListMembersByOrganization(ctx context.Context, organizationID string) ([]domain.Membership, error) {
	query := `
		SELECT user_id, organization_id, role, joined_at
		FROM organization_memberships
		WHERE organization_id = $1
		ORDER BY joined_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	var modelMemberships []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.UserID, &m.OrganizationID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		modelMemberships = append(modelMemberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}
	return mapping.ToDomainMembershipSlice(modelMemberships), nil
}

// RemoveMembership removes a user from an organization.
func (r *PgxOrganizationRepository) RemoveMembership(ctx context.Context, userID string, organizationID string) error {
	query := `DELETE FROM organization_memberships WHERE user_id = $1 AND organization_id = $2;`
	cmdTag, err := r.Pool.Exec(ctx, query, userID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
