package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aibek-k/erp-admin/internal/models"
)

// OrganizationRepository handles database operations for organizations
// and their departments.
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository creates a new instance of OrganizationRepository.
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// CreateOrganization inserts a new organization and assigns its ID.
func (r *OrganizationRepository) CreateOrganization(ctx context.Context, org *models.Organization) error {
	org.CreatedAt = time.Now().UTC()
	org.UpdatedAt = org.CreatedAt

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO organizations (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)",
		org.Name, org.Description, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create organization: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted organization id: %v", err)
	}
	org.ID = id
	return nil
}

// GetOrganizationByID retrieves one organization.
func (r *OrganizationRepository) GetOrganizationByID(ctx context.Context, id int64) (*models.Organization, error) {
	var org models.Organization
	err := r.db.GetContext(ctx, &org, "SELECT * FROM organizations WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch organization: %v", err)
	}
	return &org, nil
}

// GetAllOrganizations returns every organization ordered by name.
func (r *OrganizationRepository) GetAllOrganizations(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.db.SelectContext(ctx, &orgs, "SELECT * FROM organizations ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %v", err)
	}
	return orgs, nil
}

// UpdateOrganization updates name and description.
func (r *OrganizationRepository) UpdateOrganization(ctx context.Context, org *models.Organization) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE organizations SET name = ?, description = ?, updated_at = ? WHERE id = ?",
		org.Name, org.Description, time.Now().UTC(), org.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update organization: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOrganization removes an organization; departments cascade.
func (r *OrganizationRepository) DeleteOrganization(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM organizations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
