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

// DepartmentRepository handles database operations for departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository creates a new instance of DepartmentRepository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// CreateDepartment inserts a new department and assigns its ID.
func (r *DepartmentRepository) CreateDepartment(ctx context.Context, dep *models.Department) error {
	dep.CreatedAt = time.Now().UTC()
	dep.UpdatedAt = dep.CreatedAt

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO departments (organization_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		dep.OrganizationID, dep.Name, dep.CreatedAt, dep.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create department: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted department id: %v", err)
	}
	dep.ID = id
	return nil
}

// GetDepartmentByID retrieves one department.
func (r *DepartmentRepository) GetDepartmentByID(ctx context.Context, id int64) (*models.Department, error) {
	var dep models.Department
	err := r.db.GetContext(ctx, &dep, "SELECT * FROM departments WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch department: %v", err)
	}
	return &dep, nil
}

// GetDepartmentsByOrganization returns all departments of one organization.
func (r *DepartmentRepository) GetDepartmentsByOrganization(ctx context.Context, orgID int64) ([]models.Department, error) {
	var deps []models.Department
	err := r.db.SelectContext(ctx, &deps,
		"SELECT * FROM departments WHERE organization_id = ? ORDER BY name", orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch departments: %v", err)
	}
	return deps, nil
}

// UpdateDepartment renames a department.
func (r *DepartmentRepository) UpdateDepartment(ctx context.Context, dep *models.Department) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE departments SET name = ?, updated_at = ? WHERE id = ?",
		dep.Name, time.Now().UTC(), dep.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update department: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDepartment removes a department.
func (r *DepartmentRepository) DeleteDepartment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM departments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
