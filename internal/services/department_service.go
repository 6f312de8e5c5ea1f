package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
)

// DepartmentService encapsulates the business logic for departments.
type DepartmentService struct {
	repo    *repository.DepartmentRepository
	orgRepo *repository.OrganizationRepository
}

// NewDepartmentService creates a new instance of DepartmentService.
func NewDepartmentService(repo *repository.DepartmentRepository, orgRepo *repository.OrganizationRepository) *DepartmentService {
	return &DepartmentService{
		repo:    repo,
		orgRepo: orgRepo,
	}
}

// CreateDepartment validates the parent organization and stores the
// new department.
func (s *DepartmentService) CreateDepartment(ctx context.Context, dep *models.Department) (*models.Department, error) {
	if strings.TrimSpace(dep.Name) == "" {
		return nil, fmt.Errorf("department name is required")
	}
	if _, err := s.orgRepo.GetOrganizationByID(ctx, dep.OrganizationID); err != nil {
		return nil, fmt.Errorf("organization %d not found", dep.OrganizationID)
	}
	if err := s.repo.CreateDepartment(ctx, dep); err != nil {
		return nil, err
	}
	return dep, nil
}

// GetDepartment retrieves one department.
func (s *DepartmentService) GetDepartment(ctx context.Context, id int64) (*models.Department, error) {
	return s.repo.GetDepartmentByID(ctx, id)
}

// GetDepartmentsByOrganization lists an organization's departments.
func (s *DepartmentService) GetDepartmentsByOrganization(ctx context.Context, orgID int64) ([]models.Department, error) {
	return s.repo.GetDepartmentsByOrganization(ctx, orgID)
}

// UpdateDepartment renames a department.
func (s *DepartmentService) UpdateDepartment(ctx context.Context, dep *models.Department) (*models.Department, error) {
	if strings.TrimSpace(dep.Name) == "" {
		return nil, fmt.Errorf("department name is required")
	}
	if err := s.repo.UpdateDepartment(ctx, dep); err != nil {
		return nil, err
	}
	return s.repo.GetDepartmentByID(ctx, dep.ID)
}

// DeleteDepartment removes a department.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id int64) error {
	return s.repo.DeleteDepartment(ctx, id)
}
