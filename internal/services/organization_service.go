package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
)

// OrganizationService encapsulates the business logic for organizations.
type OrganizationService struct {
	repo *repository.OrganizationRepository
}

// NewOrganizationService creates a new instance of OrganizationService.
func NewOrganizationService(repo *repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{repo: repo}
}

// CreateOrganization validates and stores a new organization.
func (s *OrganizationService) CreateOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	if strings.TrimSpace(org.Name) == "" {
		return nil, fmt.Errorf("organization name is required")
	}
	if err := s.repo.CreateOrganization(ctx, org); err != nil {
		return nil, err
	}
	logrus.WithField("orgID", org.ID).Info("Organization created")
	return org, nil
}

// GetOrganization retrieves one organization.
func (s *OrganizationService) GetOrganization(ctx context.Context, id int64) (*models.Organization, error) {
	return s.repo.GetOrganizationByID(ctx, id)
}

// GetAllOrganizations returns every organization.
func (s *OrganizationService) GetAllOrganizations(ctx context.Context) ([]models.Organization, error) {
	return s.repo.GetAllOrganizations(ctx)
}

// UpdateOrganization updates name and description.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	if strings.TrimSpace(org.Name) == "" {
		return nil, fmt.Errorf("organization name is required")
	}
	if err := s.repo.UpdateOrganization(ctx, org); err != nil {
		return nil, err
	}
	return s.repo.GetOrganizationByID(ctx, org.ID)
}

// DeleteOrganization removes an organization and, via the schema, its
// departments.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, id int64) error {
	return s.repo.DeleteOrganization(ctx, id)
}
