package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
)

// InventoryService encapsulates the business logic for inventory items.
type InventoryService struct {
	repo *repository.InventoryRepository
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(repo *repository.InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

// CreateItem validates and stores a new inventory item.
func (s *InventoryService) CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if strings.TrimSpace(item.SKU) == "" {
		return nil, fmt.Errorf("item SKU is required")
	}
	if strings.TrimSpace(item.Name) == "" {
		return nil, fmt.Errorf("item name is required")
	}
	if item.Quantity < 0 || item.MinQuantity < 0 {
		return nil, fmt.Errorf("quantities cannot be negative")
	}
	if item.Unit == "" {
		item.Unit = "pcs"
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"itemID": item.ID,
		"sku":    item.SKU,
	}).Info("Inventory item created")
	return item, nil
}

// GetItem retrieves one inventory item.
func (s *InventoryService) GetItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	return s.repo.GetItemByID(ctx, id)
}

// GetAllItems returns every inventory item.
func (s *InventoryService) GetAllItems(ctx context.Context) ([]models.InventoryItem, error) {
	return s.repo.GetAllItems(ctx)
}

// GetLowStockItems returns items below their minimum quantity.
func (s *InventoryService) GetLowStockItems(ctx context.Context) ([]models.InventoryItem, error) {
	return s.repo.GetLowStockItems(ctx)
}

// UpdateItem applies a partial update to an item.
func (s *InventoryService) UpdateItem(ctx context.Context, id int64, fields map[string]interface{}) (*models.InventoryItem, error) {
	delete(fields, "id")
	if err := s.repo.UpdateItem(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.GetItemByID(ctx, id)
}

// AdjustQuantity changes an item's stock level by delta; the stored
// quantity never goes below zero.
func (s *InventoryService) AdjustQuantity(ctx context.Context, id int64, delta int64) (*models.InventoryItem, error) {
	item, err := s.repo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"itemID":   id,
		"delta":    delta,
		"quantity": item.Quantity,
	}).Info("Inventory quantity adjusted")
	return item, nil
}

// DeleteItem permanently removes an inventory item.
func (s *InventoryService) DeleteItem(ctx context.Context, id int64) error {
	return s.repo.DeleteItem(ctx, id)
}
