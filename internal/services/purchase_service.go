package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
)

// PurchaseService encapsulates the business logic for purchase orders.
// Status changes that matter to the requester are echoed into their
// notification feed.
type PurchaseService struct {
	repo         *repository.PurchaseRepository
	notification *NotificationService
}

// NewPurchaseService creates a new instance of PurchaseService.
func NewPurchaseService(repo *repository.PurchaseRepository, notification *NotificationService) *PurchaseService {
	return &PurchaseService{
		repo:         repo,
		notification: notification,
	}
}

// CreateOrder validates and stores a new purchase order in DRAFT.
func (s *PurchaseService) CreateOrder(ctx context.Context, order *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	if strings.TrimSpace(order.OrderNumber) == "" {
		return nil, fmt.Errorf("order number is required")
	}
	if strings.TrimSpace(order.Supplier) == "" {
		return nil, fmt.Errorf("supplier is required")
	}
	if order.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	order.Status = models.OrderDraft

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
	}).Info("Purchase order created")
	return order, nil
}

// GetOrder retrieves one purchase order.
func (s *PurchaseService) GetOrder(ctx context.Context, id int64) (*models.PurchaseOrder, error) {
	return s.repo.GetOrderByID(ctx, id)
}

// GetAllOrders returns all purchase orders, newest first.
func (s *PurchaseService) GetAllOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	return s.repo.GetAllOrders(ctx)
}

// GetOrdersByStatus returns orders in the given status.
func (s *PurchaseService) GetOrdersByStatus(ctx context.Context, status string) ([]models.PurchaseOrder, error) {
	return s.repo.GetOrdersByStatus(ctx, status)
}

// TransitionOrder moves an order through its lifecycle. Invalid moves
// are rejected before touching the store. Approval and receipt notify
// the requesting user.
func (s *PurchaseService) TransitionOrder(ctx context.Context, id int64, newStatus string) (*models.PurchaseOrder, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(order.Status, newStatus) {
		return nil, fmt.Errorf("cannot move order from %s to %s", order.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}
	order.Status = newStatus

	logrus.WithFields(logrus.Fields{
		"orderID": id,
		"status":  newStatus,
	}).Info("Purchase order transitioned")

	switch newStatus {
	case models.OrderApproved:
		s.notifyRequester(ctx, order, models.NotificationSuccess,
			fmt.Sprintf("Order %s approved", order.OrderNumber),
			fmt.Sprintf("Your purchase order %s from %s has been approved.", order.OrderNumber, order.Supplier))
	case models.OrderReceived:
		s.notifyRequester(ctx, order, models.NotificationInfo,
			fmt.Sprintf("Order %s received", order.OrderNumber),
			fmt.Sprintf("Purchase order %s has been received and stocked.", order.OrderNumber))
	case models.OrderCancelled:
		s.notifyRequester(ctx, order, models.NotificationWarning,
			fmt.Sprintf("Order %s cancelled", order.OrderNumber),
			fmt.Sprintf("Purchase order %s has been cancelled.", order.OrderNumber))
	}

	return order, nil
}

// DeleteOrder permanently removes a purchase order.
func (s *PurchaseService) DeleteOrder(ctx context.Context, id int64) error {
	return s.repo.DeleteOrder(ctx, id)
}

// notifyRequester is best effort; a failed notification never fails
// the transition itself.
func (s *PurchaseService) notifyRequester(ctx context.Context, order *models.PurchaseOrder, notifType, title, message string) {
	if s.notification == nil {
		return
	}
	if _, err := s.notification.SendNotification(ctx, order.RequestedBy, title, message, notifType); err != nil {
		logrus.WithError(err).Warnf("Failed to notify requester of order %d", order.ID)
	}
}
