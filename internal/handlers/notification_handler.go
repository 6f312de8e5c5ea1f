package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
	"github.com/aibek-k/erp-admin/internal/services"
	"github.com/aibek-k/erp-admin/pkg/logger"
	"github.com/aibek-k/erp-admin/pkg/middleware"
)

type NotificationHandler struct {
	Service      *services.NotificationService
	PollInterval time.Duration
}

func NewNotificationHandler(service *services.NotificationService, pollInterval time.Duration) *NotificationHandler {
	return &NotificationHandler{
		Service:      service,
		PollInterval: pollInterval,
	}
}

// GET /notifications/config
// Clients read the polling cadence from here instead of hardcoding it.
func (h *NotificationHandler) GetConfigHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"poll_interval_seconds": int(h.PollInterval.Seconds()),
	})
}

// GET /notifications
func (h *NotificationHandler) GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := strconv.ParseInt(claims.UserID, 10, 64)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	notifications, err := h.Service.GetByUser(r.Context(), userID, limit)
	if err != nil {
		logger.Log.Errorf("Failed to fetch notifications: %v", err)
		http.Error(w, "Failed to get notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

// GET /notifications/unread-count
func (h *NotificationHandler) GetUnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := strconv.ParseInt(claims.UserID, 10, 64)
	count, err := h.Service.GetUnreadCountByUser(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to count unread notifications: %v", err)
		http.Error(w, "Failed to get unread count", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"unread_count": count})
}

// POST /notifications/{id}/read
func (h *NotificationHandler) MarkAsReadHandler(w http.ResponseWriter, r *http.Request) {
	notifID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	err = h.Service.MarkAsRead(r.Context(), notifID)
	// A missing notification is a no-op for the caller, not a failure.
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		logger.Log.Errorf("Failed to mark notification as read: %v", err)
		http.Error(w, "Failed to mark as read", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Notification marked as read"})
}

// POST /notifications/read-all
func (h *NotificationHandler) MarkAllAsReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := strconv.ParseInt(claims.UserID, 10, 64)
	if err := h.Service.MarkAllAsRead(r.Context(), userID); err != nil {
		logger.Log.Errorf("Failed to mark all notifications as read: %v", err)
		http.Error(w, "Failed to mark all as read", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "All notifications marked as read"})
}

// DELETE /notifications/{id}
func (h *NotificationHandler) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	notifID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteNotification(r.Context(), notifID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Notification not found", http.StatusNotFound)
			return
		}
		logger.Log.Errorf("Failed to delete notification: %v", err)
		http.Error(w, "Failed to delete notification", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Notification deleted"})
}

// POST /notifications
func (h *NotificationHandler) SendNotificationHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		UserID  int64  `json:"user_id"`
		Title   string `json:"title"`
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	callerID, _ := strconv.ParseInt(claims.UserID, 10, 64)

	// Default to the sender's own feed when no target is given. Only
	// admins may target another user's feed.
	if req.UserID == 0 {
		req.UserID = callerID
	}
	if req.UserID != callerID && claims.Role != models.RoleAdmin {
		http.Error(w, "Forbidden: cannot send notifications to other users", http.StatusForbidden)
		return
	}

	notif, err := h.Service.SendNotification(r.Context(), req.UserID, req.Title, req.Message, req.Type)
	if err != nil {
		logger.Log.Warnf("Failed to send notification: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(notif)
}

// POST /notifications/system (admin only, enforced by the router)
func (h *NotificationHandler) SendSystemNotificationHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	recipients, err := h.Service.SendSystemNotification(r.Context(), req.Title, req.Message, req.Type)
	if err != nil {
		logger.Log.Warnf("Failed to send system notification: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int{"recipients": recipients})
}
