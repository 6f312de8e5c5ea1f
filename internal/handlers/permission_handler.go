package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
	"github.com/aibek-k/erp-admin/internal/services"
	"github.com/aibek-k/erp-admin/pkg/logger"
)

// PermissionHandler exposes the permissions editor surface.
type PermissionHandler struct {
	Service     *services.PermissionService
	UserService *services.UserService
}

func NewPermissionHandler(service *services.PermissionService, userService *services.UserService) *PermissionHandler {
	return &PermissionHandler{
		Service:     service,
		UserService: userService,
	}
}

// GET /permissions/{userID}
func (h *PermissionHandler) GetPermissionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get user", http.StatusInternalServerError)
		return
	}

	set, err := h.Service.GetEffectivePermissions(r.Context(), userID, user.Role)
	if err != nil {
		logger.Log.Errorf("Failed to resolve permissions: %v", err)
		http.Error(w, "Failed to get permissions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(set)
}

// PUT /permissions/{userID}
func (h *PermissionHandler) SavePermissionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get user", http.StatusInternalServerError)
		return
	}

	var perms []models.ModulePermission
	if err := json.NewDecoder(r.Body).Decode(&perms); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.SavePermissions(r.Context(), userID, user.Role, perms); err != nil {
		logger.Log.Warnf("Failed to save permissions: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	set, err := h.Service.GetEffectivePermissions(r.Context(), userID, user.Role)
	if err != nil {
		http.Error(w, "Failed to get permissions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(set)
}
