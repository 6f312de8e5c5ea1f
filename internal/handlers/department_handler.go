package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
	"github.com/aibek-k/erp-admin/internal/services"
)

// DepartmentHandler handles HTTP requests for departments.
type DepartmentHandler struct {
	Service *services.DepartmentService
}

func NewDepartmentHandler(service *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{Service: service}
}

// POST /departments
func (h *DepartmentHandler) CreateDepartmentHandler(w http.ResponseWriter, r *http.Request) {
	var dep models.Department
	if err := json.NewDecoder(r.Body).Decode(&dep); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateDepartment(r.Context(), &dep)
	if err != nil {
		log.WithError(err).Warn("Failed to create department")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GET /departments?organization_id=N
func (h *DepartmentHandler) GetDepartmentsHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := strconv.ParseInt(r.URL.Query().Get("organization_id"), 10, 64)
	if err != nil {
		http.Error(w, "organization_id query parameter is required", http.StatusBadRequest)
		return
	}

	deps, err := h.Service.GetDepartmentsByOrganization(r.Context(), orgID)
	if err != nil {
		log.WithError(err).Error("Failed to fetch departments")
		http.Error(w, "Failed to get departments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deps)
}

// PUT /departments/{id}
func (h *DepartmentHandler) UpdateDepartmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid department ID", http.StatusBadRequest)
		return
	}

	var dep models.Department
	if err := json.NewDecoder(r.Body).Decode(&dep); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	dep.ID = id

	updated, err := h.Service.UpdateDepartment(r.Context(), &dep)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Department not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// DELETE /departments/{id}
func (h *DepartmentHandler) DeleteDepartmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid department ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteDepartment(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Department not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete department", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Department deleted"})
}
