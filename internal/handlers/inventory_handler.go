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

// InventoryHandler handles HTTP requests for inventory items.
type InventoryHandler struct {
	Service *services.InventoryService
}

func NewInventoryHandler(service *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{Service: service}
}

// POST /inventory
func (h *InventoryHandler) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	var item models.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateItem(r.Context(), &item)
	if err != nil {
		log.WithError(err).Warn("Failed to create inventory item")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GET /inventory
func (h *InventoryHandler) GetItemsHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.GetAllItems(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to fetch inventory items")
		http.Error(w, "Failed to get items", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// GET /inventory/low-stock
func (h *InventoryHandler) GetLowStockHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.GetLowStockItems(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to fetch low stock items")
		http.Error(w, "Failed to get low stock items", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// GET /inventory/{id}
func (h *InventoryHandler) GetItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	item, err := h.Service.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get item", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// PATCH /inventory/{id}
func (h *InventoryHandler) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	item, err := h.Service.UpdateItem(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Warn("Failed to update inventory item")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// POST /inventory/{id}/adjust
func (h *InventoryHandler) AdjustQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Delta int64 `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	item, err := h.Service.AdjustQuantity(r.Context(), id, req.Delta)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to adjust quantity")
		http.Error(w, "Failed to adjust quantity", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// DELETE /inventory/{id}
func (h *InventoryHandler) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete item", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Item deleted"})
}
