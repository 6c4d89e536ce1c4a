package api

import (
	"net/http"
	"strconv"

	"github.com/example/clothing-store/internal/description"
	"github.com/example/clothing-store/internal/domain/catalog"
	"github.com/example/clothing-store/internal/domain/order"
	"github.com/gorilla/mux"
)

// Admin Handlers. Routes are gated by middleware.RequireAdminMode.

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if !decodeJSON(w, r, &p) {
		return
	}

	created, err := h.store.AddProduct(r.Context(), p)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if !decodeJSON(w, r, &p) {
		return
	}
	p.ID = mux.Vars(r)["id"]

	if err := h.store.UpdateProduct(r.Context(), p); err != nil {
		h.respondErr(w, err)
		return
	}

	stored, ok := h.store.Product(p.ID)
	if !ok {
		respondError(w, "product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, stored)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DescribeProduct asks the model for marketing copy. The text always comes
// back with 200; failures are reported in the text itself.
func (h *Handlers) DescribeProduct(w http.ResponseWriter, r *http.Request) {
	var req description.Request
	if !decodeJSON(w, r, &req) {
		return
	}

	select {
	case text := <-h.generator.GenerateAsync(r.Context(), req):
		respondJSON(w, http.StatusOK, map[string]string{"description": text})
	case <-r.Context().Done():
		respondError(w, "request cancelled", http.StatusServiceUnavailable)
	}
}

func (h *Handlers) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Orders())
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.store.UpdateOrderStatus(r.Context(), id, status); err != nil {
		h.respondErr(w, err)
		return
	}

	o, ok := h.store.Order(id)
	if !ok {
		respondError(w, "order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	top := order.DefaultTopSellers
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, "top must be a number", http.StatusBadRequest)
			return
		}
		top = n
	}
	respondJSON(w, http.StatusOK, h.store.Stats(top))
}
