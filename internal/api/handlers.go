package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/clothing-store/internal/description"
	"github.com/example/clothing-store/internal/domain/cart"
	"github.com/example/clothing-store/internal/domain/catalog"
	"github.com/example/clothing-store/internal/domain/order"
	"github.com/example/clothing-store/internal/state"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	store     *state.Manager
	generator *description.Generator
	logger    logrus.FieldLogger
}

func NewHandlers(store *state.Manager, generator *description.Generator, logger logrus.FieldLogger) *Handlers {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handlers{
		store:     store,
		generator: generator,
		logger:    logger.WithField("component", "api"),
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	respondJSON(w, http.StatusOK, h.store.ProductsByCategory(category))
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.store.Product(mux.Vars(r)["id"])
	if !ok {
		respondError(w, "product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories := append([]string{catalog.AllCategories}, h.store.Categories()...)
	respondJSON(w, http.StatusOK, categories)
}

// Cart Handlers

type cartResponse struct {
	Items cart.Cart       `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func (h *Handlers) cartView() cartResponse {
	snap := h.store.Snapshot()
	return cartResponse{Items: snap.Cart, Total: snap.Cart.Total(), Count: snap.Cart.Count()}
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.store.AddToCartByID(r.Context(), req.ProductID); err != nil {
		h.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *Handlers) UpdateCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.store.UpdateCartQuantity(r.Context(), mux.Vars(r)["id"], req.Delta); err != nil {
		h.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveFromCart(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearCart(r.Context()); err != nil {
		h.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.cartView())
}

// Order Handlers

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var details order.CustomerDetails
	if !decodeJSON(w, r, &details) {
		return
	}

	placed, err := h.store.PlaceOrder(r.Context(), details)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, placed)
}

// Admin Mode Handlers

func (h *Handlers) GetAdminMode(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"admin_mode": h.store.IsAdminMode()})
}

func (h *Handlers) ToggleAdminMode(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"admin_mode": h.store.ToggleAdminMode()})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

var (
	notFoundErrors = []error{
		catalog.ErrProductNotFound,
		cart.ErrItemNotFound,
		order.ErrOrderNotFound,
	}
	badRequestErrors = []error{
		catalog.ErrMissingID,
		catalog.ErrInvalidName,
		catalog.ErrInvalidPrice,
		catalog.ErrInvalidStock,
		order.ErrEmptyOrder,
		order.ErrMissingCustomerName,
		order.ErrMissingCustomerPhone,
		order.ErrMissingAddress,
		order.ErrInvalidStatus,
	}
	conflictErrors = []error{
		catalog.ErrDuplicateProduct,
		order.ErrTransitionNotAllowed,
	}
)

func statusFor(err error) int {
	matches := func(targets []error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}

	switch {
	case matches(notFoundErrors):
		return http.StatusNotFound
	case matches(badRequestErrors):
		return http.StatusBadRequest
	case matches(conflictErrors):
		return http.StatusConflict
	case errors.Is(err, state.ErrClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *Handlers) respondErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).Error("request failed")
	}
	respondError(w, err.Error(), status)
}
