package api

import (
	"net/http"

	"github.com/example/clothing-store/internal/api/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func NewRouter(handlers *Handlers, logger logrus.FieldLogger) http.Handler {
	r := mux.NewRouter()

	// Storefront
	r.HandleFunc("/products", handlers.GetProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", handlers.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/categories", handlers.GetCategories).Methods(http.MethodGet)

	r.HandleFunc("/cart", handlers.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/cart", handlers.ClearCart).Methods(http.MethodDelete)
	r.HandleFunc("/cart/items", handlers.AddToCart).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}", handlers.UpdateCartQuantity).Methods(http.MethodPatch)
	r.HandleFunc("/cart/items/{id}", handlers.RemoveFromCart).Methods(http.MethodDelete)

	r.HandleFunc("/orders", handlers.PlaceOrder).Methods(http.MethodPost)

	// Admin mode switch is always reachable
	r.HandleFunc("/admin/mode", handlers.GetAdminMode).Methods(http.MethodGet)
	r.HandleFunc("/admin/mode/toggle", handlers.ToggleAdminMode).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdminMode(handlers.store.IsAdminMode))
	admin.HandleFunc("/products", handlers.CreateProduct).Methods(http.MethodPost)
	admin.HandleFunc("/products/describe", handlers.DescribeProduct).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}", handlers.UpdateProduct).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id}", handlers.DeleteProduct).Methods(http.MethodDelete)
	admin.HandleFunc("/orders", handlers.GetAllOrders).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{id}/status", handlers.UpdateOrderStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/dashboard", handlers.GetDashboard).Methods(http.MethodGet)

	return middleware.Logging(logger)(r)
}
