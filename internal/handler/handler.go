// Package handler is the HTTP adapter over the order use case and the
// product catalog. It owns no business rules: requests are decoded, handed
// to the domain, and domain errors are mapped to status codes.
package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/tableside/restaurant-orders/internal/domain/order"
	"github.com/tableside/restaurant-orders/internal/domain/product"
)

// Handler serves the staff-facing order and catalog API.
type Handler struct {
	orders   *order.Service
	products product.Repository
	lg       *zap.Logger
}

// New constructs a Handler with the required domain dependencies.
func New(orders *order.Service, products product.Repository, lg *zap.Logger) *Handler {
	return &Handler{
		orders:   orders,
		products: products,
		lg:       lg,
	}
}

// Routes returns the API router.
func (h *Handler) Routes(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.CreateOrder)
			r.Get("/", h.ListActiveOrders)
			r.Get("/{orderID}", h.GetOrder)
			r.Post("/{orderID}/items", h.AddItem)
			r.Post("/{orderID}/deliver", h.MarkDelivered)
			r.Post("/{orderID}/close", h.CloseOrder)
			r.Post("/{orderID}/cancel", h.CancelOrder)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{productID}", h.GetProduct)
			r.Put("/{productID}", h.UpdateProduct)
			r.Delete("/{productID}", h.DeleteProduct)
		})
	})

	return r
}
