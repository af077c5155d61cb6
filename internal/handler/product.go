package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tableside/restaurant-orders/internal/domain/product"
)

type productRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// ListProducts returns the full catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	all, err := h.products.List(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := make([]productResponse, len(all))
	for i, p := range all {
		resp[i] = toProductResponse(p)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// GetProduct returns a single product by ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toProductResponse(*p))
}

// CreateProduct adds a product to the catalog. A missing ID is generated.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	p := product.Product{ID: req.ID, Name: req.Name, Price: req.Price, Category: req.Category}
	if err := h.products.Create(r.Context(), p); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toProductResponse(p))
}

// UpdateProduct replaces a catalog entry.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p := product.Product{
		ID:       chi.URLParam(r, "productID"),
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
	}
	if err := h.products.Update(r.Context(), p); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toProductResponse(p))
}

// DeleteProduct removes a catalog entry.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
