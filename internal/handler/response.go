package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tableside/restaurant-orders/internal/domain/order"
	"github.com/tableside/restaurant-orders/internal/domain/product"
)

type errorResponse struct {
	Error string `json:"error"`
}

type orderItemResponse struct {
	Product  productResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type discountResponse struct {
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	Reason     string          `json:"reason"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	TableNumber int                 `json:"tableNumber"`
	Status      order.Status        `json:"status"`
	Items       []orderItemResponse `json:"items"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Total       decimal.Decimal     `json:"total"`
	Discount    *discountResponse   `json:"discount,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type productResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemResponse{
			Product:  toProductResponse(item.Product),
			Quantity: item.Quantity,
			Subtotal: item.Subtotal(),
		}
	}

	resp := orderResponse{
		ID:          o.ID,
		TableNumber: o.TableNumber,
		Status:      o.Status,
		Items:       items,
		Subtotal:    o.Subtotal(),
		Total:       o.Total(),
		CreatedAt:   o.CreatedAt,
	}
	if o.Discount != nil {
		resp.Discount = &discountResponse{
			Amount:     o.Discount.Amount,
			Percentage: o.Discount.Percentage,
			Reason:     o.Discount.Reason,
		}
	}
	return resp
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.lg.Error("encode response", zap.Error(err))
	}
}

// writeDomainError maps domain errors onto HTTP status codes: malformed
// input is 400, unknown identifiers 404, operations not permitted in the
// current status 409.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	h.writeJSON(w, statusFromError(err), errorResponse{Error: err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, product.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, order.ErrInvalidTableNumber),
		errors.Is(err, order.ErrProductRequired),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrDiscountNotPositive),
		errors.Is(err, order.ErrDiscountMismatch),
		errors.Is(err, order.ErrUnknownStatus),
		errors.Is(err, product.ErrInvalidProduct),
		errors.Is(err, product.ErrDuplicateID):
		return http.StatusBadRequest

	case errors.Is(err, order.ErrDiscountAlreadyApplied),
		errors.Is(err, order.ErrNotInProgress),
		errors.Is(err, order.ErrNotDelivered):
		return http.StatusConflict
	}

	var (
		terminal      *order.TerminalStateError
		notModifiable *order.NotModifiableError
	)
	if errors.As(err, &terminal) || errors.As(err, &notModifiable) {
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}
