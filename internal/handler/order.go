package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createOrderRequest struct {
	TableNumber int `json:"tableNumber"`
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type closeOrderRequest struct {
	CouponCode string `json:"couponCode"`
}

type cancelOrderResponse struct {
	Cancelled bool `json:"cancelled"`
}

// CreateOrder opens a new order for a table.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	o, err := h.orders.CreateOrder(r.Context(), req.TableNumber)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

// ListActiveOrders returns every order that has not been closed or cancelled.
func (h *Handler) ListActiveOrders(w http.ResponseWriter, r *http.Request) {
	active, err := h.orders.ActiveOrders(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := make([]orderResponse, len(active))
	for i := range active {
		resp[i] = toOrderResponse(&active[i])
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// GetOrder returns a single order by ID.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// AddItem adds a quantity of one product to an open order.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	o, err := h.orders.AddItem(r.Context(), chi.URLParam(r, "orderID"), req.ProductID, req.Quantity)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// MarkDelivered marks an in-progress order as served.
func (h *Handler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.MarkDelivered(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// CloseOrder closes a delivered order, optionally redeeming a coupon code.
func (h *Handler) CloseOrder(w http.ResponseWriter, r *http.Request) {
	var req closeOrderRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}

	o, err := h.orders.CloseOrder(r.Context(), chi.URLParam(r, "orderID"), req.CouponCode)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// CancelOrder cancels an order that has not been delivered or closed.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	cancelled, err := h.orders.CancelOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, cancelOrderResponse{Cancelled: cancelled})
}
