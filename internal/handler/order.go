package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/juiceworks/storefront/internal/domain/cart"
	"github.com/juiceworks/storefront/internal/domain/order"
)

// placeOrderRequest mirrors the checkout form. The client also sends its own
// products and totalCost copies; both are ignored, the server snapshots the
// cart and recomputes the total itself.
type placeOrderRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	PaymentMode string `json:"paymentMode"`
}

type orderResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	PaymentMode string      `json:"paymentMode"`
	Products    []cart.Line `json:"products"`
	TotalCost   float64     `json:"totalCost"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func (h *Handler) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.Place(c.Request.Context(), identity(c), order.CheckoutInfo{
		RecipientName: req.Name,
		Phone:         req.Phone,
		Address:       req.Address,
		PaymentMode:   req.PaymentMode,
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrMissingFields), errors.Is(err, order.ErrEmptyCart),
			errors.Is(err, cart.ErrBadPrice):
			message(c, http.StatusBadRequest, err.Error())
		default:
			serverError(c, err, "failed to place order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order placed successfully",
		"orderId": o.ID,
	})
}

func (h *Handler) listMyOrders(c *gin.Context) {
	orders, err := h.orders.ListForOwner(c.Request.Context(), identity(c))
	if err != nil {
		serverError(c, err, "failed to load orders")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = orderResponse{
			ID:          o.ID,
			Name:        o.RecipientName,
			Phone:       o.Phone,
			Address:     o.Address,
			PaymentMode: o.PaymentMode,
			Products:    o.Lines,
			TotalCost:   o.Total.InexactFloat64(),
			CreatedAt:   o.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}
