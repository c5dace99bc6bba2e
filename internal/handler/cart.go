package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/juiceworks/storefront/internal/domain/cart"
)

type addToCartRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Img   string `json:"img"`
}

func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.carts.Add(c.Request.Context(), identity(c), cart.Item{
		Name:  req.Name,
		Price: req.Price,
		Img:   req.Img,
	})
	if err != nil {
		if errors.Is(err, cart.ErrMissingFields) {
			message(c, http.StatusBadRequest, err.Error())
			return
		}
		serverError(c, err, "failed to add item to cart")
		return
	}

	message(c, http.StatusCreated, "Item added to cart")
}

func (h *Handler) viewCart(c *gin.Context) {
	lines, err := h.carts.View(c.Request.Context(), identity(c))
	if err != nil {
		serverError(c, err, "failed to load cart")
		return
	}

	if lines == nil {
		lines = []cart.Line{}
	}
	c.JSON(http.StatusOK, lines)
}

func (h *Handler) removeOneFromCart(c *gin.Context) {
	name := c.Param("name")

	if err := h.carts.RemoveOne(c.Request.Context(), identity(c), name); err != nil {
		serverError(c, err, "failed to remove item from cart")
		return
	}

	message(c, http.StatusOK, "Item removed from cart")
}
