// Package handler exposes the storefront API over HTTP using gin.
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/juiceworks/storefront/internal/domain/cart"
	"github.com/juiceworks/storefront/internal/domain/order"
	"github.com/juiceworks/storefront/internal/domain/product"
	"github.com/juiceworks/storefront/internal/domain/user"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product responses.
	// When empty, image paths are returned as stored in the database.
	ImageBaseURL string
}

// Handler wires HTTP routes to the domain services.
type Handler struct {
	users    *user.Service
	carts    *cart.Service
	orders   *order.Service
	products product.Repository
	tokens   TokenVerifier

	imageBaseURL string
}

// New constructs a Handler with the required domain dependencies.
func New(
	cfg Config,
	users *user.Service,
	carts *cart.Service,
	orders *order.Service,
	products product.Repository,
	tokens TokenVerifier,
) *Handler {
	return &Handler{
		users:        users,
		carts:        carts,
		orders:       orders,
		products:     products,
		tokens:       tokens,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes registers the full API surface on the engine. Cart and order routes
// require a Bearer token, the catalog and auth routes are public.
func (h *Handler) Routes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}

	products := r.Group("/api/products")
	{
		products.GET("", h.listProducts)
		products.GET("/:id", h.getProduct)
		products.GET("/categories/list", h.listCategories)
	}

	secured := r.Group("/", RequireAuth(h.tokens))
	{
		secured.POST("/cart/add", h.addToCart)
		secured.GET("/cart", h.viewCart)
		secured.DELETE("/cart/:name", h.removeOneFromCart)
		secured.POST("/orders", h.placeOrder)
		secured.GET("/orders/my", h.listMyOrders)
	}
}
