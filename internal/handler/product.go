package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/juiceworks/storefront/internal/domain/product"
)

// productResponse is the catalog wire shape. Price is the display string the
// web client renders directly, e.g. "₹149".
type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Img         string    `json:"img"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
}

type productPageResponse struct {
	Products    []productResponse `json:"products"`
	Total       int               `json:"total"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
	Limit       int               `json:"limit"`
}

func (h *Handler) listProducts(c *gin.Context) {
	q, err := parseProductQuery(c)
	if err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.products.List(c.Request.Context(), q)
	if err != nil {
		serverError(c, err, "failed to list products")
		return
	}

	resp := productPageResponse{
		Products:    make([]productResponse, len(page.Products)),
		Total:       page.Total,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		Limit:       page.Limit,
	}
	for i, p := range page.Products {
		resp.Products[i] = h.toProductResponse(p)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getProduct(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			message(c, http.StatusNotFound, "product not found")
			return
		}
		serverError(c, err, "failed to load product")
		return
	}

	c.JSON(http.StatusOK, h.toProductResponse(*p))
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.products.Categories(c.Request.Context())
	if err != nil {
		serverError(c, err, "failed to list categories")
		return
	}

	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, categories)
}

func parseProductQuery(c *gin.Context) (product.Query, error) {
	q := product.Query{
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	if raw := c.Query("minPrice"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return q, errors.New("invalid minPrice")
		}
		q.MinPrice = &d
	}
	if raw := c.Query("maxPrice"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return q, errors.New("invalid maxPrice")
		}
		q.MaxPrice = &d
	}
	if raw := c.Query("featured"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, errors.New("invalid featured flag")
		}
		q.Featured = &b
	}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("invalid page")
		}
		q.Page = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("invalid limit")
		}
		q.Limit = n
	}

	return q, nil
}

func (h *Handler) toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       "₹" + p.Price.String(),
		Category:    p.Category,
		Description: p.Description,
		Img:         h.imageURL(p.Img),
		Featured:    p.Featured,
		CreatedAt:   p.CreatedAt,
	}
}

// imageURL resolves a stored image path against the configured base URL.
// Absolute URLs pass through untouched.
func (h *Handler) imageURL(path string) string {
	if h.imageBaseURL == "" || path == "" {
		return path
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(h.imageBaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}
