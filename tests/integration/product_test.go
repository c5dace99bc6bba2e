//go:build integration

package integration

import (
	"net/http"
	"strings"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	page := decodeJSON[productPageResponse](t, resp)
	if page.Total != seededProducts {
		t.Fatalf("total: got %d, want %d", page.Total, seededProducts)
	}
	for _, p := range page.Products {
		if !strings.HasPrefix(p.Price, "₹") {
			t.Errorf("product %q price %q should carry the rupee prefix", p.Name, p.Price)
		}
	}
}

func TestListProductsFiltered(t *testing.T) {
	resp := doGet(t, "/api/products?category=Wellness")
	defer resp.Body.Close()

	page := decodeJSON[productPageResponse](t, resp)
	if len(page.Products) == 0 {
		t.Fatal("expected Wellness products in seed data")
	}
	for _, p := range page.Products {
		if p.Category != "Wellness" {
			t.Errorf("product %q category: got %q, want Wellness", p.Name, p.Category)
		}
	}
}

func TestListProductsPagination(t *testing.T) {
	resp := doGet(t, "/api/products?limit=3&page=2&sortBy=name&sortOrder=asc")
	defer resp.Body.Close()

	page := decodeJSON[productPageResponse](t, resp)
	if page.CurrentPage != 2 || page.Limit != 3 {
		t.Fatalf("pagination echo: got page %d limit %d", page.CurrentPage, page.Limit)
	}
	if len(page.Products) != 3 {
		t.Fatalf("page size: got %d, want 3", len(page.Products))
	}
}

func TestGetProductByID(t *testing.T) {
	list := doGet(t, "/api/products?limit=1")
	page := decodeJSON[productPageResponse](t, list)
	list.Body.Close()
	if len(page.Products) == 0 {
		t.Fatal("no products seeded")
	}

	resp := doGet(t, "/api/products/"+page.Products[0].ID)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.ID != page.Products[0].ID {
		t.Errorf("id: got %q, want %q", p.ID, page.Products[0].ID)
	}
}

func TestGetProductNotFound(t *testing.T) {
	resp := doGet(t, "/api/products/no-such-product")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	body := decodeJSON[messageResponse](t, resp)
	if body.Message == "" {
		t.Error("404 body should carry a message")
	}
}

func TestListCategories(t *testing.T) {
	resp := doGet(t, "/api/products/categories/list")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	categories := decodeJSON[[]string](t, resp)
	if len(categories) == 0 {
		t.Fatal("expected seeded categories")
	}
}
