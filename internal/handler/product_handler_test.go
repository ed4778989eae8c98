package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func listContext(t *testing.T, rawQuery string, siteID int) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/products?"+rawQuery, nil)
	c.Set("site_id", siteID)
	return c
}

func TestBuildProductFilter(t *testing.T) {
	c := listContext(t, "category_id=3&brand_id=9&search=savon&low_stock=true&backorder=true&include_inactive=true&page=2&limit=25", 4)

	filter := buildProductFilter(c)

	if filter.SiteID != 4 {
		t.Errorf("SiteID = %d, want 4", filter.SiteID)
	}
	if filter.CategoryID != 3 {
		t.Errorf("CategoryID = %d, want 3", filter.CategoryID)
	}
	if filter.BrandID != 9 {
		t.Errorf("BrandID = %d, want 9", filter.BrandID)
	}
	if filter.Search != "savon" {
		t.Errorf("Search = %q, want %q", filter.Search, "savon")
	}
	if !filter.LowStockOnly || !filter.BackorderOnly || !filter.IncludeStale {
		t.Errorf("boolean filters = %v/%v/%v, want all true",
			filter.LowStockOnly, filter.BackorderOnly, filter.IncludeStale)
	}
	if filter.Page != 2 || filter.Limit != 25 {
		t.Errorf("pagination = page %d limit %d, want page 2 limit 25", filter.Page, filter.Limit)
	}
}

func TestBuildProductFilterDefaults(t *testing.T) {
	c := listContext(t, "category_id=abc&brand_id=", 1)

	filter := buildProductFilter(c)

	if filter.CategoryID != 0 {
		t.Errorf("CategoryID = %d, want 0 for unparseable value", filter.CategoryID)
	}
	if filter.BrandID != 0 {
		t.Errorf("BrandID = %d, want 0 when absent", filter.BrandID)
	}
	if filter.Page != 1 || filter.Limit != 50 {
		t.Errorf("pagination defaults = page %d limit %d, want page 1 limit 50", filter.Page, filter.Limit)
	}
	if filter.LowStockOnly || filter.BackorderOnly || filter.IncludeStale {
		t.Errorf("boolean filters should default to false")
	}
}
