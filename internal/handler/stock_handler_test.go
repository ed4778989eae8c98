package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

func adjustContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/products/1/adjust_stock", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	return c, w
}

func TestAdjustStockRejectsMalformedBody(t *testing.T) {
	h := NewStockHandler(nil)

	for _, body := range []string{"", "{not json", `{"quantity": "beaucoup"}`} {
		c, w := adjustContext(t, body)
		h.AdjustStock(c)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want %d", body, w.Code, http.StatusBadRequest)
			continue
		}

		var resp utils.Response
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("body %q: decode response: %v", body, err)
		}
		if resp.Error == nil || resp.Error.Code != "INVALID_REQUEST" {
			t.Errorf("body %q: error = %+v, want code INVALID_REQUEST", body, resp.Error)
			continue
		}
		if !strings.Contains(resp.Error.Message, "numeric quantity") {
			t.Errorf("body %q: message = %q, want it to mention the numeric quantity", body, resp.Error.Message)
		}
		if strings.Contains(resp.Error.Message, "required") {
			t.Errorf("body %q: message %q must not claim the quantity is required", body, resp.Error.Message)
		}
	}
}

// A counted target of zero is a legal adjustment and must pass request
// binding; only the body shape is validated at this layer.
func TestAdjustStockBindingAcceptsZeroTarget(t *testing.T) {
	c, _ := adjustContext(t, `{"quantity": 0}`)

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		t.Fatalf("binding rejected zero target: %v", err)
	}
	if !req.Quantity.IsZero() {
		t.Errorf("quantity = %s, want 0", req.Quantity)
	}

	c, _ = adjustContext(t, `{"quantity": -4}`)
	if err := c.ShouldBindJSON(&req); err != nil {
		t.Fatalf("binding rejected negative target: %v", err)
	}
	if req.Quantity.String() != "-4" {
		t.Errorf("quantity = %s, want -4", req.Quantity)
	}
}
