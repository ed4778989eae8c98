package service

import (
	"errors"
	"testing"

	"github.com/DJIMIGA/bolibanastock/internal/models"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

// A blank CUG is invalid input, not a uniqueness conflict: the caller
// must see INVALID_CUG, never DUPLICATE_CUG.
func TestCreateProductRejectsBlankCUG(t *testing.T) {
	svc := NewProductService(nil, nil, nil)
	op := models.OperationContext{SiteID: 1, UserID: 1}

	for _, cug := range []string{"", "   ", "\t\n"} {
		_, err := svc.CreateProduct(op, &CreateProductRequest{
			CUG:          cug,
			Name:         "Savon",
			SellingPrice: 500,
		})
		if !errors.Is(err, utils.ErrInvalidCUG) {
			t.Errorf("CreateProduct(cug=%q) error = %v, want ErrInvalidCUG", cug, err)
		}
		if errors.Is(err, utils.ErrDuplicateCUG) {
			t.Errorf("CreateProduct(cug=%q) must not report a duplicate", cug)
		}
	}
}
