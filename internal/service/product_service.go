package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/DJIMIGA/bolibanastock/internal/cache"
	"github.com/DJIMIGA/bolibanastock/internal/models"
	"github.com/DJIMIGA/bolibanastock/internal/repository"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

// ProductService contains catalog business logic.
type ProductService struct {
	productRepo  *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
	stockCache   *cache.StockCache
}

// NewProductService constructs a ProductService.
func NewProductService(
	productRepo *repository.ProductRepository,
	categoryRepo *repository.CategoryRepository,
	stockCache *cache.StockCache,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockCache:   stockCache,
	}
}

// CreateProductRequest input
type CreateProductRequest struct {
	CUG            string          `json:"cug" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	CategoryID     *int            `json:"categoryId"`
	BrandID        *int            `json:"brandId"`
	Quantity       decimal.Decimal `json:"quantity"`
	AlertThreshold decimal.Decimal `json:"alertThreshold"`
	PurchasePrice  int64           `json:"purchasePrice" binding:"min=0"`
	SellingPrice   int64           `json:"sellingPrice" binding:"min=0"`
}

// CreateProduct registers a new catalog item. The CUG must be unique per
// site; selling below purchase price is refused here (soft business rule,
// not a storage constraint).
func (s *ProductService) CreateProduct(op models.OperationContext, req *CreateProductRequest) (*models.Product, error) {
	cug := utils.NormalizeCUG(req.CUG)
	if cug == "" {
		return nil, utils.ErrInvalidCUG
	}

	exists, err := s.productRepo.ExistsCUG(op.SiteID, cug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.ErrDuplicateCUG
	}

	if req.SellingPrice < req.PurchasePrice {
		return nil, utils.ErrPriceBelowCost
	}
	if req.Quantity.Sign() < 0 || req.AlertThreshold.Sign() < 0 {
		return nil, utils.ErrInvalidQuantity
	}
	if err := s.checkCategory(op.SiteID, req.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		SiteID:         op.SiteID,
		CUG:            cug,
		Name:           req.Name,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		BrandID:        req.BrandID,
		Quantity:       req.Quantity,
		AlertThreshold: req.AlertThreshold,
		PurchasePrice:  req.PurchasePrice,
		SellingPrice:   req.SellingPrice,
		IsActive:       true,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	log.Info().Int("product_id", product.ID).Str("cug", product.CUG).Int("site_id", op.SiteID).Msg("Product created")
	return product, nil
}

// UpdateProductRequest input
type UpdateProductRequest struct {
	CUG            string          `json:"cug" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	CategoryID     *int            `json:"categoryId"`
	BrandID        *int            `json:"brandId"`
	AlertThreshold decimal.Decimal `json:"alertThreshold"`
	PurchasePrice  int64           `json:"purchasePrice" binding:"min=0"`
	SellingPrice   int64           `json:"sellingPrice" binding:"min=0"`
	IsActive       *bool           `json:"isActive"`
}

// UpdateProduct edits catalog fields. Quantity is not editable here: stock
// changes only happen through movements.
func (s *ProductService) UpdateProduct(op models.OperationContext, id int, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id, op.SiteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	cug := utils.NormalizeCUG(req.CUG)
	if cug == "" {
		return nil, utils.ErrInvalidCUG
	}
	exists, err := s.productRepo.ExistsCUG(op.SiteID, cug, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.ErrDuplicateCUG
	}

	if req.SellingPrice < req.PurchasePrice {
		return nil, utils.ErrPriceBelowCost
	}
	if req.AlertThreshold.Sign() < 0 {
		return nil, utils.ErrInvalidQuantity
	}
	if err := s.checkCategory(op.SiteID, req.CategoryID); err != nil {
		return nil, err
	}

	oldCUG := product.CUG
	product.CUG = cug
	product.Name = req.Name
	product.Description = req.Description
	product.CategoryID = req.CategoryID
	product.BrandID = req.BrandID
	product.AlertThreshold = req.AlertThreshold
	product.PurchasePrice = req.PurchasePrice
	product.SellingPrice = req.SellingPrice
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	// Old snapshot is stale once the code or prices change.
	if s.stockCache != nil {
		_ = s.stockCache.InvalidateSnapshot(context.Background(), op.SiteID, oldCUG)
	}
	return product, nil
}

// checkCategory verifies the referenced category belongs to the site.
func (s *ProductService) checkCategory(siteID int, categoryID *int) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.GetCategory(*categoryID, siteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrCategoryNotFound
		}
		return err
	}
	return nil
}

// GetProduct returns one product.
func (s *ProductService) GetProduct(op models.OperationContext, id int) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id, op.SiteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListProducts returns the filtered catalog page with total count.
func (s *ProductService) ListProducts(filter *repository.ProductFilter) ([]models.Product, int, error) {
	return s.productRepo.List(filter)
}

// DeleteProduct soft-deletes a product; its movement history remains.
func (s *ProductService) DeleteProduct(op models.OperationContext, id int) error {
	product, err := s.productRepo.GetByID(id, op.SiteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		return err
	}
	if err := s.productRepo.Deactivate(id, op.SiteID); err != nil {
		return err
	}
	if s.stockCache != nil {
		_ = s.stockCache.InvalidateSnapshot(context.Background(), op.SiteID, product.CUG)
	}
	return nil
}

// ScanByCUG serves the cashier scan path: Redis snapshot first, database
// on a miss. The snapshot is re-populated on every miss.
func (s *ProductService) ScanByCUG(ctx context.Context, op models.OperationContext, cug string) (*models.Product, bool, error) {
	cug = utils.NormalizeCUG(cug)

	if s.stockCache != nil {
		snap, err := s.stockCache.GetSnapshot(ctx, op.SiteID, cug)
		if err != nil {
			log.Warn().Err(err).Str("cug", cug).Msg("Scan cache read failed, falling back to database")
		}
		if snap != nil {
			return &models.Product{
				ID:             snap.ProductID,
				SiteID:         snap.SiteID,
				CUG:            snap.CUG,
				Name:           snap.Name,
				Quantity:       snap.Quantity,
				AlertThreshold: snap.AlertThreshold,
				SellingPrice:   snap.SellingPrice,
				IsActive:       true,
			}, true, nil
		}
	}

	product, err := s.productRepo.GetByCUG(op.SiteID, cug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, utils.ErrProductNotFound
		}
		return nil, false, err
	}

	if s.stockCache != nil {
		snap := &cache.StockSnapshot{
			ProductID:      product.ID,
			SiteID:         product.SiteID,
			CUG:            product.CUG,
			Name:           product.Name,
			Quantity:       product.Quantity,
			AlertThreshold: product.AlertThreshold,
			SellingPrice:   product.SellingPrice,
		}
		if err := s.stockCache.SetSnapshot(ctx, snap); err != nil {
			log.Warn().Err(err).Str("cug", cug).Msg("Failed to cache scan snapshot")
		}
	}
	return product, false, nil
}

// SetImageURL records the uploaded image location on the product.
func (s *ProductService) SetImageURL(op models.OperationContext, id int, imageURL string) error {
	return s.productRepo.SetImageURL(id, op.SiteID, imageURL)
}
