package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/DJIMIGA/bolibanastock/internal/models"
	"github.com/DJIMIGA/bolibanastock/internal/repository"
	"github.com/DJIMIGA/bolibanastock/internal/sse"
	"github.com/DJIMIGA/bolibanastock/internal/stock"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

// SaleService contains POS business logic. A sale and all of its stock
// movements commit in one database transaction; products are locked in
// ascending id order so concurrent sales cannot deadlock.
type SaleService struct {
	db           *sqlx.DB
	saleRepo     *repository.SaleRepository
	movementRepo *repository.MovementRepository
	inventorySvc *InventoryService
	notifier     sse.StockNotifier
}

// NewSaleService constructs a SaleService.
func NewSaleService(
	db *sqlx.DB,
	saleRepo *repository.SaleRepository,
	movementRepo *repository.MovementRepository,
	inventorySvc *InventoryService,
	notifier sse.StockNotifier,
) *SaleService {
	return &SaleService{
		db:           db,
		saleRepo:     saleRepo,
		movementRepo: movementRepo,
		inventorySvc: inventorySvc,
		notifier:     notifier,
	}
}

// SaleItemRequest is one line of a sale request.
type SaleItemRequest struct {
	ProductID int             `json:"productId" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	// UnitPrice overrides the product selling price when set (negotiated price).
	UnitPrice int64 `json:"unitPrice"`
}

// CreateSaleRequest input
type CreateSaleRequest struct {
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"required,oneof=cash card mobile_money credit transfer"`
	CustomerName  *string              `json:"customerName"`
	Notes         *string              `json:"notes"`
	Items         []SaleItemRequest    `json:"items" binding:"required"`
}

// CreateSale records a POS sale: the receipt header, one line and one
// outbound movement per item, and all quantity updates, atomically.
// Selling beyond available stock is allowed and produces backorders.
func (s *SaleService) CreateSale(ctx context.Context, op models.OperationContext, req *CreateSaleRequest) (*models.Sale, error) {
	if len(req.Items) == 0 {
		return nil, utils.ErrEmptySale
	}
	for _, item := range req.Items {
		if item.Quantity.Sign() <= 0 {
			return nil, utils.ErrInvalidQuantity
		}
	}

	reference, err := utils.GenerateSaleReference()
	if err != nil {
		return nil, fmt.Errorf("generate sale reference: %w", err)
	}

	// Deterministic lock order across concurrent sales.
	items := make([]SaleItemRequest, len(req.Items))
	copy(items, req.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin sale transaction: %w", err)
	}
	defer tx.Rollback()

	sale := &models.Sale{
		SiteID:        op.SiteID,
		Reference:     reference,
		Status:        models.SaleCompleted,
		PaymentMethod: req.PaymentMethod,
		CustomerName:  req.CustomerName,
		Notes:         req.Notes,
		UserID:        op.UserID,
	}
	if err := s.saleRepo.CreateTx(tx, sale); err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}

	var total int64
	type movementEffect struct {
		product  *models.Product
		movement *models.StockMovement
	}
	effects := make([]movementEffect, 0, len(items))

	for _, item := range items {
		product, movement, err := s.inventorySvc.RecordMovementTx(tx, op, item.ProductID, MovementRequest{
			Kind:      stock.MovementOut,
			Quantity:  item.Quantity,
			SaleID:    &sale.ID,
			UnitPrice: item.UnitPrice,
		})
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, utils.ErrProductInactive
		}

		saleItem := &models.SaleItem{
			SaleID:     sale.ID,
			ProductID:  product.ID,
			Quantity:   item.Quantity,
			UnitPrice:  movement.UnitPrice,
			TotalPrice: item.Quantity.Mul(decimal.NewFromInt(movement.UnitPrice)).IntPart(),
		}
		if err := s.saleRepo.CreateItemTx(tx, saleItem); err != nil {
			return nil, fmt.Errorf("insert sale item: %w", err)
		}
		saleItem.ProductName = product.Name

		total += saleItem.TotalPrice
		sale.Items = append(sale.Items, *saleItem)
		effects = append(effects, movementEffect{product: product, movement: movement})
	}

	sale.TotalAmount = total
	if _, err := tx.Exec(`UPDATE sales SET total_amount = $2 WHERE id = $1`, sale.ID, total); err != nil {
		return nil, fmt.Errorf("update sale total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sale transaction: %w", err)
	}

	for _, e := range effects {
		s.inventorySvc.AfterMovement(ctx, e.product, e.movement)
	}
	if s.notifier != nil {
		s.notifier.NotifySale(sale)
	}

	log.Info().
		Int("sale_id", sale.ID).
		Str("reference", sale.Reference).
		Int("items", len(sale.Items)).
		Int64("total", sale.TotalAmount).
		Msg("Sale completed")
	return sale, nil
}

// CancelSale voids a completed sale and restores its stock through
// compensating inbound movements, all in one transaction.
func (s *SaleService) CancelSale(ctx context.Context, op models.OperationContext, saleID int) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(saleID, op.SiteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrSaleNotFound
		}
		return nil, err
	}
	if sale.Status == models.SaleCancelled {
		return sale, nil
	}

	items := make([]models.SaleItem, len(sale.Items))
	copy(items, sale.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin cancel transaction: %w", err)
	}
	defer tx.Rollback()

	notes := fmt.Sprintf("Annulation vente %s", sale.Reference)
	type movementEffect struct {
		product  *models.Product
		movement *models.StockMovement
	}
	effects := make([]movementEffect, 0, len(items))

	for _, item := range items {
		product, movement, err := s.inventorySvc.RecordMovementTx(tx, op, item.ProductID, MovementRequest{
			Kind:      stock.MovementIn,
			Quantity:  item.Quantity,
			Notes:     &notes,
			SaleID:    &sale.ID,
			UnitPrice: item.UnitPrice,
		})
		if err != nil {
			return nil, err
		}
		effects = append(effects, movementEffect{product: product, movement: movement})
	}

	if err := s.saleRepo.UpdateStatusTx(tx, sale.ID, op.SiteID, models.SaleCancelled); err != nil {
		return nil, fmt.Errorf("update sale status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cancel transaction: %w", err)
	}

	for _, e := range effects {
		s.inventorySvc.AfterMovement(ctx, e.product, e.movement)
	}

	sale.Status = models.SaleCancelled
	log.Info().Int("sale_id", sale.ID).Str("reference", sale.Reference).Msg("Sale cancelled")
	return sale, nil
}

// GetSale returns a sale with items.
func (s *SaleService) GetSale(op models.OperationContext, id int) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(id, op.SiteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

// ListSales returns the sale history page of a site.
func (s *SaleService) ListSales(op models.OperationContext, page, limit int) ([]models.Sale, int, error) {
	return s.saleRepo.List(op.SiteID, page, limit)
}

// SaleMovements returns the stock movements a sale generated, including
// the compensating restocks of a cancellation.
func (s *SaleService) SaleMovements(op models.OperationContext, saleID int) ([]models.StockMovement, error) {
	if _, err := s.saleRepo.GetByID(saleID, op.SiteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrSaleNotFound
		}
		return nil, err
	}
	return s.movementRepo.ListBySale(saleID, op.SiteID)
}
