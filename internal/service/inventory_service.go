package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/DJIMIGA/bolibanastock/internal/cache"
	"github.com/DJIMIGA/bolibanastock/internal/models"
	"github.com/DJIMIGA/bolibanastock/internal/repository"
	"github.com/DJIMIGA/bolibanastock/internal/sse"
	"github.com/DJIMIGA/bolibanastock/internal/stock"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

// InventoryService is the single write path for stock. Every entry point
// (stock endpoints, POS sales, scripts) goes through RecordMovement; the
// arithmetic itself lives in the stock package so no business rule is
// duplicated at any boundary.
type InventoryService struct {
	db           *sqlx.DB
	productRepo  *repository.ProductRepository
	movementRepo *repository.MovementRepository
	alertRepo    *repository.AlertRepository
	stockCache   *cache.StockCache
	notifier     sse.StockNotifier
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(
	db *sqlx.DB,
	productRepo *repository.ProductRepository,
	movementRepo *repository.MovementRepository,
	alertRepo *repository.AlertRepository,
	stockCache *cache.StockCache,
	notifier sse.StockNotifier,
) *InventoryService {
	return &InventoryService{
		db:           db,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		alertRepo:    alertRepo,
		stockCache:   stockCache,
		notifier:     notifier,
	}
}

// MovementRequest describes one stock mutation.
// For in/out/loss Quantity is the positive magnitude of units moved;
// for adjustment it is the absolute target quantity (may be negative).
type MovementRequest struct {
	Kind     stock.MovementKind
	Quantity decimal.Decimal
	Notes    *string
	SaleID   *int
	// UnitPrice overrides the price snapshot; zero means "pick from product".
	UnitPrice int64
}

// StockOperationResult is the payload returned by the stock endpoints.
type StockOperationResult struct {
	Success           bool              `json:"success"`
	Message           string            `json:"message"`
	OldQuantity       decimal.Decimal   `json:"old_quantity"`
	NewQuantity       decimal.Decimal   `json:"new_quantity"`
	StockStatus       stock.StockStatus `json:"stock_status"`
	HasBackorder      bool              `json:"has_backorder"`
	BackorderQuantity decimal.Decimal   `json:"backorder_quantity"`
}

// RecordMovement applies one stock mutation atomically: the product row is
// locked, the new quantity computed, the quantity updated and the movement
// inserted within a single database transaction. Outbound movements are
// never rejected for insufficient stock; the quantity simply goes negative
// and the movement is recorded as a backorder.
func (s *InventoryService) RecordMovement(ctx context.Context, op models.OperationContext, productID int, req MovementRequest) (*StockOperationResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin stock transaction: %w", err)
	}
	defer tx.Rollback()

	product, movement, err := s.applyInTx(tx, op, productID, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit stock transaction: %w", err)
	}

	s.afterMovement(ctx, product, movement)

	return buildStockOperationResult(movement, product.AlertThreshold), nil
}

// RecordMovementTx applies a movement inside a caller-managed transaction.
// Used by the sale flow, which locks several products in one transaction.
// Cache invalidation and notifications are the caller's responsibility
// (via AfterMovement) once the transaction commits.
func (s *InventoryService) RecordMovementTx(tx *sqlx.Tx, op models.OperationContext, productID int, req MovementRequest) (*models.Product, *models.StockMovement, error) {
	return s.applyInTx(tx, op, productID, req)
}

// AfterMovement runs the post-commit side effects for a movement recorded
// through RecordMovementTx.
func (s *InventoryService) AfterMovement(ctx context.Context, product *models.Product, movement *models.StockMovement) {
	s.afterMovement(ctx, product, movement)
}

func (s *InventoryService) applyInTx(tx *sqlx.Tx, op models.OperationContext, productID int, req MovementRequest) (*models.Product, *models.StockMovement, error) {
	product, err := s.productRepo.GetForUpdate(tx, productID, op.SiteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, utils.ErrProductNotFound
		}
		return nil, nil, err
	}

	res, err := stock.ApplyMovement(product.Quantity, req.Kind, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, stock.ErrInvalidQuantity):
			return nil, nil, utils.ErrInvalidQuantity
		case errors.Is(err, stock.ErrUnknownKind):
			return nil, nil, utils.ErrInvalidMovement
		default:
			return nil, nil, err
		}
	}

	if err := s.productRepo.UpdateQuantityTx(tx, product.ID, res.NewQuantity); err != nil {
		return nil, nil, fmt.Errorf("update quantity: %w", err)
	}

	unitPrice := req.UnitPrice
	if unitPrice == 0 {
		unitPrice = snapshotUnitPrice(req.Kind, product)
	}

	movement := &models.StockMovement{
		SiteID:         op.SiteID,
		ProductID:      product.ID,
		Type:           res.RecordedKind,
		Quantity:       req.Quantity,
		QuantityBefore: product.Quantity,
		QuantityAfter:  res.NewQuantity,
		UnitPrice:      unitPrice,
		TotalAmount:    movementTotal(req.Kind, req.Quantity, product.Quantity, unitPrice),
		Notes:          req.Notes,
		SaleID:         req.SaleID,
		UserID:         op.UserID,
	}
	if err := s.movementRepo.CreateTx(tx, movement); err != nil {
		return nil, nil, fmt.Errorf("insert movement: %w", err)
	}

	movement.ProductName = product.Name
	movement.ProductCUG = product.CUG
	product.Quantity = res.NewQuantity
	return product, movement, nil
}

// afterMovement runs the non-transactional side effects: snapshot cache
// invalidation, SSE broadcast, and threshold alert queueing.
func (s *InventoryService) afterMovement(ctx context.Context, product *models.Product, movement *models.StockMovement) {
	if s.stockCache != nil {
		if err := s.stockCache.InvalidateSnapshot(ctx, product.SiteID, product.CUG); err != nil {
			log.Warn().Err(err).Str("cug", product.CUG).Msg("Failed to invalidate scan snapshot")
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyMovement(product, movement)
	}

	s.queueThresholdAlert(product, movement)

	log.Info().
		Int("product_id", product.ID).
		Int("site_id", movement.SiteID).
		Str("type", string(movement.Type)).
		Str("quantity", movement.Quantity.String()).
		Msg("Stock movement recorded")
}

// queueThresholdAlert queues an alert when the movement crossed into low
// stock or backorder. The repository deduplicates pending alerts.
func (s *InventoryService) queueThresholdAlert(product *models.Product, movement *models.StockMovement) {
	if s.alertRepo == nil {
		return
	}

	oldBackorder := stock.HasBackorder(movement.QuantityBefore)
	newBackorder := stock.HasBackorder(movement.QuantityAfter)
	oldStatus := stock.DeriveStatus(movement.QuantityBefore, product.AlertThreshold)
	newStatus := stock.DeriveStatus(movement.QuantityAfter, product.AlertThreshold)

	var kind models.AlertKind
	switch {
	case newBackorder && !oldBackorder:
		kind = models.AlertBackorder
	case newStatus != stock.StatusInStock && oldStatus == stock.StatusInStock:
		kind = models.AlertLowStock
	default:
		return
	}

	alert := &models.StockAlert{
		SiteID:    movement.SiteID,
		ProductID: product.ID,
		Kind:      kind,
		Quantity:  movement.QuantityAfter,
	}
	if err := s.alertRepo.Create(alert); err != nil {
		log.Error().Err(err).Int("product_id", product.ID).Msg("Failed to queue stock alert")
	}

	if s.notifier != nil {
		s.notifier.NotifyThreshold(product)
	}
}

// ListMovements returns the movement history of one product.
func (s *InventoryService) ListMovements(op models.OperationContext, productID, page, limit int) ([]models.StockMovement, int, error) {
	if _, err := s.productRepo.GetByID(productID, op.SiteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, utils.ErrProductNotFound
		}
		return nil, 0, err
	}
	return s.movementRepo.ListByProduct(productID, op.SiteID, page, limit)
}

// snapshotUnitPrice picks the price recorded on a movement: outbound
// movements snapshot the selling price, everything else the purchase price.
func snapshotUnitPrice(kind stock.MovementKind, product *models.Product) int64 {
	if kind == stock.MovementOut {
		return product.SellingPrice
	}
	return product.PurchasePrice
}

// movementTotal computes the denormalized movement value. For adjustments
// the value is based on the corrected delta, not the absolute target.
func movementTotal(kind stock.MovementKind, magnitude, before decimal.Decimal, unitPrice int64) int64 {
	qty := magnitude
	if kind == stock.MovementAdjustment {
		qty = magnitude.Sub(before)
	}
	return qty.Abs().Mul(decimal.NewFromInt(unitPrice)).IntPart()
}

// buildStockOperationResult shapes the client-facing payload for a movement.
func buildStockOperationResult(movement *models.StockMovement, threshold decimal.Decimal) *StockOperationResult {
	newQty := movement.QuantityAfter
	return &StockOperationResult{
		Success:           true,
		Message:           movementMessage(movement),
		OldQuantity:       movement.QuantityBefore,
		NewQuantity:       newQty,
		StockStatus:       stock.DeriveStatus(newQty, threshold),
		HasBackorder:      stock.HasBackorder(newQty),
		BackorderQuantity: stock.BackorderQuantity(newQty),
	}
}

func movementMessage(movement *models.StockMovement) string {
	switch movement.Type {
	case stock.MovementIn:
		return fmt.Sprintf("Ajout de %s unités au stock", movement.Quantity)
	case stock.MovementOut:
		return fmt.Sprintf("Retrait de %s unités du stock", movement.Quantity)
	case stock.MovementLoss:
		return fmt.Sprintf("Perte de %s unités enregistrée", movement.Quantity)
	case stock.MovementBackorder:
		return fmt.Sprintf("Retrait de %s unités (backorder créé)", movement.Quantity)
	case stock.MovementAdjustment:
		return fmt.Sprintf("Stock ajusté à %s unités", movement.QuantityAfter)
	default:
		return "Mouvement enregistré"
	}
}
