package sse

import (
	"time"

	"github.com/DJIMIGA/bolibanastock/internal/models"
	"github.com/DJIMIGA/bolibanastock/internal/stock"
)

// StockNotifier is the interface services use to emit stock events.
type StockNotifier interface {
	NotifyMovement(product *models.Product, movement *models.StockMovement)
	NotifyThreshold(product *models.Product)
	NotifySale(sale *models.Sale)
}

// HubNotifier implements StockNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// NotifyMovement broadcasts a recorded movement with the product's new state.
func (n *HubNotifier) NotifyMovement(product *models.Product, movement *models.StockMovement) {
	if n.hub.ClientCount() == 0 {
		return
	}
	qty := movement.Quantity
	newQty := movement.QuantityAfter
	n.hub.Broadcast(&StockEvent{
		Event:        EventMovementRecorded,
		SiteID:       movement.SiteID,
		ProductID:    product.ID,
		ProductCUG:   product.CUG,
		ProductName:  product.Name,
		MovementType: string(movement.Type),
		Quantity:     &qty,
		NewQuantity:  &newQty,
		StockStatus:  string(stock.DeriveStatus(movement.QuantityAfter, product.AlertThreshold)),
		Timestamp:    time.Now(),
	})
}

// NotifyThreshold broadcasts a low-stock or backorder crossing.
func (n *HubNotifier) NotifyThreshold(product *models.Product) {
	if n.hub.ClientCount() == 0 {
		return
	}
	event := EventLowStock
	if product.HasBackorder() {
		event = EventBackorder
	}
	qty := product.Quantity
	n.hub.Broadcast(&StockEvent{
		Event:       event,
		SiteID:      product.SiteID,
		ProductID:   product.ID,
		ProductCUG:  product.CUG,
		ProductName: product.Name,
		Quantity:    &qty,
		StockStatus: string(product.StockStatus()),
		Timestamp:   time.Now(),
	})
}

// NotifySale broadcasts a completed sale.
func (n *HubNotifier) NotifySale(sale *models.Sale) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&StockEvent{
		Event:     EventSaleCompleted,
		SiteID:    sale.SiteID,
		SaleID:    sale.ID,
		Timestamp: time.Now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyMovement(product *models.Product, movement *models.StockMovement) {}
func (n *NopNotifier) NotifyThreshold(product *models.Product)                                {}
func (n *NopNotifier) NotifySale(sale *models.Sale)                                           {}
