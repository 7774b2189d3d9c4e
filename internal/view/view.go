package view

import (
	"context"
	"time"

	"github.com/merchpulse/merchpulse-backend/internal/dataset"
	"github.com/merchpulse/merchpulse-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// Row is one order line joined with its item, order, and merchant columns.
type Row struct {
	MerchantID   string
	MerchantName string
	CuisineType  string
	JoinDate     time.Time

	ItemID     string
	ItemName   string
	CuisineTag string
	Price      decimal.Decimal

	OrderID           string
	OrderTime         time.Time
	DriverArrivalTime time.Time
	DriverPickupTime  time.Time
	DeliveryTime      time.Time
	OrderValue        decimal.Decimal
}

// Builder materializes the merchant-scoped view on demand. The underlying
// store is immutable, so a Builder is safe for concurrent use.
type Builder struct {
	store *dataset.Store
	logg  *logger.Logger
}

// NewBuilder wraps the dataset store.
func NewBuilder(store *dataset.Store, logg *logger.Logger) *Builder {
	return &Builder{store: store, logg: logg}
}

// Build joins the merchant's items with order lines and orders. Both the
// merchant row and the item catalog are filtered to the merchant before any
// join; joining first and filtering later risks leaking rows across merchants
// that share an item id space. An unknown merchant or an empty catalog yields
// an empty view, never an error.
func (b *Builder) Build(ctx context.Context, merchantID string) []Row {
	merchant, ok := b.store.Merchant(merchantID)
	if !ok {
		return nil
	}

	items := b.store.ItemsForMerchant(merchantID)
	if len(items) == 0 {
		return nil
	}

	itemByID := make(map[string]dataset.Item, len(items))
	for _, it := range items {
		itemByID[it.ID] = it
	}

	var rows []Row
	outOfOrder := 0
	for _, line := range b.store.OrderLines() {
		item, ok := itemByID[line.ItemID]
		if !ok {
			continue
		}
		order, ok := b.store.Order(line.OrderID)
		if !ok {
			continue
		}
		if order.MerchantID != merchantID {
			// The item matched but the order belongs to another merchant.
			continue
		}

		if order.DeliveryTime.Before(order.OrderTime) {
			outOfOrder++
		}

		rows = append(rows, Row{
			MerchantID:        merchant.ID,
			MerchantName:      merchant.Name,
			CuisineType:       merchant.CuisineType,
			JoinDate:          merchant.JoinDate,
			ItemID:            item.ID,
			ItemName:          item.Name,
			CuisineTag:        item.CuisineTag,
			Price:             item.Price,
			OrderID:           order.ID,
			OrderTime:         order.OrderTime,
			DriverArrivalTime: order.DriverArrivalTime,
			DriverPickupTime:  order.DriverPickupTime,
			DeliveryTime:      order.DeliveryTime,
			OrderValue:        order.Value,
		})
	}

	if outOfOrder > 0 && b.logg != nil {
		ctx = b.logg.WithFields(ctx, map[string]any{
			"merchant_id": merchantID,
			"rows":        outOfOrder,
		})
		b.logg.Warn(ctx, "view.out_of_order_timestamps")
	}

	return rows
}
