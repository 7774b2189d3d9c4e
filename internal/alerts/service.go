package alerts

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/merchpulse/merchpulse-backend/internal/view"
	pkgerrors "github.com/merchpulse/merchpulse-backend/pkg/errors"
	"github.com/merchpulse/merchpulse-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// Delay thresholds in minutes. Exceeding the mean for a stage raises the
// corresponding bottleneck flag.
const (
	arrivalDelayThresholdMins  = 15
	pickupDelayThresholdMins   = 10
	deliveryDelayThresholdMins = 30

	lowSellingMaxCount = 2
)

// Canonical bottleneck flags, one pair per delay stage.
const (
	FlagArrivalDelayed  = "High driver arrival delay: drivers are slow to reach the merchant"
	FlagArrivalNormal   = "Driver arrival delay is within the normal range"
	FlagPickupDelayed   = "High pickup delay: orders wait too long after driver arrival"
	FlagPickupNormal    = "Pickup delay is within the normal range"
	FlagDeliveryDelayed = "High delivery delay: orders take too long to reach the customer"
	FlagDeliveryNormal  = "Delivery delay is within the normal range"
)

// ItemDaySales is one item's sale count on the alert day.
type ItemDaySales struct {
	ItemName string `json:"item_name"`
	Count    int    `json:"count"`
}

// InventoryStatus classifies the day's item sales.
type InventoryStatus struct {
	ItemSales   []ItemDaySales `json:"item_sales"`
	LowSelling  []string       `json:"low_selling"`
	HighSelling []string       `json:"high_selling"`
}

// RevenueSummary aggregates the day's money figures.
type RevenueSummary struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	OrderCount        int             `json:"order_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// Bundle is the full alert payload for one merchant and day.
type Bundle struct {
	AsOfDate    string          `json:"as_of_date"`
	Inventory   InventoryStatus `json:"inventory_status"`
	Revenue     RevenueSummary  `json:"revenue_summary"`
	Bottlenecks []string        `json:"bottleneck_alerts"`
}

// Service derives daily operational signals from the merchant view.
type Service struct {
	builder *view.Builder
	logg    *logger.Logger
}

// NewService constructs an alert detector.
func NewService(builder *view.Builder, logg *logger.Logger) (*Service, error) {
	if builder == nil {
		return nil, fmt.Errorf("view builder required")
	}
	return &Service{builder: builder, logg: logg}, nil
}

// Detect computes alerts scoped to the merchant's most recent calendar day of
// orders, which is not necessarily today.
func (s *Service) Detect(ctx context.Context, merchantID string) (*Bundle, error) {
	rows := s.builder.Build(ctx, merchantID)
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no order data for merchant")
	}

	var latest time.Time
	for _, r := range rows {
		if r.OrderTime.After(latest) {
			latest = r.OrderTime
		}
	}
	year, month, day := latest.Date()

	var dayRows []view.Row
	for _, r := range rows {
		y, m, d := r.OrderTime.Date()
		if y == year && m == month && d == day {
			dayRows = append(dayRows, r)
		}
	}
	if len(dayRows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no order data for latest date")
	}

	return &Bundle{
		AsOfDate:    latest.Format("2006-01-02"),
		Inventory:   inventoryStatus(dayRows),
		Revenue:     revenueSummary(dayRows),
		Bottlenecks: bottleneckFlags(dayRows),
	}, nil
}

func inventoryStatus(rows []view.Row) InventoryStatus {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.ItemName]++
	}

	sales := make([]ItemDaySales, 0, len(counts))
	var total float64
	for name, c := range counts {
		sales = append(sales, ItemDaySales{ItemName: name, Count: c})
		total += float64(c)
	}
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].Count != sales[j].Count {
			return sales[i].Count > sales[j].Count
		}
		return sales[i].ItemName < sales[j].ItemName
	})

	mean := total / float64(len(sales))
	var variance float64
	for _, s := range sales {
		diff := float64(s.Count) - mean
		variance += diff * diff
	}
	stddev := math.Sqrt(variance / float64(len(sales)))
	highCutoff := mean + stddev

	status := InventoryStatus{
		ItemSales:   sales,
		LowSelling:  []string{},
		HighSelling: []string{},
	}
	for _, s := range sales {
		if s.Count <= lowSellingMaxCount {
			status.LowSelling = append(status.LowSelling, s.ItemName)
		}
		if float64(s.Count) > highCutoff {
			status.HighSelling = append(status.HighSelling, s.ItemName)
		}
	}
	return status
}

func revenueSummary(rows []view.Row) RevenueSummary {
	seen := make(map[string]struct{})
	sum := decimal.Zero
	revenue := decimal.Zero
	for _, r := range rows {
		revenue = revenue.Add(r.Price)
		if _, ok := seen[r.OrderID]; ok {
			continue
		}
		seen[r.OrderID] = struct{}{}
		sum = sum.Add(r.OrderValue)
	}

	summary := RevenueSummary{
		TotalRevenue: revenue.Round(2),
		OrderCount:   len(seen),
	}
	if len(seen) > 0 {
		summary.AverageOrderValue = sum.Div(decimal.NewFromInt(int64(len(seen)))).Round(2)
	} else {
		summary.AverageOrderValue = decimal.Zero
	}
	return summary
}

// bottleneckFlags always returns exactly three flags, one per delay stage.
// Each stage's mean is computed over the day's distinct orders; negative
// durations from out-of-order timestamps are included as-is.
func bottleneckFlags(rows []view.Row) []string {
	seen := make(map[string]struct{})
	var arrival, pickup, delivery float64
	for _, r := range rows {
		if _, ok := seen[r.OrderID]; ok {
			continue
		}
		seen[r.OrderID] = struct{}{}
		arrival += r.DriverArrivalTime.Sub(r.OrderTime).Minutes()
		pickup += r.DriverPickupTime.Sub(r.DriverArrivalTime).Minutes()
		delivery += r.DeliveryTime.Sub(r.DriverPickupTime).Minutes()
	}

	n := float64(len(seen))
	flags := make([]string, 0, 3)

	if arrival/n > arrivalDelayThresholdMins {
		flags = append(flags, FlagArrivalDelayed)
	} else {
		flags = append(flags, FlagArrivalNormal)
	}
	if pickup/n > pickupDelayThresholdMins {
		flags = append(flags, FlagPickupDelayed)
	} else {
		flags = append(flags, FlagPickupNormal)
	}
	if delivery/n > deliveryDelayThresholdMins {
		flags = append(flags, FlagDeliveryDelayed)
	} else {
		flags = append(flags, FlagDeliveryNormal)
	}
	return flags
}
