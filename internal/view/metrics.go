package view

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// ItemSales is a per-item sales count within the view.
type ItemSales struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Count    int    `json:"count"`
}

// HourSales is a per-hour order count.
type HourSales struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// DaySales is a per-weekday order count.
type DaySales struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Summary bundles every derived metric for one merchant view.
type Summary struct {
	MerchantID          string          `json:"merchant_id"`
	MerchantName        string          `json:"merchant_name"`
	CuisineType         string          `json:"cuisine_type"`
	TopSellingItems     []ItemSales     `json:"top_selling_items"`
	LeastSellingItems   []ItemSales     `json:"least_selling_items"`
	PopularHours        []HourSales     `json:"popular_hours"`
	PopularDays         []DaySales      `json:"popular_days"`
	AverageBasketSize   float64         `json:"average_basket_size"`
	AverageOrderValue   decimal.Decimal `json:"average_order_value"`
	AverageDeliveryMins float64         `json:"average_delivery_time_minutes"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
}

// Summarize computes the full metric bundle. topN bounds the item rankings.
func Summarize(rows []Row, topN int) Summary {
	s := Summary{
		TopSellingItems:   TopSellingItems(rows, topN),
		LeastSellingItems: LeastSellingItems(rows, topN),
		PopularHours:      PopularHours(rows),
		PopularDays:       PopularDays(rows),
		AverageBasketSize: AverageBasketSize(rows),
		AverageOrderValue: AverageOrderValue(rows),
		TotalRevenue:      TotalRevenue(rows),
	}
	s.AverageDeliveryMins = AverageDeliveryTimeMinutes(rows)
	if len(rows) > 0 {
		s.MerchantID = rows[0].MerchantID
		s.MerchantName = rows[0].MerchantName
		s.CuisineType = rows[0].CuisineType
	}
	return s
}

func itemCounts(rows []Row) []ItemSales {
	type key struct{ id, name string }
	counts := make(map[key]int)
	for _, r := range rows {
		counts[key{r.ItemID, r.ItemName}]++
	}
	out := make([]ItemSales, 0, len(counts))
	for k, c := range counts {
		out = append(out, ItemSales{ItemID: k.id, ItemName: k.name, Count: c})
	}
	return out
}

// TopSellingItems ranks items by line count descending. Equal counts are
// ordered by item name ascending so repeated calls agree.
func TopSellingItems(rows []Row, n int) []ItemSales {
	out := itemCounts(rows)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ItemName < out[j].ItemName
	})
	return truncateItems(out, n)
}

// LeastSellingItems ranks items by line count ascending with the same
// name-based tie-break as TopSellingItems.
func LeastSellingItems(rows []Row, n int) []ItemSales {
	out := itemCounts(rows)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count < out[j].Count
		}
		return out[i].ItemName < out[j].ItemName
	})
	return truncateItems(out, n)
}

func truncateItems(items []ItemSales, n int) []ItemSales {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// PopularHours counts order lines per hour of day, busiest first.
func PopularHours(rows []Row) []HourSales {
	counts := make(map[int]int)
	for _, r := range rows {
		counts[r.OrderTime.Hour()]++
	}
	out := make([]HourSales, 0, len(counts))
	for h, c := range counts {
		out = append(out, HourSales{Hour: h, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}

// PopularDays counts order lines per weekday, busiest first.
func PopularDays(rows []Row) []DaySales {
	counts := make(map[int]int)
	for _, r := range rows {
		counts[int(r.OrderTime.Weekday())]++
	}
	out := make([]DaySales, 0, len(counts))
	for d, c := range counts {
		out = append(out, DaySales{Day: weekdayName(d), Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Day < out[j].Day
	})
	return out
}

func weekdayName(d int) string {
	names := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if d < 0 || d >= len(names) {
		return "Unknown"
	}
	return names[d]
}

// AverageBasketSize is the mean per-order count of distinct items, rounded to
// two decimals. Duplicate lines for the same (order, item) pair count once.
func AverageBasketSize(rows []Row) float64 {
	distinct := make(map[string]map[string]struct{})
	for _, r := range rows {
		items, ok := distinct[r.OrderID]
		if !ok {
			items = make(map[string]struct{})
			distinct[r.OrderID] = items
		}
		items[r.ItemID] = struct{}{}
	}
	if len(distinct) == 0 {
		return 0
	}
	total := 0
	for _, items := range distinct {
		total += len(items)
	}
	return round2(float64(total) / float64(len(distinct)))
}

// AverageOrderValue averages order_value over the view's distinct orders.
// Averaging the joined rows directly would weight multi-line orders more than
// once, so values are deduplicated by order id first.
func AverageOrderValue(rows []Row) decimal.Decimal {
	seen := make(map[string]struct{})
	sum := decimal.Zero
	for _, r := range rows {
		if _, ok := seen[r.OrderID]; ok {
			continue
		}
		seen[r.OrderID] = struct{}{}
		sum = sum.Add(r.OrderValue)
	}
	if len(seen) == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(len(seen)))).Round(2)
}

// AverageDeliveryTimeMinutes is the mean minutes between order placement and
// delivery over distinct orders, rounded to two decimals. Negative durations
// from out-of-order timestamps are included as-is.
func AverageDeliveryTimeMinutes(rows []Row) float64 {
	seen := make(map[string]struct{})
	var total float64
	for _, r := range rows {
		if _, ok := seen[r.OrderID]; ok {
			continue
		}
		seen[r.OrderID] = struct{}{}
		total += r.DeliveryTime.Sub(r.OrderTime).Minutes()
	}
	if len(seen) == 0 {
		return 0
	}
	return round2(total / float64(len(seen)))
}

// TotalRevenue sums item prices across all view rows. This is an item-price
// basis, deliberately distinct from the order_value basis used by
// AverageOrderValue.
func TotalRevenue(rows []Row) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Price)
	}
	return sum.Round(2)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
