package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/merchpulse/merchpulse-backend/pkg/config"
	"github.com/merchpulse/merchpulse-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Loader reads the raw CSV exports into an immutable Store.
type Loader struct {
	cfg  config.DatasetConfig
	logg *logger.Logger
}

// NewLoader builds a dataset loader.
func NewLoader(cfg config.DatasetConfig, logg *logger.Logger) *Loader {
	return &Loader{cfg: cfg, logg: logg}
}

// Load parses all five relations. File-level failures are collected and
// returned together; row-level parse failures are logged as integrity
// warnings and the row is skipped.
func (l *Loader) Load(ctx context.Context) (*Store, error) {
	var loadErr error

	merchants, err := l.loadMerchants(ctx)
	loadErr = multierr.Append(loadErr, err)

	items, err := l.loadItems(ctx)
	loadErr = multierr.Append(loadErr, err)

	orders, err := l.loadOrders(ctx)
	loadErr = multierr.Append(loadErr, err)

	lines, err := l.loadOrderLines(ctx)
	loadErr = multierr.Append(loadErr, err)

	keywords, err := l.loadKeywords(ctx)
	loadErr = multierr.Append(loadErr, err)

	if loadErr != nil {
		return nil, loadErr
	}

	if l.logg != nil {
		ctx = l.logg.WithFields(ctx, map[string]any{
			"merchants":   len(merchants),
			"items":       len(items),
			"orders":      len(orders),
			"order_lines": len(lines),
			"keywords":    len(keywords),
		})
		l.logg.Info(ctx, "dataset loaded")
	}

	return NewStore(merchants, items, orders, lines, keywords), nil
}

type table struct {
	columns map[string]int
	rows    [][]string
}

func (t *table) field(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func (l *Loader) readTable(name string, required ...string) (*table, error) {
	path := filepath.Join(l.cfg.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", name)
	}

	columns := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		columns[col] = i
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", name, col)
		}
	}

	return &table{columns: columns, rows: records[1:]}, nil
}

func (l *Loader) warnRow(ctx context.Context, file string, rowNum int, reason string) {
	if l.logg == nil {
		return
	}
	ctx = l.logg.WithFields(ctx, map[string]any{
		"file":   file,
		"row":    rowNum,
		"reason": reason,
	})
	l.logg.Warn(ctx, "dataset.row_skipped")
}

func (l *Loader) loadMerchants(ctx context.Context) ([]Merchant, error) {
	t, err := l.readTable(l.cfg.MerchantsFile, "merchant_id", "merchant_name", "cuisine_type", "join_date")
	if err != nil {
		return nil, err
	}

	merchants := make([]Merchant, 0, len(t.rows))
	for i, row := range t.rows {
		joined, err := time.Parse(l.cfg.JoinDateLayout, t.field(row, "join_date"))
		if err != nil {
			l.warnRow(ctx, l.cfg.MerchantsFile, i+2, "unparseable join_date")
			continue
		}
		merchants = append(merchants, Merchant{
			ID:          t.field(row, "merchant_id"),
			Name:        t.field(row, "merchant_name"),
			CuisineType: t.field(row, "cuisine_type"),
			JoinDate:    joined,
		})
	}
	return merchants, nil
}

func (l *Loader) loadItems(ctx context.Context) ([]Item, error) {
	t, err := l.readTable(l.cfg.ItemsFile, "item_id", "merchant_id", "item_name", "cuisine_tag", "item_price")
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(t.rows))
	for i, row := range t.rows {
		price, err := decimal.NewFromString(t.field(row, "item_price"))
		if err != nil {
			l.warnRow(ctx, l.cfg.ItemsFile, i+2, "unparseable item_price")
			continue
		}
		items = append(items, Item{
			ID:         t.field(row, "item_id"),
			MerchantID: t.field(row, "merchant_id"),
			Name:       t.field(row, "item_name"),
			CuisineTag: t.field(row, "cuisine_tag"),
			Price:      price,
		})
	}
	return items, nil
}

func (l *Loader) loadOrders(ctx context.Context) ([]Order, error) {
	t, err := l.readTable(l.cfg.OrdersFile,
		"order_id", "merchant_id", "order_time", "driver_arrival_time", "driver_pickup_time", "delivery_time", "order_value")
	if err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(t.rows))
	for i, row := range t.rows {
		stamps := make([]time.Time, 0, 4)
		bad := false
		for _, col := range []string{"order_time", "driver_arrival_time", "driver_pickup_time", "delivery_time"} {
			ts, err := time.Parse(l.cfg.TimestampLayout, t.field(row, col))
			if err != nil {
				l.warnRow(ctx, l.cfg.OrdersFile, i+2, "unparseable "+col)
				bad = true
				break
			}
			stamps = append(stamps, ts)
		}
		if bad {
			continue
		}

		value, err := decimal.NewFromString(t.field(row, "order_value"))
		if err != nil {
			l.warnRow(ctx, l.cfg.OrdersFile, i+2, "unparseable order_value")
			continue
		}

		orders = append(orders, Order{
			ID:                t.field(row, "order_id"),
			MerchantID:        t.field(row, "merchant_id"),
			OrderTime:         stamps[0],
			DriverArrivalTime: stamps[1],
			DriverPickupTime:  stamps[2],
			DeliveryTime:      stamps[3],
			Value:             value,
		})
	}
	return orders, nil
}

func (l *Loader) loadOrderLines(ctx context.Context) ([]OrderLine, error) {
	t, err := l.readTable(l.cfg.OrderLinesFile, "order_id", "item_id")
	if err != nil {
		return nil, err
	}

	lines := make([]OrderLine, 0, len(t.rows))
	for i, row := range t.rows {
		orderID := t.field(row, "order_id")
		itemID := t.field(row, "item_id")
		if orderID == "" || itemID == "" {
			l.warnRow(ctx, l.cfg.OrderLinesFile, i+2, "missing order_id or item_id")
			continue
		}
		lines = append(lines, OrderLine{OrderID: orderID, ItemID: itemID})
	}
	return lines, nil
}

func (l *Loader) loadKeywords(ctx context.Context) ([]Keyword, error) {
	t, err := l.readTable(l.cfg.KeywordsFile, "keyword", "checkout", "order")
	if err != nil {
		return nil, err
	}

	keywords := make([]Keyword, 0, len(t.rows))
	for i, row := range t.rows {
		checkout, err := strconv.Atoi(t.field(row, "checkout"))
		if err != nil {
			l.warnRow(ctx, l.cfg.KeywordsFile, i+2, "unparseable checkout count")
			continue
		}
		order, err := strconv.Atoi(t.field(row, "order"))
		if err != nil {
			l.warnRow(ctx, l.cfg.KeywordsFile, i+2, "unparseable order count")
			continue
		}
		keywords = append(keywords, Keyword{
			Text:          t.field(row, "keyword"),
			CheckoutCount: checkout,
			OrderCount:    order,
		})
	}
	return keywords, nil
}
