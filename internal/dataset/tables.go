package dataset

import (
	"time"

	"github.com/shopspring/decimal"
)

// Merchant is immutable reference data loaded once at startup.
type Merchant struct {
	ID          string
	Name        string
	CuisineType string
	JoinDate    time.Time
}

// Item belongs to exactly one merchant.
type Item struct {
	ID         string
	MerchantID string
	Name       string
	CuisineTag string
	Price      decimal.Decimal
}

// Order carries the four delivery-stage timestamps. The source data does not
// guarantee they are ordered; out-of-order rows produce negative durations
// downstream and are kept.
type Order struct {
	ID                string
	MerchantID        string
	OrderTime         time.Time
	DriverArrivalTime time.Time
	DriverPickupTime  time.Time
	DeliveryTime      time.Time
	Value             decimal.Decimal
}

// OrderLine is one unit sold: the junction between an order and an item.
// Quantity is implicit, one row per unit.
type OrderLine struct {
	OrderID string
	ItemID  string
}

// Keyword is a corpus-wide search term with its popularity counters.
type Keyword struct {
	Text          string
	CheckoutCount int
	OrderCount    int
}

// Store holds the five raw relations. It is built once at startup and never
// mutated afterwards, so concurrent readers need no locking.
type Store struct {
	merchants       map[string]Merchant
	itemsByMerchant map[string][]Item
	items           map[string]Item
	orders          map[string]Order
	lines           []OrderLine
	keywords        []Keyword
}

// NewStore indexes the given relations into an immutable Store.
func NewStore(merchants []Merchant, items []Item, orders []Order, lines []OrderLine, keywords []Keyword) *Store {
	s := &Store{
		merchants:       make(map[string]Merchant, len(merchants)),
		itemsByMerchant: make(map[string][]Item),
		items:           make(map[string]Item, len(items)),
		orders:          make(map[string]Order, len(orders)),
		lines:           lines,
		keywords:        keywords,
	}
	for _, m := range merchants {
		s.merchants[m.ID] = m
	}
	for _, it := range items {
		s.items[it.ID] = it
		s.itemsByMerchant[it.MerchantID] = append(s.itemsByMerchant[it.MerchantID], it)
	}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

// Merchant looks up a merchant by id.
func (s *Store) Merchant(id string) (Merchant, bool) {
	m, ok := s.merchants[id]
	return m, ok
}

// ItemsForMerchant returns the merchant's catalog, or nil when unknown.
func (s *Store) ItemsForMerchant(merchantID string) []Item {
	return s.itemsByMerchant[merchantID]
}

// Order looks up an order by id.
func (s *Store) Order(id string) (Order, bool) {
	o, ok := s.orders[id]
	return o, ok
}

// OrderLines returns every order line in the dataset.
func (s *Store) OrderLines() []OrderLine {
	return s.lines
}

// Keywords returns the full keyword corpus.
func (s *Store) Keywords() []Keyword {
	return s.keywords
}
